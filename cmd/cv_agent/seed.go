package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-generator/internal/aggregate"
	"github.com/jonathan/cv-generator/internal/schemas"
	"github.com/jonathan/cv-generator/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load CV collections into the record store",
	Long: `Reads a JSON file mapping collection names to record arrays and upserts
them into the record store. Consolidated cv_data records are validated
against the record schema before anything is written.`,
	RunE: runSeed,
}

var (
	seedInputFile   string
	seedDatabaseURL string
	seedConflictKey string
)

func init() {
	seedCmd.Flags().StringVarP(&seedInputFile, "in", "i", "", "Path to seed JSON file (required)")
	seedCmd.Flags().StringVar(&seedDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	seedCmd.Flags().StringVar(&seedConflictKey, "conflict-key", "id", "Record field used to replace existing records")

	if err := seedCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(seedCmd)
}

func runSeed(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := seedDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	data, err := os.ReadFile(seedInputFile)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var collections map[string][]store.Record
	if err := json.Unmarshal(data, &collections); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(collections) == 0 {
		return fmt.Errorf("seed file contains no collections")
	}

	// Consolidated records must match the schema before touching the store.
	schemaPath := schemas.ResolveSchemaPath(schemas.CVRecordSchemaPath)
	schemaContent, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read record schema: %w", err)
	}
	for i, record := range collections[aggregate.CollectionConsolidated] {
		doc, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal cv_data record %d: %w", i, err)
		}
		if err := schemas.ValidateString(string(schemaContent), string(doc)); err != nil {
			return fmt.Errorf("cv_data record %d: %w", i, err)
		}
	}

	db, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		records := collections[name]
		if len(records) == 0 {
			continue
		}
		if err := db.Upsert(ctx, name, records, seedConflictKey); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Seeded %d records into %s\n", len(records), name)
	}
	return nil
}
