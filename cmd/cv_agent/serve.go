package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-generator/internal/aggregate"
	"github.com/jonathan/cv-generator/internal/delivery"
	"github.com/jonathan/cv-generator/internal/pipeline"
	"github.com/jonathan/cv-generator/internal/reconcile"
	"github.com/jonathan/cv-generator/internal/render"
	"github.com/jonathan/cv-generator/internal/server"
	"github.com/jonathan/cv-generator/internal/store"
	"github.com/jonathan/cv-generator/internal/tracking"
)

var (
	servePort    int
	serveStrict  bool
	serveVerbose bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for generating CVs, including an SSE endpoint streaming per-step progress.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveStrict, "strict", false, "Make advisory artifact validation issues block delivery")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	logger, err := newLogger(serveVerbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	broker := server.NewProgressBroker()
	orch := pipeline.New(
		aggregate.New(db, reconcile.DefaultOptions(), logger),
		render.NewChromeRenderer(),
		delivery.Discard{},
		tracking.NewStoreTracker(db, logger),
		logger,
		pipeline.Options{
			StrictValidation: serveStrict,
			OnProgress:       broker.Publish,
		},
	)

	srv := server.New(orch, broker, logger, server.Config{Port: servePort})
	return srv.Start()
}
