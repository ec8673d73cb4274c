package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cv-generator/internal/aggregate"
	"github.com/jonathan/cv-generator/internal/config"
	"github.com/jonathan/cv-generator/internal/delivery"
	"github.com/jonathan/cv-generator/internal/observability"
	"github.com/jonathan/cv-generator/internal/pipeline"
	"github.com/jonathan/cv-generator/internal/reconcile"
	"github.com/jonathan/cv-generator/internal/render"
	"github.com/jonathan/cv-generator/internal/store"
	"github.com/jonathan/cv-generator/internal/tracking"
	"github.com/jonathan/cv-generator/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a CV PDF from the record store",
	Long: `Runs the full generation lifecycle: fetch and reconcile CV data, build the
document description, render it to PDF, validate the artifact, and deliver it.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runGenerate,
}

var (
	genConfigPath     string
	genIntent         string
	genLocale         string
	genTheme          string
	genOutputDir      string
	genSource         string
	genDatabaseURL    string
	genDebugFilenames bool
	genStrict         bool
	genNoPlaceholders bool
	genVerbose        bool
)

func init() {
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	generateCmd.Flags().StringVar(&genIntent, "intent", "download", "Generation intent: download or preview")
	generateCmd.Flags().StringVarP(&genLocale, "locale", "l", "", "Locale to generate for (default en)")
	generateCmd.Flags().StringVarP(&genTheme, "theme", "t", "", "Document theme: modern, classic, or compact")
	generateCmd.Flags().StringVarP(&genOutputDir, "out", "o", "", "Output directory for downloads (default current directory)")
	generateCmd.Flags().StringVar(&genSource, "source", "cli", "Trigger source recorded in tracking events")
	generateCmd.Flags().StringVar(&genDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	generateCmd.Flags().BoolVar(&genDebugFilenames, "debug-filenames", false, "Append a millisecond timestamp to download filenames")
	generateCmd.Flags().BoolVar(&genStrict, "strict", false, "Make advisory artifact validation issues block delivery")
	generateCmd.Flags().BoolVar(&genNoPlaceholders, "no-placeholders", false, "Disable placeholder synthesis for sparse records")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed information about each step")

	rootCmd.AddCommand(generateCmd)
}

// loadGenerateConfig merges the config file, CLI overrides, and defaults,
// in that priority order (CLI wins).
func loadGenerateConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if genConfigPath != "" {
		loaded, err := config.LoadConfig(genConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("locale") {
		cfg.Locale = genLocale
	}
	if cmd.Flags().Changed("theme") {
		cfg.Theme = genTheme
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = genOutputDir
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = genDatabaseURL
	}
	if cmd.Flags().Changed("debug-filenames") {
		cfg.DebugFilenames = genDebugFilenames
	}
	if cmd.Flags().Changed("strict") {
		cfg.StrictValidation = genStrict
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = genVerbose
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		Locale:    "en",
		Theme:     string(types.ThemeModern),
		OutputDir: ".",
	})

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	intent := types.GenerationIntent(genIntent)
	if intent != types.IntentDownload && intent != types.IntentPreview {
		return fmt.Errorf("invalid intent %q: must be download or preview", genIntent)
	}

	cfg, err := loadGenerateConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	reconcileOpts := reconcile.DefaultOptions()
	reconcileOpts.SynthesizePlaceholders = !genNoPlaceholders

	orch := pipeline.New(
		aggregate.New(db, reconcileOpts, logger),
		render.NewChromeRenderer(),
		&delivery.FileSystem{Dir: cfg.OutputDir},
		tracking.NewStoreTracker(db, logger),
		logger,
		pipeline.Options{
			DownloadTimeout:  time.Duration(cfg.DownloadTimeout) * time.Second,
			PreviewTimeout:   time.Duration(cfg.PreviewTimeout) * time.Second,
			StrictValidation: cfg.StrictValidation,
			DebugFilenames:   cfg.DebugFilenames,
		},
	)

	result, err := orch.Generate(ctx, pipeline.Request{
		Intent: intent,
		Source: genSource,
		Locale: cfg.Locale,
		Theme:  types.Theme(cfg.Theme),
	})
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintAggregateReport(result.AggregateReport)
		printer.PrintModel(result.Model)
		printer.PrintValidationReport(result.ArtifactReport)
		printer.PrintArtifact(result.Artifact, result.DownloadPath)
	}

	switch intent {
	case types.IntentPreview:
		fmt.Fprintln(os.Stdout, "Preview opened.")
	default:
		fmt.Fprintf(os.Stdout, "CV written to %s\n", result.DownloadPath)
	}
	return nil
}
