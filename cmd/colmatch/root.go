package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/nao1215/colmatch"
	"github.com/nao1215/colmatch/config"
	"github.com/nao1215/colmatch/internal/logging"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	file          string
	db            string
	table         string
	output        string
	export        bool
	showMatchCol  bool
	changeColName bool
	configPath    string
	envFile       string
	logLevel      string
	logFormat     string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:          "colmatch",
		Short:        "Match report columns to a reference schema and load them into a database",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoot(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Input file: .csv, .tsv, .ltsv, .xls or .xlsx, optionally compressed (required)")
	cmd.Flags().StringVar(&opts.output, "output", "", "Output file; the extension selects the format (required)")
	cmd.Flags().StringVar(&opts.db, "db", "", "Database: SQLite path, sqlite://, postgres:// or mysql:// DSN")
	cmd.Flags().StringVar(&opts.table, "table", "", "Existing table that receives the rows")
	cmd.Flags().BoolVar(&opts.export, "export", true, "Insert the rows into the database table")
	cmd.Flags().BoolVar(&opts.showMatchCol, "show-match-col", true, "Print the columns that match the reference schema")
	cmd.Flags().BoolVar(&opts.changeColName, "change-col-name", false, "Apply the semantic rename rules")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "Environment file loaded before reading COLMATCH_* variables")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "", "Log format: text, json")

	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runRoot(cmd *cobra.Command, opts rootOptions) error {
	if err := loadEnvFile(opts.envFile); err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	// explicit flags win over file and environment
	flags := cmd.Flags()
	if flags.Changed("change-col-name") {
		cfg.ChangeColName = opts.changeColName
	}
	if flags.Changed("show-match-col") {
		cfg.ShowMatchCol = opts.showMatchCol
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = opts.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logger.Debug("configuration loaded", "config", cfg.String())

	req := colmatch.NewRequest(opts.file, opts.db, opts.table, opts.output).
		WithExportToDB(opts.export)

	result, err := colmatch.NewPipeline(cfg).
		WithLogger(logger).
		WithOutput(cmd.OutOrStdout()).
		Run(cmd.Context(), req)
	if err != nil {
		logger.Error("run failed", "file", opts.file, "error", err)
		return err
	}

	logger.Info("run finished",
		"output", result.OutputFile,
		"columns", result.Columns,
		"rows_written", result.RowsWritten,
		"rows_inserted", result.RowsInserted,
		"exported", result.Exported)
	return nil
}

// loadEnvFile loads path into the process environment. A missing file is
// not an error; variables already set are kept.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
