package colmatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/colmatch/config"
)

// Request describes one run: where to read, where to write the output file,
// and which database table receives the rows.
type Request struct {
	// FilePath is the input file.
	FilePath string
	// DBPath is the database DSN (see driver.ParseDSN). A plain path is a SQLite file.
	DBPath string
	// TableName is the existing table the rows are appended to.
	TableName string
	// OutputFile is where the output table is written.
	OutputFile string
	// ExportToDB enables the database step (default: true).
	ExportToDB bool

	showMatchCol *bool
}

// NewRequest creates a Request that exports to the database.
func NewRequest(filePath, dbPath, tableName, outputFile string) Request {
	return Request{
		FilePath:   filePath,
		DBPath:     dbPath,
		TableName:  tableName,
		OutputFile: outputFile,
		ExportToDB: true,
	}
}

// WithExportToDB returns a copy of the request with the database step switched on or off.
func (r Request) WithExportToDB(export bool) Request {
	r.ExportToDB = export
	return r
}

// WithShowMatchCol returns a copy of the request that overrides Config.ShowMatchCol.
func (r Request) WithShowMatchCol(show bool) Request {
	r.showMatchCol = &show
	return r
}

// Result summarizes a finished run.
type Result struct {
	// OutputFile is the file that was written.
	OutputFile string
	// Existing are the input columns found in the reference schema, in input order.
	Existing []string
	// NotExisting are the input columns that were dropped, in input order.
	NotExisting []string
	// Columns are the output columns in schema order.
	Columns []string
	// RowsWritten is the number of data rows in the output file.
	RowsWritten int
	// RowsInserted is the number of rows appended to the database table.
	RowsInserted int64
	// Exported reports whether the database step ran.
	Exported bool
}

// Pipeline runs load, normalize, reconcile, save and insert for requests
// sharing one configuration.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
}

// NewPipeline creates a Pipeline. A nil cfg means config.Default().
func NewPipeline(cfg *config.Config) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Pipeline{
		cfg:    cfg,
		logger: slog.Default(),
		out:    os.Stdout,
	}
}

// WithLogger sets the logger for progress events (default: slog.Default()).
func (p *Pipeline) WithLogger(logger *slog.Logger) *Pipeline {
	p.logger = logger
	return p
}

// WithOutput sets where the confirmation lines are printed (default: os.Stdout).
func (p *Pipeline) WithOutput(w io.Writer) *Pipeline {
	p.out = w
	return p
}

// Process runs req with a default Pipeline for cfg.
func Process(ctx context.Context, cfg *config.Config, req Request) (*Result, error) {
	return NewPipeline(cfg).Run(ctx, req)
}

// Run executes req. The output file is always written before the database
// step; a database failure therefore leaves the output file in place.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := newValidator().validateRequest(req); err != nil {
		return nil, NewErrorContext("validate", req.FilePath).Error(err)
	}

	schema, err := p.cfg.Schema()
	if err != nil {
		return nil, fmt.Errorf("colmatch: reference schema: %w", err)
	}

	table, err := Load(req.FilePath)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("loaded table",
		"file", req.FilePath,
		"columns", table.ColumnCount(),
		"rows", table.RowCount())

	normalized, err := NewNormalizer(p.cfg.ChangeColName).Normalize(table)
	if err != nil {
		return nil, NewErrorContext("normalize", req.FilePath).Error(err)
	}
	p.logger.Debug("normalized columns",
		"from", []string(table.Header()),
		"to", []string(normalized.Header()),
		"change_col_name", p.cfg.ChangeColName)

	output, r, err := Project(normalized, schema)
	if err != nil {
		return nil, NewErrorContext("reconcile", req.FilePath).Error(err)
	}
	p.logger.Info("reconciled columns",
		"existing", r.Existing,
		"not_existing", r.NotExisting)
	if !r.Matched() {
		p.logger.Warn("no input column matches the reference schema", "file", req.FilePath)
	}

	result := &Result{
		OutputFile:  req.OutputFile,
		Existing:    r.Existing,
		NotExisting: r.NotExisting,
		Columns:     output.Header(),
		RowsWritten: output.RowCount(),
	}

	if err := SaveTable(output, req.OutputFile); err != nil {
		return nil, err
	}
	p.logger.Info("saved file", "path", req.OutputFile, "rows", output.RowCount())
	p.printf("File %s has been saved successfully\n", req.OutputFile)

	if p.showMatchCol(req) {
		p.printf("Column name: %v matches to column name in the DB\n", r.Existing)
	}

	if !req.ExportToDB {
		return result, nil
	}

	inserted, err := InsertTable(ctx, req.DBPath, req.TableName, output)
	if err != nil {
		return result, err
	}
	result.RowsInserted = inserted
	result.Exported = true
	p.logger.Info("inserted rows", "table", req.TableName, "rows", inserted)
	p.printf("Data has been insert to columns %v\n", []string(output.Header()))

	return result, nil
}

// showMatchCol resolves the request override against the configuration
func (p *Pipeline) showMatchCol(req Request) bool {
	if req.showMatchCol != nil {
		return *req.showMatchCol
	}
	return p.cfg.ShowMatchCol
}

// printf writes a confirmation line; the report is best effort
func (p *Pipeline) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}
