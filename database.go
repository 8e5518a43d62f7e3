package colmatch

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nao1215/colmatch/domain/model"
	"github.com/nao1215/colmatch/driver"
)

// InsertTable appends every record of t to tableName in the database behind
// dsn and returns the number of rows inserted. The table must already exist
// and contain every column of t (compared case-insensitively); it is never
// created or altered. All rows are inserted in one transaction.
//
// Cells are bound as int64 or float64 when their whole column parses as one,
// blank cells as NULL, and everything else as text.
func InsertTable(ctx context.Context, dsn, tableName string, t *model.Table) (int64, error) {
	ec := NewErrorContext("insert", "").WithTable(tableName)

	if t.ColumnCount() == 0 {
		return 0, ec.Error(ErrNoMatchingColumns)
	}
	if err := driver.ValidateIdentifier(tableName); err != nil {
		return 0, ec.Error(fmt.Errorf("%w: %w", ErrInvalidTableName, err))
	}

	d, err := driver.ParseDSN(dsn)
	if err != nil {
		return 0, ec.Error(sinkError(err))
	}
	ec = ec.WithDetails(fmt.Sprintf("%s %s", d.Dialect, d.Redacted()))

	builder, err := driver.NewInsertBuilder(d.Dialect, tableName, t.Header())
	if err != nil {
		return 0, ec.Error(sinkError(err))
	}

	db, err := driver.Open(ctx, d)
	if err != nil {
		return 0, ec.Error(sinkError(err))
	}
	defer db.Close() //nolint:errcheck // the transaction already reported its outcome

	if err := checkTargetColumns(ctx, db, builder); err != nil {
		return 0, ec.Error(sinkError(err))
	}
	if t.RowCount() == 0 {
		return 0, nil
	}

	inserted, err := insertRecords(ctx, db, builder, t)
	if err != nil {
		return 0, ec.Error(sinkError(err))
	}
	return inserted, nil
}

// sinkError marks err as a data sink failure
func sinkError(err error) error {
	return fmt.Errorf("%w: %w", ErrDataSink, err)
}

// checkTargetColumns confirms the table exists and has every insert column
func checkTargetColumns(ctx context.Context, db *sql.DB, builder *driver.InsertBuilder) error {
	rows, err := db.QueryContext(ctx, builder.ColumnsQuery())
	if err != nil {
		return fmt.Errorf("failed to inspect target table: %w", err)
	}
	defer rows.Close() //nolint:errcheck // no rows are read

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read target columns: %w", err)
	}

	existing := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		existing[strings.ToUpper(c)] = struct{}{}
	}

	var missing []string
	for _, c := range builder.Columns() {
		if _, ok := existing[strings.ToUpper(c)]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("target table has no column %s", strings.Join(missing, ", "))
	}
	return nil
}

// insertRecords runs chunked multi-row INSERTs inside a single transaction
func insertRecords(ctx context.Context, db *sql.DB, builder *driver.InsertBuilder, t *model.Table) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	info := t.ColumnInfo()
	records := t.Records()
	chunk := builder.RowsPerStatement()
	statements := make(map[int]*sql.Stmt)

	var inserted int64
	for start := 0; start < len(records); start += chunk {
		end := min(start+chunk, len(records))

		stmt, ok := statements[end-start]
		if !ok {
			stmt, err = tx.PrepareContext(ctx, builder.Build(end-start))
			if err != nil {
				return 0, fmt.Errorf("failed to prepare insert: %w", err)
			}
			defer stmt.Close() //nolint:errcheck // closed with the transaction
			statements[end-start] = stmt
		}

		args := make([]any, 0, (end-start)*len(info))
		for _, record := range records[start:end] {
			for i, col := range info {
				args = append(args, col.Type.Value(record[i]))
			}
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("failed to insert rows %d-%d: %w", start+1, end, err)
		}
		inserted += int64(end - start)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted, nil
}
