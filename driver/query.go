package driver

import (
	"fmt"
	"strings"
)

// maxRowsPerStatement caps the VALUES tuples of one INSERT regardless of
// the dialect's parameter limit.
const maxRowsPerStatement = 500

// InsertBuilder builds multi-row INSERT statements for a fixed table and
// column list. The column order is the positional order of every row.
type InsertBuilder struct {
	dialect Dialect
	table   string
	columns []string
}

// NewInsertBuilder validates the table and column identifiers.
func NewInsertBuilder(dialect Dialect, table string, columns []string) (*InsertBuilder, error) {
	if err := ValidateIdentifier(table); err != nil {
		return nil, err
	}
	if err := ValidateColumnCount(len(columns)); err != nil {
		return nil, err
	}
	for _, c := range columns {
		if err := ValidateIdentifier(c); err != nil {
			return nil, err
		}
	}

	cols := make([]string, len(columns))
	copy(cols, columns)
	return &InsertBuilder{
		dialect: dialect,
		table:   table,
		columns: cols,
	}, nil
}

// Columns returns the insert column list.
func (b *InsertBuilder) Columns() []string {
	return b.columns
}

// RowsPerStatement returns how many rows fit in one statement.
func (b *InsertBuilder) RowsPerStatement() int {
	n := b.dialect.MaxParams() / len(b.columns)
	if n > maxRowsPerStatement {
		n = maxRowsPerStatement
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Build returns an INSERT statement with rows VALUES tuples.
//
//	INSERT INTO report (DAY, CLICKS) VALUES (?, ?), (?, ?)
func (b *InsertBuilder) Build(rows int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", b.table, strings.Join(b.columns, ", "))

	param := 1
	for r := range rows {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range b.columns {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(b.dialect.Placeholder(param))
			param++
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// ColumnsQuery returns a query that selects no rows but exposes the table's
// columns, used to check the table exists before inserting.
func (b *InsertBuilder) ColumnsQuery() string {
	return fmt.Sprintf("SELECT * FROM %s WHERE 1 = 0", b.table)
}
