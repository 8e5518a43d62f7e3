package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// compressionExtensions are stripped before the file type extension when
// deriving a table name from a path.
var compressionExtensions = []string{".gz", ".bz2", ".xz", ".zst"}

// Table represents file contents as an ordered header plus row-major records.
type Table struct {
	// name is table name derived from file path.
	name string
	// header is table header.
	header Header
	// records is table records.
	records []Record
}

// NewTable create new Table.
func NewTable(
	name string,
	header Header,
	records []Record,
) *Table {
	return &Table{
		name:    name,
		header:  header,
		records: records,
	}
}

// Name return table name.
func (t *Table) Name() string {
	return t.name
}

// Header return table header.
func (t *Table) Header() Header {
	return t.header
}

// Records return table records.
func (t *Table) Records() []Record {
	return t.records
}

// RowCount returns the number of records.
func (t *Table) RowCount() int {
	return len(t.records)
}

// ColumnCount returns the number of header columns.
func (t *Table) ColumnCount() int {
	return len(t.header)
}

// ColumnValues returns every value of column i, top to bottom. Records
// shorter than the header contribute an empty string.
func (t *Table) ColumnValues(i int) []string {
	values := make([]string, len(t.records))
	for r, record := range t.records {
		if i < len(record) {
			values[r] = record[i]
		}
	}
	return values
}

// ColumnInfo returns column information with types inferred from the records.
func (t *Table) ColumnInfo() []ColumnInfo {
	return InferColumnsInfo(t.header, t.records)
}

// WithHeader returns a table with the same records under a new header.
// Only names change; the header must keep the column count.
func (t *Table) WithHeader(h Header) (*Table, error) {
	if len(h) != len(t.header) {
		return nil, fmt.Errorf("header has %d columns, table has %d", len(h), len(t.header))
	}
	renamed := make(Header, len(h))
	copy(renamed, h)
	return NewTable(t.name, renamed, t.records), nil
}

// Project returns a table holding only the named columns, in the order given.
// Row order is preserved.
func (t *Table) Project(names []string) (*Table, error) {
	indexes := make([]int, len(names))
	for i, name := range names {
		idx := t.header.Index(name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
		indexes[i] = idx
	}

	records := make([]Record, len(t.records))
	for r, record := range t.records {
		projected := make(Record, len(indexes))
		for i, idx := range indexes {
			if idx < len(record) {
				projected[i] = record[idx]
			}
		}
		records[r] = projected
	}

	header := make(Header, len(names))
	copy(header, names)
	return NewTable(t.name, header, records), nil
}

// TableFromFilePath creates table name from file path
func TableFromFilePath(filePath string) string {
	fileName := filepath.Base(filePath)
	// Remove compression extensions first
	for _, ext := range compressionExtensions {
		if strings.HasSuffix(strings.ToLower(fileName), ext) {
			fileName = fileName[:len(fileName)-len(ext)]
			break
		}
	}
	// Then remove the file type extension
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
