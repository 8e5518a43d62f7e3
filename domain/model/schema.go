package model

import (
	"fmt"
	"regexp"
)

// canonicalNamePattern matches upper-case, underscore-separated column names.
var canonicalNamePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// IsCanonicalName reports whether name follows the reference schema convention.
func IsCanonicalName(name string) bool {
	return canonicalNamePattern.MatchString(name)
}

// Schema is the ordered list of column names the target table expects.
// It decides both which columns are kept and the order they are emitted in.
type Schema struct {
	columns []string
	index   map[string]int
}

// NewSchema validates columns and builds a Schema.
func NewSchema(columns []string) (Schema, error) {
	if len(columns) == 0 {
		return Schema{}, fmt.Errorf("%w: no columns", ErrInvalidSchema)
	}

	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if !IsCanonicalName(c) {
			return Schema{}, fmt.Errorf("%w: %q is not upper-case and underscore-separated", ErrInvalidSchema, c)
		}
		if _, dup := index[c]; dup {
			return Schema{}, fmt.Errorf("%w: %s listed twice", ErrInvalidSchema, c)
		}
		index[c] = i
	}

	cols := make([]string, len(columns))
	copy(cols, columns)
	return Schema{columns: cols, index: index}, nil
}

// Columns returns a copy of the schema columns in canonical order.
func (s Schema) Columns() []string {
	cols := make([]string, len(s.columns))
	copy(cols, s.columns)
	return cols
}

// Len returns the number of schema columns.
func (s Schema) Len() int {
	return len(s.columns)
}

// Contains reports whether name is a schema column.
func (s Schema) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Index returns the schema position of name, or -1.
func (s Schema) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Order returns the schema columns present in names, in schema order.
// Names outside the schema are dropped.
func (s Schema) Order(names []string) []string {
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}
	ordered := make([]string, 0, len(names))
	for _, c := range s.columns {
		if present[c] {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// Reconciliation is the split of a header into columns the schema knows
// and columns it does not. Both lists keep table order.
type Reconciliation struct {
	Existing    []string
	NotExisting []string
}

// Matched reports whether at least one column is known to the schema.
func (r Reconciliation) Matched() bool {
	return len(r.Existing) > 0
}
