package colmatch

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error messages and error creation functions for consistency
var (
	// ErrUnsupportedFormat indicates an input or output extension colmatch cannot handle
	ErrUnsupportedFormat = errors.New("colmatch: unsupported file format")

	// ErrFileNotFound indicates file not found
	ErrFileNotFound = errors.New("colmatch: file not found")

	// ErrEmptyData indicates that the data source has no header row
	ErrEmptyData = errors.New("colmatch: empty data source")

	// ErrSchemaMismatch is the class of errors where the input columns cannot
	// be reconciled with the reference schema
	ErrSchemaMismatch = errors.New("colmatch: schema mismatch")

	// ErrNoMatchingColumns indicates that no input column is in the reference schema
	ErrNoMatchingColumns = fmt.Errorf("%w: no input column matches the reference schema", ErrSchemaMismatch)

	// ErrColumnCollision indicates that two input columns normalize to the same name
	ErrColumnCollision = fmt.Errorf("%w: columns collide after normalization", ErrSchemaMismatch)

	// ErrDataSink indicates that the database rejected or could not receive the rows
	ErrDataSink = errors.New("colmatch: data sink error")

	// ErrInvalidTableName indicates a target table name that is not a plain identifier
	ErrInvalidTableName = errors.New("colmatch: invalid table name")

	// ErrInvalidRequest indicates a pipeline request missing a required path
	ErrInvalidRequest = errors.New("colmatch: invalid request")
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	TableName string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithTable adds table context to the error
func (ec *ErrorContext) WithTable(tableName string) *ErrorContext {
	ec.TableName = tableName
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	var parts []string
	parts = append(parts, fmt.Sprintf("colmatch: %s failed", ec.Operation))

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}

	if ec.TableName != "" {
		parts = append(parts, "table: "+ec.TableName)
	}

	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return fmt.Errorf("%s", context)
}
