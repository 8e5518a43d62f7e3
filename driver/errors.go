package driver

import "errors"

// Predefined errors
var (
	// ErrEmptyDSN is returned when no data source name is given
	ErrEmptyDSN = errors.New("colmatch driver: empty data source name")

	// ErrInvalidDSN is returned when a data source name cannot be parsed for its dialect
	ErrInvalidDSN = errors.New("colmatch driver: invalid data source name")

	// ErrInvalidIdentifier is returned when a table or column name is not a plain SQL identifier
	ErrInvalidIdentifier = errors.New("colmatch driver: invalid SQL identifier")

	// ErrNoColumns is returned when an INSERT is requested without columns
	ErrNoColumns = errors.New("colmatch driver: no columns to insert")

	// ErrTooManyColumns is returned when a statement would exceed the column limit
	ErrTooManyColumns = errors.New("colmatch driver: too many columns")
)
