// Package model provides the domain model for colmatch: tables loaded from
// files, the reference schema they are matched against, and the result of
// that match.
package model

import "errors"

var (
	// ErrUnknownColumn is returned when a projection names a column the table does not have
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidSchema is returned when a reference schema is empty, has duplicates or non-canonical names
	ErrInvalidSchema = errors.New("invalid reference schema")
)
