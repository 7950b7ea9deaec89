package repository

import "errors"

var (
	// ErrCheckViolation is returned when a write breaks a table CHECK constraint
	ErrCheckViolation = errors.New("check constraint violated")

	// ErrMissingReference is returned when a write points at a row that does not exist
	ErrMissingReference = errors.New("referenced row does not exist")
)
