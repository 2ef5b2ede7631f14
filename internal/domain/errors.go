package domain

import "errors"

// Error taxonomy shared by every engine component. Errors are wrapped with
// context (parameter name, expected vs. actual) and matched with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidShape    = errors.New("invalid shape")
	ErrNotFound        = errors.New("not found")
	ErrDuplicateColumn = errors.New("duplicate column")
)
