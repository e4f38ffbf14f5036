package search

import (
	"errors"
	"fmt"
)

// Compile errors. All of them mean the query text is malformed; compiling the
// same text again fails the same way.
var (
	ErrMisplacedNotebookModifier = errors.New("notebook: modifier must be the first word of the query")
	ErrInvalidRelativeDateOffset = errors.New("invalid relative date offset")
	ErrInvalidAbsoluteDateTime   = errors.New("invalid ISO 8601 date-time")
	ErrIntegerConversionFailed   = errors.New("value is not an integer")
	ErrDoubleConversionFailed    = errors.New("value is not a number")
	ErrConflictingTodoState      = errors.New("todo state conflicts with its negation")
)

// QueryError describes why a query could not be compiled. Kind is one of the
// Err* sentinels above and is returned by Unwrap.
type QueryError struct {
	Kind  error
	Field string // field key, if the error belongs to a field
	Word  string // offending word as tokenized
	Value string // offending value, if different from Word
}

func (e *QueryError) Error() string {
	switch {
	case e.Field != "" && e.Value != "":
		return fmt.Sprintf("%s: %v: %q", e.Field, e.Kind, e.Value)
	case e.Field != "":
		return fmt.Sprintf("%s: %v", e.Field, e.Kind)
	case e.Word != "":
		return fmt.Sprintf("%v: %q", e.Kind, e.Word)
	default:
		return e.Kind.Error()
	}
}

func (e *QueryError) Unwrap() error {
	return e.Kind
}
