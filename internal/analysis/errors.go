package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput marks records that lack a column declared by the header.
	ErrMalformedInput = errors.New("malformed input")
	// ErrTooManyKeys is returned when a grouping names more than MaxKeyColumns columns.
	ErrTooManyKeys = errors.New("too many grouping columns")
	// ErrUnknownColumn is returned when a grouping column is not in the header.
	ErrUnknownColumn = errors.New("unknown column")
)

// MalformedInputError identifies the first record found missing a column.
type MalformedInputError struct {
	Row    int // 0-based index into the analyzed records
	Column string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: record %d is missing column %q", e.Row, e.Column)
}

// Is makes errors.Is(err, ErrMalformedInput) hold.
func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }
