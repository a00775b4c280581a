package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound          = errors.New("resource not found")
	ErrFileNotFound      = fmt.Errorf("%w: file", ErrNotFound)
	ErrColumnNotFound    = fmt.Errorf("%w: column", ErrNotFound)
	ErrEmptyColumn       = errors.New("column has no rows")
	ErrIncompatibleChart = errors.New("chart type not valid for column")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrUnclassifiable    = errors.New("column cannot be classified")
	ErrOutOfRange        = errors.New("values exceed the representable range")
)

// FileNotFoundError is returned when a file id does not resolve to a stored upload.
type FileNotFoundError struct {
	FileID string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file %q not found", e.FileID)
}

func (e *FileNotFoundError) Unwrap() error { return ErrFileNotFound }

// ColumnNotFoundError names a column that is absent from the file.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q does not exist", e.Column)
}

func (e *ColumnNotFoundError) Unwrap() error { return ErrColumnNotFound }

// EmptyColumnError is returned when a column has zero rows.
type EmptyColumnError struct {
	Column string
}

func (e *EmptyColumnError) Error() string {
	return fmt.Sprintf("column %q is empty", e.Column)
}

func (e *EmptyColumnError) Unwrap() error { return ErrEmptyColumn }

// IncompatibleChartError carries the chart types that would have been accepted.
type IncompatibleChartError struct {
	Column    string
	Kind      string
	Requested string
	Allowed   []string
}

func (e *IncompatibleChartError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("chart type %q is not valid for %s column %q", e.Requested, e.Kind, e.Column)
	}
	return fmt.Sprintf("chart type %q is not valid for %s column %q (valid: %s)",
		e.Requested, e.Kind, e.Column, strings.Join(e.Allowed, ", "))
}

func (e *IncompatibleChartError) Unwrap() error { return ErrIncompatibleChart }

// UnsupportedFormatError is raised at upload or read time, before any column logic runs.
type UnsupportedFormatError struct {
	Filename string
	Reason   string
	Cause    error
}

func (e *UnsupportedFormatError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Filename, e.Reason)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *UnsupportedFormatError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrUnsupportedFormat, e.Cause}
	}
	return []error{ErrUnsupportedFormat}
}

// UnclassifiableColumnError is returned for columns of kind Unsupported.
type UnclassifiableColumnError struct {
	Column string
}

func (e *UnclassifiableColumnError) Error() string {
	return fmt.Sprintf("column %q has no values that can be charted", e.Column)
}

func (e *UnclassifiableColumnError) Unwrap() error { return ErrUnclassifiable }

// OutOfRangeError is returned when finite cell values produce a statistic or
// an axis span that no longer fits in a float64.
type OutOfRangeError struct {
	Column string
	What   string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("column %q: %s exceeds the representable numeric range", e.Column, e.What)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUserError reports whether err belongs to the request-level taxonomy that is
// reported verbatim to the caller.
func IsUserError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrEmptyColumn) ||
		errors.Is(err, ErrIncompatibleChart) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrUnclassifiable) ||
		errors.Is(err, ErrOutOfRange)
}
