package core

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomyUnwrapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		notFound bool
	}{
		{"file", &FileNotFoundError{FileID: "a.csv"}, ErrFileNotFound, true},
		{"column", &ColumnNotFoundError{Column: "age"}, ErrColumnNotFound, true},
		{"empty", &EmptyColumnError{Column: "age"}, ErrEmptyColumn, false},
		{"incompatible", &IncompatibleChartError{Column: "age", Kind: "numeric", Requested: "pie"}, ErrIncompatibleChart, false},
		{"format", &UnsupportedFormatError{Filename: "a.txt", Reason: "only CSV files are accepted"}, ErrUnsupportedFormat, false},
		{"unclassifiable", &UnclassifiableColumnError{Column: "blank"}, ErrUnclassifiable, false},
		{"out of range", &OutOfRangeError{Column: "big", What: "standard deviation"}, ErrOutOfRange, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("visualize: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.notFound, IsNotFoundError(wrapped))
			assert.True(t, IsUserError(wrapped))
		})
	}
}

func TestIncompatibleChartErrorListsAlternatives(t *testing.T) {
	err := &IncompatibleChartError{Column: "age", Kind: "numeric", Requested: "pie", Allowed: []string{"histogram", "boxplot", "scatter"}}
	assert.Equal(t, `chart type "pie" is not valid for numeric column "age" (valid: histogram, boxplot, scatter)`, err.Error())

	var target *IncompatibleChartError
	assert.True(t, errors.As(fmt.Errorf("wrap: %w", err), &target))
	assert.Equal(t, []string{"histogram", "boxplot", "scatter"}, target.Allowed)
}

func TestUnsupportedFormatErrorKeepsCause(t *testing.T) {
	err := &UnsupportedFormatError{Filename: "data.csv", Reason: "file is not readable", Cause: io.ErrUnexpectedEOF}
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "unexpected EOF")
}

func TestIsUserErrorRejectsInfrastructureErrors(t *testing.T) {
	assert.False(t, IsUserError(io.ErrClosedPipe))
	assert.False(t, IsUserError(nil))
}
