package csvfile

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvviz/domain/core"
	"csvviz/internal"
)

func TestReadTable(t *testing.T) {
	input := "\ufeffname, age ,city\nann,20,Oslo\nbob,,\"Rio, BR\"\ncid,40\n,,\n"

	table, err := NewReader().ReadTable(context.Background(), "people.csv", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "people.csv", table.FileID)
	assert.Equal(t, []string{"name", "age", "city"}, table.ColumnNames())
	require.Len(t, table.Rows, 4)

	age, ok := table.Column("age")
	require.True(t, ok)
	assert.Equal(t, []string{"20", "", "40", ""}, age.Values)

	city, ok := table.Column("city")
	require.True(t, ok)
	assert.Equal(t, "Rio, BR", city.Values[1])
	assert.Equal(t, "", city.Values[2], "short rows read as missing")
	assert.Equal(t, 2, city.MissingCount())
}

func TestReadTableHeaderOnly(t *testing.T) {
	table, err := NewReader().ReadTable(context.Background(), "h.csv", strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestReadTableRejectsEmptyInput(t *testing.T) {
	_, err := NewReader().ReadTable(context.Background(), "empty.csv", strings.NewReader(""))
	var unsupported *core.UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "empty.csv", unsupported.Filename)
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
}

func TestReadTableHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewReader().ReadTable(ctx, "x.csv", strings.NewReader("a\n1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeHeaders(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"unique", []string{"a", "b"}, []string{"a", "b"}},
		{"duplicates", []string{"a", "a", "a"}, []string{"a", "a.1", "a.2"}},
		{"duplicate collides with existing suffix", []string{"a", "a.1", "a"}, []string{"a", "a.1", "a.2"}},
		{"blank", []string{"x", " "}, []string{"x", "Unnamed: 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHeaders(tt.in))
		})
	}
}

func TestReadTableLogsAtDebugLevel(t *testing.T) {
	var quiet, verbose bytes.Buffer

	_, err := NewReader().
		WithLogger(internal.NewLogger(internal.LogLevelError).WithOutput(log.New(&quiet, "", 0))).
		ReadTable(context.Background(), "a.csv", strings.NewReader("x\n1\n"))
	require.NoError(t, err)
	assert.Empty(t, quiet.String())

	_, err = NewReader().
		WithLogger(internal.NewLogger(internal.LogLevelDebug).WithOutput(log.New(&verbose, "", 0))).
		ReadTable(context.Background(), "a.csv", strings.NewReader("x\n1\n"))
	require.NoError(t, err)
	assert.Contains(t, verbose.String(), "[DEBUG] [CSVReader] a.csv read in")
	assert.Contains(t, verbose.String(), "(1 columns, 1 rows)")
}
