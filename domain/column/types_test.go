package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMissing(t *testing.T) {
	tests := []struct {
		raw     string
		missing bool
	}{
		{"", true},
		{"   ", true},
		{"NA", true},
		{"NaN", true},
		{" null ", true},
		{"#N/A", true},
		{"0", false},
		{"none", false},
		{"abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.missing, IsMissing(tt.raw))
		})
	}
}

func TestColumnPresentKeepsRowIndexes(t *testing.T) {
	col := New("age", []string{"20", "30", "", " 40 "})

	values, rows := col.Present()
	assert.Equal(t, []string{"20", "30", "40"}, values)
	assert.Equal(t, []int{0, 1, 3}, rows)
	assert.Equal(t, 1, col.MissingCount())
	assert.Equal(t, 4, col.Len())
}

func TestNewCopiesValues(t *testing.T) {
	src := []string{"a", "b"}
	col := New("letters", src)
	src[0] = "z"
	assert.Equal(t, "a", col.Values[0])
}

func TestTableColumn(t *testing.T) {
	table := &Table{
		Headers: []string{"name", "age"},
		Rows: [][]string{
			{"ann", "20"},
			{"bob"},
			{"cat", "40"},
		},
	}

	col, ok := table.Column("age")
	require.True(t, ok)
	assert.Equal(t, []string{"20", "", "40"}, col.Values)

	_, ok = table.Column("height")
	assert.False(t, ok)

	assert.Equal(t, []string{"name", "age"}, table.ColumnNames())
}
