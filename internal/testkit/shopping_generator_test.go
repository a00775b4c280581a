package testkit

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShoppingDataGenerator_Deterministic(t *testing.T) {
	config := DefaultShoppingConfig()
	config.OrderCount = 25

	first := NewShoppingDataGenerator(config).GenerateRows()
	second := NewShoppingDataGenerator(config).GenerateRows()
	assert.Equal(t, first, second)
	require.Len(t, first, 25)
	for _, row := range first {
		assert.Len(t, row, len(ShoppingHeaders))
		assert.NotEmpty(t, row[0])
	}
}

func TestShoppingDataGenerator_WriteCSV(t *testing.T) {
	config := DefaultShoppingConfig()
	config.OrderCount = 10
	config.MissingRate = 0

	var buf bytes.Buffer
	require.NoError(t, NewShoppingDataGenerator(config).WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 11)
	assert.Equal(t, ShoppingHeaders, records[0])
	for _, row := range records[1:] {
		for _, cell := range row {
			assert.NotEmpty(t, cell)
		}
	}
}
