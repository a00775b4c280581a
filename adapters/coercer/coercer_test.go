package coercer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"csvviz/domain/column"
)

func TestParseNumeric(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" -3.5 ", -3.5, true},
		{"1e3", 1000, true},
		{"+7", 7, true},
		{"$45", 0, false},
		{"1,000", 0, false},
		{"0x10", 0, false},
		{"inf", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := c.ParseNumeric(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-01 12:30:00", time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)},
		{"2024-03-01T12:30:00Z", time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)},
		{"3/1/2024", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"03/01/2024", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"1-Mar-2024", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"Mar 1, 2024", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024/03/01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := c.ParseTimestamp(tt.raw)
			assert.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}

	_, ok := c.ParseTimestamp("yesterday")
	assert.False(t, ok)
	_, ok = c.ParseTimestamp("42")
	assert.False(t, ok)
}

func TestAnalyzeTypeDistribution(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name   string
		values []string
		want   column.Kind
	}{
		{"integers are numeric", []string{"1", "2", "3"}, column.KindNumeric},
		{"missing cells ignored", []string{"1.5", "", "NA", "2"}, column.KindNumeric},
		{"dates", []string{"2024-01-01", "2024-01-02", ""}, column.KindDatetime},
		{"one bad number makes it categorical", []string{"1", "2", "three"}, column.KindCategorical},
		{"mixed dates and text", []string{"2024-01-01", "soon"}, column.KindCategorical},
		{"all missing", []string{"", "NA"}, column.KindUnsupported},
		{"empty", nil, column.KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := c.AnalyzeTypeDistribution(tt.values)
			assert.Equal(t, tt.want, analysis.RecommendedKind)
			assert.Equal(t, len(tt.values), analysis.TotalCount)
			assert.Equal(t, analysis.TotalCount, analysis.MissingCount+analysis.ValidCount)
		})
	}
}

func TestNewTypeCoercerFillsDefaults(t *testing.T) {
	c := NewTypeCoercer(CoercionConfig{NumericThreshold: 1, TimestampThreshold: 1})
	assert.NotEmpty(t, c.Config().TimestampLayouts)
	assert.Equal(t, time.UTC, c.Config().Location)
}
