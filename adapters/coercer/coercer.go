package coercer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"csvviz/domain/column"
)

// TypeCoercer parses raw CSV cells into numbers and timestamps with fixed rules
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold   float64  `json:"numeric_threshold"`   // share of present values that must parse as numbers
	TimestampThreshold float64  `json:"timestamp_threshold"` // share of present values that must parse as timestamps
	TimestampLayouts   []string `json:"timestamp_layouts"`
	Location           *time.Location
}

// DefaultTimestampLayouts is the permissive date rule. Order matters: the first
// layout that parses wins.
var DefaultTimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01",
}

// DefaultCoercionConfig requires every present value to parse.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:   1.0,
		TimestampThreshold: 1.0,
		TimestampLayouts:   DefaultTimestampLayouts,
		Location:           time.UTC,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	if len(config.TimestampLayouts) == 0 {
		config.TimestampLayouts = DefaultTimestampLayouts
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	return &TypeCoercer{config: config}
}

// Config returns the coercer's configuration.
func (c *TypeCoercer) Config() CoercionConfig { return c.config }

// ParseNumeric parses a finite decimal or scientific-notation number.
// Currency symbols, thousands separators and hex literals are rejected.
func (c *TypeCoercer) ParseNumeric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// ParseTimestamp tries every configured layout in order.
func (c *TypeCoercer) ParseTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range c.config.TimestampLayouts {
		if t, err := time.ParseInLocation(layout, s, c.config.Location); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AnalyzeTypeDistribution counts how many present values parse as each type.
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}

	for _, raw := range values {
		if column.IsMissing(raw) {
			analysis.MissingCount++
			continue
		}
		analysis.ValidCount++
		if _, ok := c.ParseNumeric(raw); ok {
			analysis.NumericCount++
		}
		if _, ok := c.ParseTimestamp(raw); ok {
			analysis.TimestampCount++
		}
	}

	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
		analysis.TimestampRatio = float64(analysis.TimestampCount) / float64(analysis.ValidCount)
	}
	analysis.RecommendedKind = c.determineRecommendedKind(analysis)

	return analysis
}

// determineRecommendedKind checks thresholds in priority order: numeric wins
// over datetime when both apply.
func (c *TypeCoercer) determineRecommendedKind(analysis TypeAnalysis) column.Kind {
	if analysis.ValidCount == 0 {
		return column.KindUnsupported
	}
	if analysis.NumericRatio >= c.config.NumericThreshold {
		return column.KindNumeric
	}
	if analysis.TimestampRatio >= c.config.TimestampThreshold {
		return column.KindDatetime
	}
	return column.KindCategorical
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int         `json:"total_count"`
	MissingCount    int         `json:"missing_count"`
	ValidCount      int         `json:"valid_count"`
	NumericCount    int         `json:"numeric_count"`
	TimestampCount  int         `json:"timestamp_count"`
	NumericRatio    float64     `json:"numeric_ratio"`
	TimestampRatio  float64     `json:"timestamp_ratio"`
	RecommendedKind column.Kind `json:"recommended_kind"`
}
