package stats

import (
	"fmt"
	"strconv"

	"csvviz/domain/column"
)

// Display names used by the presenter and the workbook export.
const (
	KeyMean              = "Mean"
	KeyMedian            = "Median"
	KeyStdDev            = "Standard Deviation"
	KeyMin               = "Minimum"
	KeyMax               = "Maximum"
	KeyQ1                = "Q1"
	KeyQ3                = "Q3"
	KeyMissingCount      = "Missing Values"
	KeyTotalCount        = "Total Values"
	KeyMissingPercentage = "Missing Percentage"
)

// NumericSummary holds the aggregates computed over non-missing numeric values.
type NumericSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"` // sample standard deviation (N-1)
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// Frequency is the count of one distinct categorical value.
type Frequency struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Record is the fixed-shape statistics record for one column. Which optional
// block is set depends on Kind: Numeric for numeric columns, Frequencies for
// categorical ones, neither for datetime columns.
type Record struct {
	Column            string      `json:"column"`
	Kind              column.Kind `json:"kind"`
	TotalCount        int         `json:"total_count"`
	MissingCount      int         `json:"missing_count"`
	MissingPercentage float64     `json:"missing_percentage"`

	Numeric     *NumericSummary `json:"numeric,omitempty"`
	Frequencies []Frequency     `json:"frequencies,omitempty"`
}

// PresentCount is the number of non-missing values.
func (r Record) PresentCount() int { return r.TotalCount - r.MissingCount }

// FrequencyOf returns the count for value, or 0.
func (r Record) FrequencyOf(value string) int {
	for _, f := range r.Frequencies {
		if f.Value == value {
			return f.Count
		}
	}
	return 0
}

// Entry is one named statistic, formatted for display.
type Entry struct {
	Name  string
	Value string
}

// Entries lists the record's statistics in display order.
func (r Record) Entries() []Entry {
	var entries []Entry
	if n := r.Numeric; n != nil {
		entries = append(entries,
			Entry{KeyMean, FormatFloat(n.Mean)},
			Entry{KeyMedian, FormatFloat(n.Median)},
			Entry{KeyStdDev, FormatFloat(n.StdDev)},
			Entry{KeyMin, FormatFloat(n.Min)},
			Entry{KeyMax, FormatFloat(n.Max)},
			Entry{KeyQ1, FormatFloat(n.Q1)},
			Entry{KeyQ3, FormatFloat(n.Q3)},
		)
	}
	entries = append(entries,
		Entry{KeyMissingCount, strconv.Itoa(r.MissingCount)},
		Entry{KeyTotalCount, strconv.Itoa(r.TotalCount)},
		Entry{KeyMissingPercentage, FormatPercentage(r.MissingPercentage)},
	)
	return entries
}

// MissingInfo is the one-line missing-value summary shown under every chart.
func (r Record) MissingInfo() string {
	return fmt.Sprintf("Total missing values: %d, Missing percentage: %s",
		r.MissingCount, FormatPercentage(r.MissingPercentage))
}

// FormatPercentage rounds to two decimals for display.
func FormatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64) + "%"
}

// FormatFloat trims trailing zeros after rounding to four decimals.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(roundTo(v, 4), 'f', -1, 64)
}

func roundTo(v float64, places int) float64 {
	s := strconv.FormatFloat(v, 'f', places, 64)
	out, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return v
	}
	return out
}
