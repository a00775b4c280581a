package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"csvviz/domain/column"
	domainStats "csvviz/domain/stats"
)

func TestExportSummary(t *testing.T) {
	numeric := domainStats.Record{
		Column:            "age",
		Kind:              column.KindNumeric,
		TotalCount:        4,
		MissingCount:      1,
		MissingPercentage: 25,
		Numeric:           &domainStats.NumericSummary{Mean: 30, Median: 30, StdDev: 10, Min: 20, Max: 40, Q1: 25, Q3: 35},
	}
	categorical := domainStats.Record{
		Column:      "letter",
		Kind:        column.KindCategorical,
		TotalCount:  3,
		Frequencies: []domainStats.Frequency{{Value: "a", Count: 2}, {Value: "b", Count: 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewSummaryExporter().Export(&buf, numeric, categorical))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, FrequenciesSheet}, f.GetSheetList())

	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 1+10+3)
	assert.Equal(t, []string{"Column", "Kind", "Statistic", "Value"}, rows[0])
	assert.Equal(t, []string{"age", "numeric", "Mean", "30"}, rows[1])
	assert.Equal(t, []string{"letter", "categorical", "Total Values", "3"}, rows[12])

	freqs, err := f.GetRows(FrequenciesSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Column", "Value", "Count"}, {"letter", "a", "2"}, {"letter", "b", "1"}}, freqs)
}

func TestExportWithoutCategoricalSkipsFrequencies(t *testing.T) {
	rec := domainStats.Record{Column: "when", Kind: column.KindDatetime, TotalCount: 2}

	var buf bytes.Buffer
	require.NoError(t, NewSummaryExporter().Export(&buf, rec))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SummarySheet}, f.GetSheetList())
}
