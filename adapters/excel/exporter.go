package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	domainStats "csvviz/domain/stats"
	"csvviz/internal"
)

const (
	SummarySheet     = "Summary"
	FrequenciesSheet = "Frequencies"
)

// SummaryExporter writes statistics records to an xlsx workbook.
type SummaryExporter struct {
	logger *internal.Logger
}

// NewSummaryExporter creates a workbook exporter.
func NewSummaryExporter() *SummaryExporter {
	return &SummaryExporter{logger: internal.DefaultLogger.WithComponent("SummaryExporter")}
}

// WithLogger returns a copy of the exporter logging through logger.
func (e *SummaryExporter) WithLogger(logger *internal.Logger) *SummaryExporter {
	return &SummaryExporter{logger: logger.WithComponent("SummaryExporter")}
}

// Export writes one summary row per statistic and, when any record is
// categorical, a second sheet with the frequency tables.
func (e *SummaryExporter) Export(w io.Writer, records ...domainStats.Record) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Error("failed to close workbook: %v", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeHeader(f, SummarySheet, bold, "Column", "Kind", "Statistic", "Value"); err != nil {
		return err
	}
	row := 2
	for _, rec := range records {
		for _, cells := range summaryRows(rec) {
			if err := setRow(f, SummarySheet, row, cells); err != nil {
				return err
			}
			row++
		}
	}

	if hasFrequencies(records) {
		if _, err := f.NewSheet(FrequenciesSheet); err != nil {
			return fmt.Errorf("failed to create frequencies sheet: %w", err)
		}
		if err := writeHeader(f, FrequenciesSheet, bold, "Column", "Value", "Count"); err != nil {
			return err
		}
		row = 2
		for _, rec := range records {
			for _, freq := range rec.Frequencies {
				if err := setRow(f, FrequenciesSheet, row, []interface{}{rec.Column, freq.Value, freq.Count}); err != nil {
					return err
				}
				row++
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// summaryRows keeps numbers numeric so the workbook can be used for formulas.
func summaryRows(rec domainStats.Record) [][]interface{} {
	var rows [][]interface{}
	add := func(name string, value interface{}) {
		rows = append(rows, []interface{}{rec.Column, rec.Kind.String(), name, value})
	}
	if n := rec.Numeric; n != nil {
		add(domainStats.KeyMean, n.Mean)
		add(domainStats.KeyMedian, n.Median)
		add(domainStats.KeyStdDev, n.StdDev)
		add(domainStats.KeyMin, n.Min)
		add(domainStats.KeyMax, n.Max)
		add(domainStats.KeyQ1, n.Q1)
		add(domainStats.KeyQ3, n.Q3)
	}
	add(domainStats.KeyMissingCount, rec.MissingCount)
	add(domainStats.KeyTotalCount, rec.TotalCount)
	add(domainStats.KeyMissingPercentage, rec.MissingPercentage)
	return rows
}

func hasFrequencies(records []domainStats.Record) bool {
	for _, rec := range records {
		if len(rec.Frequencies) > 0 {
			return true
		}
	}
	return false
}

func writeHeader(f *excelize.File, sheet string, style int, names ...string) error {
	cells := make([]interface{}, len(names))
	for i, n := range names {
		cells[i] = n
	}
	if err := setRow(f, sheet, 1, cells); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(names), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(names))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 20)
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
