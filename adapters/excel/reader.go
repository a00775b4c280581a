package excel

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"csvviz/adapters/csvfile"
	"csvviz/domain/column"
	"csvviz/domain/core"
	"csvviz/internal"
)

// WorkbookReader reads the first worksheet of an xlsx workbook as a table.
// Cells come back as excelize formats them, so dates and numbers match what a
// spreadsheet user sees.
type WorkbookReader struct {
	// Sheet overrides the worksheet to read. Empty means the first one.
	Sheet string

	logger *internal.Logger
}

// NewWorkbookReader creates a reader for the first worksheet.
func NewWorkbookReader() *WorkbookReader {
	return &WorkbookReader{logger: internal.DefaultLogger.WithComponent("WorkbookReader")}
}

// WithLogger returns a copy of the reader logging through logger.
func (r *WorkbookReader) WithLogger(logger *internal.Logger) *WorkbookReader {
	cp := *r
	cp.logger = logger.WithComponent("WorkbookReader")
	return &cp
}

// ReadTable implements ports.TableReader.
func (r *WorkbookReader) ReadTable(ctx context.Context, fileID string, src io.Reader) (*column.Table, error) {
	start := time.Now()

	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, &core.UnsupportedFormatError{Filename: fileID, Reason: "not a readable xlsx workbook", Cause: err}
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &core.UnsupportedFormatError{Filename: fileID, Reason: "workbook has no sheets"}
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &core.UnsupportedFormatError{Filename: fileID, Reason: fmt.Sprintf("failed to read sheet %q", sheet), Cause: err}
	}
	if len(rows) == 0 {
		return nil, &core.UnsupportedFormatError{Filename: fileID, Reason: "file is empty"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := &column.Table{FileID: fileID, Headers: csvfile.NormalizeHeaders(rows[0]), Rows: rows[1:]}

	r.logger.Debug("%s sheet %q read in %.2fms (%d columns, %d rows)",
		fileID, sheet, float64(time.Since(start).Nanoseconds())/1e6, len(table.Headers), len(table.Rows))
	return table, nil
}
