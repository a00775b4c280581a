package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"csvviz/domain/column"
	"csvviz/domain/core"
	"csvviz/internal"
)

const utf8BOM = "\ufeff"

// Reader parses comma-separated files into tables. Cells are kept verbatim;
// missing-value rules are applied later by the column package.
type Reader struct {
	Comma  rune
	logger *internal.Logger
}

// NewReader creates a reader for standard comma-separated input.
func NewReader() *Reader {
	return &Reader{Comma: ',', logger: internal.DefaultLogger.WithComponent("CSVReader")}
}

// WithLogger returns a copy of the reader logging through logger.
func (r *Reader) WithLogger(logger *internal.Logger) *Reader {
	cp := *r
	cp.logger = logger.WithComponent("CSVReader")
	return &cp
}

// ReadTable reads the header row and every data row from r.
func (r *Reader) ReadTable(ctx context.Context, fileID string, src io.Reader) (*column.Table, error) {
	start := time.Now()

	cr := csv.NewReader(bufio.NewReader(src))
	cr.Comma = r.Comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &core.UnsupportedFormatError{Filename: fileID, Reason: "file is empty"}
	}
	if err != nil {
		return nil, &core.UnsupportedFormatError{Filename: fileID, Reason: "unreadable header row", Cause: err}
	}

	table := &column.Table{FileID: fileID, Headers: NormalizeHeaders(header)}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &core.UnsupportedFormatError{Filename: fileID, Reason: "malformed row", Cause: err}
		}
		table.Rows = append(table.Rows, record)
	}

	r.logger.Debug("%s read in %.2fms (%d columns, %d rows)",
		fileID, float64(time.Since(start).Nanoseconds())/1e6, len(table.Headers), len(table.Rows))
	return table, nil
}

// NormalizeHeaders makes every header addressable: blank names become
// "Unnamed: <pos>" and repeats get a ".N" suffix.
func NormalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		if _, dup := seen[h]; dup {
			for n := seen[h] + 1; ; n++ {
				candidate := fmt.Sprintf("%s.%d", h, n)
				if _, taken := seen[candidate]; !taken {
					seen[h] = n
					name = candidate
					break
				}
			}
		}
		if _, ok := seen[name]; !ok {
			seen[name] = 0
		}
		headers[i] = name
	}
	return headers
}
