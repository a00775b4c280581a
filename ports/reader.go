package ports

import (
	"context"
	"io"

	"csvviz/domain/column"
)

// TableReader parses an uploaded file into a header-addressable table.
// Implementations return core.UnsupportedFormatError when the content cannot be
// read as a table.
type TableReader interface {
	ReadTable(ctx context.Context, fileID string, r io.Reader) (*column.Table, error)
}
