package ports

import (
	"context"
	"io"
)

// FileStore defines storage for uploaded source files
type FileStore interface {
	// Save stores the upload and returns the id later requests use to find it.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	// Open returns core.FileNotFoundError for unknown ids.
	Open(ctx context.Context, fileID string) (io.ReadCloser, error)
	List(ctx context.Context) ([]string, error)
	// Delete removes an upload. Unknown ids are not an error.
	Delete(ctx context.Context, fileID string) error
}
