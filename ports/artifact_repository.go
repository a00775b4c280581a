package ports

import (
	"context"
	"io"
)

// ArtifactStore holds rendered chart images. Saving under an existing name
// replaces the previous artifact.
type ArtifactStore interface {
	// Save streams the artifact through write and returns its public reference.
	Save(ctx context.Context, name string, write func(w io.Writer) error) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
