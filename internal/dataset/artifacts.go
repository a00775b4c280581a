package dataset

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"csvviz/domain/core"
	"csvviz/internal/errors"
)

// LocalArtifactStore writes chart images into a directory served as static
// content. Saving an existing name replaces it.
type LocalArtifactStore struct {
	dir       string
	urlPrefix string
}

// NewLocalArtifactStore creates a store rooted at dir whose references are
// built as urlPrefix + "/" + escaped name.
func NewLocalArtifactStore(dir, urlPrefix string) *LocalArtifactStore {
	return &LocalArtifactStore{dir: dir, urlPrefix: urlPrefix}
}

// Dir is the directory the artifacts live in.
func (s *LocalArtifactStore) Dir() string { return s.dir }

// Save renders into a temporary file and renames it into place, so readers
// never observe a half-written image.
func (s *LocalArtifactStore) Save(ctx context.Context, name string, write func(w io.Writer) error) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", errors.StorageError("failed to create artifact directory", err)
	}

	safe := ArtifactFilename(name)
	tmp, err := os.CreateTemp(s.dir, ".render-*")
	if err != nil {
		return "", errors.StorageError("failed to create temporary artifact", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", errors.StorageError("failed to flush artifact", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, safe)); err != nil {
		return "", errors.StorageError("failed to publish artifact", err)
	}
	return s.Reference(safe), nil
}

// Open returns the stored artifact.
func (s *LocalArtifactStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, ArtifactFilename(name)))
	if os.IsNotExist(err) {
		return nil, &core.FileNotFoundError{FileID: name}
	}
	if err != nil {
		return nil, errors.StorageError("failed to open artifact", err)
	}
	return f, nil
}

// Reference builds the public reference of a stored artifact.
func (s *LocalArtifactStore) Reference(name string) string {
	ref := url.PathEscape(ArtifactFilename(name))
	if s.urlPrefix == "" {
		return ref
	}
	return s.urlPrefix + "/" + ref
}
