package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"csvviz/domain/core"
	"csvviz/internal/errors"
)

// StorageConfig holds upload storage settings
type StorageConfig struct {
	BasePath          string   // directory uploads are written to
	MaxFileSize       int64    // maximum upload size in bytes
	ChunkSize         int      // copy buffer size
	AllowedExtensions []string // lower-case, with the leading dot
}

// DefaultStorageConfig returns sensible defaults
func DefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		BasePath:          "uploads",
		MaxFileSize:       50 * 1024 * 1024,
		ChunkSize:         1024 * 1024,
		AllowedExtensions: []string{".csv"},
	}
}

// LocalFileStorage stores uploads as flat files under BasePath
type LocalFileStorage struct {
	config *StorageConfig
}

// NewLocalFileStorage creates a new local file storage instance
func NewLocalFileStorage(config *StorageConfig) *LocalFileStorage {
	if config == nil {
		config = DefaultStorageConfig()
	}
	return &LocalFileStorage{config: config}
}

// NewLocalFileStorageWithPath creates a new local file storage with a simple path
func NewLocalFileStorageWithPath(basePath string) *LocalFileStorage {
	config := DefaultStorageConfig()
	config.BasePath = basePath
	return NewLocalFileStorage(config)
}

// Save writes the upload under a unique, sanitized name and returns that name
// as the file id.
func (s *LocalFileStorage) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	safe := SecureFilename(filename)
	if safe == "" {
		return "", errors.InvalidInput(fmt.Sprintf("invalid filename %q", filename))
	}
	if err := os.MkdirAll(s.config.BasePath, 0755); err != nil {
		return "", errors.StorageError("failed to create storage directory", err)
	}

	ext := filepath.Ext(safe)
	base := strings.TrimSuffix(safe, ext)
	fileID := fmt.Sprintf("%s_%s%s", base, uuid.New().String()[:8], strings.ToLower(ext))
	filePath := filepath.Join(s.config.BasePath, fileID)

	destFile, err := os.Create(filePath)
	if err != nil {
		return "", errors.StorageError("failed to create destination file", err)
	}
	defer destFile.Close()

	limit := s.config.MaxFileSize
	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	chunk := s.config.ChunkSize
	if chunk <= 0 {
		chunk = DefaultStorageConfig().ChunkSize
	}
	buf := make([]byte, chunk)
	n, err := io.CopyBuffer(destFile, readerWithContext(ctx, src), buf)
	if err != nil {
		os.Remove(filePath)
		return "", errors.StorageError("failed to copy file contents", err)
	}
	if limit > 0 && n > limit {
		os.Remove(filePath)
		return "", errors.InvalidInput(fmt.Sprintf("file exceeds the %d MB upload limit", limit>>20))
	}
	return fileID, nil
}

// Open returns a reader for a stored upload.
func (s *LocalFileStorage) Open(ctx context.Context, fileID string) (io.ReadCloser, error) {
	filePath, err := s.Path(fileID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, &core.FileNotFoundError{FileID: fileID}
	}
	if err != nil {
		return nil, errors.StorageError("failed to open file", err)
	}
	return file, nil
}

// List returns the ids of stored uploads in lexical order.
func (s *LocalFileStorage) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.config.BasePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.StorageError("failed to list uploads", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !s.allowed(e.Name()) {
			continue
		}
		ids = append(ids, e.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes an upload. Unknown ids are not an error.
func (s *LocalFileStorage) Delete(ctx context.Context, fileID string) error {
	filePath, err := s.Path(fileID)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return errors.StorageError("failed to delete file", err)
	}
	return nil
}

// Path resolves a file id to its location. Ids that would not survive
// sanitizing are treated as unknown.
func (s *LocalFileStorage) Path(fileID string) (string, error) {
	if fileID == "" || SecureFilename(fileID) != fileID {
		return "", &core.FileNotFoundError{FileID: fileID}
	}
	return filepath.Join(s.config.BasePath, fileID), nil
}

func (s *LocalFileStorage) allowed(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range s.config.AllowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
