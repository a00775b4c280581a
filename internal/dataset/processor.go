package dataset

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"csvviz/domain/core"
	"csvviz/internal"
	"csvviz/internal/errors"
	"csvviz/ports"
)

// Processor validates incoming uploads and hands them to the file store
type Processor struct {
	files  ports.FileStore
	reader ports.TableReader
	cache  *TableCache
	config *StorageConfig
	logger *internal.Logger
}

// NewProcessor creates a new upload processor. cache may be nil.
func NewProcessor(files ports.FileStore, cache *TableCache, config *StorageConfig) *Processor {
	if config == nil {
		config = DefaultStorageConfig()
	}
	return &Processor{
		files:  files,
		cache:  cache,
		config: config,
		logger: internal.DefaultLogger.WithComponent("DatasetProcessor"),
	}
}

// WithReader returns a copy of the processor that parses every stored upload
// and discards it again when it cannot be read as a table.
func (p *Processor) WithReader(reader ports.TableReader) *Processor {
	cp := *p
	cp.reader = reader
	return &cp
}

// WithLogger returns a copy of the processor logging through logger.
func (p *Processor) WithLogger(logger *internal.Logger) *Processor {
	cp := *p
	cp.logger = logger.WithComponent("DatasetProcessor")
	return &cp
}

// Upload describes one file received from a client.
type Upload struct {
	Filename string
	Size     int64 // -1 when unknown
	Content  io.Reader
}

// ProcessUpload validates the upload and stores it, returning the file id.
func (p *Processor) ProcessUpload(ctx context.Context, upload Upload) (string, error) {
	if err := p.ValidateUpload(upload.Filename, upload.Size); err != nil {
		return "", err
	}

	fileID, err := p.files.Save(ctx, upload.Filename, upload.Content)
	if err != nil {
		return "", errors.Wrapf(err, "failed to store %s", upload.Filename)
	}
	p.cache.Invalidate(fileID)

	if p.reader != nil {
		if err := p.checkReadable(ctx, fileID); err != nil {
			return "", err
		}
	}

	p.logger.Info("stored upload %q as %s", upload.Filename, fileID)
	return fileID, nil
}

// checkReadable parses a stored upload and warms the table cache. Uploads
// that fail to parse are deleted so they never show up in listings.
func (p *Processor) checkReadable(ctx context.Context, fileID string) error {
	rc, err := p.files.Open(ctx, fileID)
	if err != nil {
		return errors.Wrapf(err, "failed to reopen %s", fileID)
	}
	table, err := p.reader.ReadTable(ctx, fileID, rc)
	rc.Close()
	if err == nil {
		p.cache.Add(fileID, table)
		return nil
	}

	if delErr := p.files.Delete(ctx, fileID); delErr != nil {
		p.logger.Error("failed to discard unreadable upload %s: %v", fileID, delErr)
	}
	p.logger.Warn("discarded unreadable upload %s: %v", fileID, err)
	return err
}

// ValidateUpload checks the filename and declared size before anything is written.
func (p *Processor) ValidateUpload(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		return errors.InvalidInput("no file selected")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !p.extensionAllowed(ext) {
		return &core.UnsupportedFormatError{
			Filename: filename,
			Reason:   fmt.Sprintf("only %s files are accepted", strings.Join(p.config.AllowedExtensions, ", ")),
		}
	}
	if p.config.MaxFileSize > 0 && size > p.config.MaxFileSize {
		return errors.InvalidInput(fmt.Sprintf("file exceeds the %d MB upload limit", p.config.MaxFileSize>>20))
	}
	return nil
}

func (p *Processor) extensionAllowed(ext string) bool {
	for _, allowed := range p.config.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
