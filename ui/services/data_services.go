package services

import (
	"context"
	"fmt"

	"csvviz/ports"
)

// DataService answers questions about stored uploads for the index page
type DataService struct {
	files ports.FileStore
	limit int
}

// NewDataService creates a service listing at most limit uploads; limit <= 0
// lists everything.
func NewDataService(files ports.FileStore, limit int) *DataService {
	return &DataService{files: files, limit: limit}
}

// RecentUploads returns stored file ids in lexical order.
func (s *DataService) RecentUploads(ctx context.Context) ([]string, error) {
	if s.files == nil {
		return nil, nil
	}
	ids, err := s.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	if s.limit > 0 && len(ids) > s.limit {
		ids = ids[:s.limit]
	}
	return ids, nil
}
