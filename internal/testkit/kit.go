package testkit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"csvviz/domain/core"
)

// Fixture CSVs shared by package tests.
const (
	// PeopleCSV has one column of each kind plus an all-missing one.
	PeopleCSV = "age,name,joined,blank\n" +
		"20,ann,2024-01-05,\n" +
		"30,bob,2024-02-11,NA\n" +
		",ann,,\n" +
		"40,cid,2024-03-20,\n"

	// LettersCSV is the categorical round-trip fixture.
	LettersCSV = "letter\na\na\nb\n"
)

// MemoryFileStore is an in-memory ports.FileStore. Ids are the given filenames.
type MemoryFileStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryFileStore creates an empty store.
func NewMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{files: make(map[string][]byte)}
}

// Put stores content under fileID directly.
func (m *MemoryFileStore) Put(fileID, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[fileID] = []byte(content)
}

// Save implements ports.FileStore.
func (m *MemoryFileStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(filename)
	if id == "" {
		return "", fmt.Errorf("empty filename")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[id] = data
	return id, nil
}

// Open implements ports.FileStore.
func (m *MemoryFileStore) Open(ctx context.Context, fileID string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[fileID]
	if !ok {
		return nil, &core.FileNotFoundError{FileID: fileID}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// List implements ports.FileStore.
func (m *MemoryFileStore) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.files))
	for id := range m.files {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete implements ports.FileStore.
func (m *MemoryFileStore) Delete(ctx context.Context, fileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, fileID)
	return nil
}

// MemoryArtifactStore is an in-memory ports.ArtifactStore.
type MemoryArtifactStore struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
	saves     int
}

// NewMemoryArtifactStore creates an empty store.
func NewMemoryArtifactStore() *MemoryArtifactStore {
	return &MemoryArtifactStore{artifacts: make(map[string][]byte)}
}

// Save implements ports.ArtifactStore. Failed writes store nothing.
func (m *MemoryArtifactStore) Save(ctx context.Context, name string, write func(w io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifacts[name] = buf.Bytes()
	m.saves++
	return "mem://" + name, nil
}

// Open implements ports.ArtifactStore.
func (m *MemoryArtifactStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.artifacts[name]
	if !ok {
		return nil, &core.FileNotFoundError{FileID: name}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Names lists stored artifacts in lexical order.
func (m *MemoryArtifactStore) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.artifacts))
	for n := range m.artifacts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Bytes returns a stored artifact's content.
func (m *MemoryArtifactStore) Bytes(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.artifacts[name]
	return data, ok
}

// Saves counts successful saves, overwrites included.
func (m *MemoryArtifactStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}
