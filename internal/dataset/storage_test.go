package dataset

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvviz/domain/core"
	apperrors "csvviz/internal/errors"
)

func TestLocalFileStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewLocalFileStorageWithPath(t.TempDir())

	id, err := store.Save(ctx, "../Sales Data.CSV", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "Sales_Data_"), id)
	assert.Equal(t, ".csv", filepath.Ext(id))

	rc, err := store.Open(ctx, id)
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(content))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Open(ctx, id)
	assert.ErrorIs(t, err, core.ErrFileNotFound)
}

func TestLocalFileStorageRejectsTraversal(t *testing.T) {
	store := NewLocalFileStorageWithPath(t.TempDir())
	for _, id := range []string{"", "../secret.csv", "a/b.csv"} {
		_, err := store.Open(context.Background(), id)
		var notFound *core.FileNotFoundError
		assert.True(t, errors.As(err, &notFound), "id %q", id)
	}
}

func TestLocalFileStorageEnforcesSizeLimit(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalFileStorage(&StorageConfig{BasePath: dir, MaxFileSize: 4, ChunkSize: 2, AllowedExtensions: []string{".csv"}})

	_, err := store.Save(context.Background(), "big.csv", strings.NewReader("0123456789"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids, "oversized upload must not be left behind")
}

func TestLocalFileStorageRejectsEmptyName(t *testing.T) {
	store := NewLocalFileStorageWithPath(t.TempDir())
	_, err := store.Save(context.Background(), "///", strings.NewReader("x"))
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}

func TestListMissingDirectory(t *testing.T) {
	store := NewLocalFileStorageWithPath(filepath.Join(t.TempDir(), "absent"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
