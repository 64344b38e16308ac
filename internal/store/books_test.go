package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "atlas-store-test-*")
	require.NoError(t, err)

	s, err := New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}
	return s, cleanup
}

func testDoc(id string) *Document {
	return &Document{
		ID: id,
		Fields: map[string]any{
			"title":           "Test Book " + id,
			"author":          "Test Author",
			"summary":         "A short summary.",
			"year":            "1999",
			"page_count":      float64(320),
			"tags":            []any{"fiction"},
			"setting_country": "France",
		},
	}
}

func TestPutAndGetBook(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.PutBook(ctx, testDoc("b1")))

	got, err := s.GetBookDocument(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", got.ID)
	assert.Equal(t, "Test Book b1", got.Fields["title"])
	assert.Equal(t, "France", got.Fields["setting_country"])
}

func TestPutBookEmptyID(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	err := s.PutBook(context.Background(), &Document{Fields: map[string]any{}})
	assert.Error(t, err)
}

func TestPutBookOverwrites(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.PutBook(ctx, testDoc("b1")))
	require.NoError(t, s.PutBook(ctx, &Document{
		ID:     "b1",
		Fields: map[string]any{"title": "Replaced"},
	}))

	got, err := s.GetBookDocument(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Replaced", got.Fields["title"])
	_, hasAuthor := got.Fields["author"]
	assert.False(t, hasAuthor, "overwrite should replace the whole document")
}

func TestGetBookNotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetBookDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestListBookDocuments(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, s.PutBook(ctx, testDoc(fmt.Sprintf("b%d", i))))
	}

	docs, err := s.ListBookDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 5)

	ids := map[string]bool{}
	for _, doc := range docs {
		ids[doc.ID] = true
		assert.NotEmpty(t, doc.Fields["title"])
	}
	assert.Len(t, ids, 5)
}

func TestListBookDocumentsEmpty(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	docs, err := s.ListBookDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDeleteBook(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.PutBook(ctx, testDoc("b1")))
	require.NoError(t, s.DeleteBook(ctx, "b1"))
	require.NoError(t, s.DeleteBook(ctx, "b1")) // idempotent

	_, err := s.GetBookDocument(ctx, "b1")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestCountBooks(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	count, err := s.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for i := range 3 {
		require.NoError(t, s.PutBook(ctx, testDoc(fmt.Sprintf("b%d", i))))
	}

	count, err = s.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
