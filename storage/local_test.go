package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(t.TempDir())
	assert.NoError(t, err)
	return store
}

// --- 测试 本地存储 ---

func TestLocalSaveAndGet(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	content := []byte("picture bytes")
	err := store.SaveWithContext(ctx, "original/2026/01/02/abcdef123456.png", bytes.NewReader(content))
	assert.NoError(t, err)

	reader, err := store.GetWithContext(ctx, "original/2026/01/02/abcdef123456.png")
	assert.NoError(t, err)
	if closer, ok := reader.(io.Closer); ok {
		defer closer.Close()
	}

	got, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLocalExists(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	exists, err := store.Exists(ctx, "original/2026/01/02/nothere.png")
	assert.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, store.SaveWithContext(ctx, "original/2026/01/02/here.png", bytes.NewReader([]byte("x"))))

	exists, err = store.Exists(ctx, "original/2026/01/02/here.png")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalDelete(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	assert.NoError(t, store.SaveWithContext(ctx, "original/2026/01/02/gone.png", bytes.NewReader([]byte("x"))))
	assert.NoError(t, store.DeleteWithContext(ctx, "original/2026/01/02/gone.png"))

	exists, err := store.Exists(ctx, "original/2026/01/02/gone.png")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalRejectsPathTraversal(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	tests := []string{
		"../outside.png",
		"original/../../etc/passwd",
		"/etc/passwd",
	}

	for _, path := range tests {
		err := store.SaveWithContext(ctx, path, bytes.NewReader([]byte("x")))
		assert.Error(t, err, "path %q should be rejected", path)
	}
}

func TestLocalOpenFile(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	content := []byte("sendfile data")
	assert.NoError(t, store.SaveWithContext(ctx, "original/2026/01/02/open.png", bytes.NewReader(content)))

	file, err := store.OpenFile(ctx, "original/2026/01/02/open.png")
	assert.NoError(t, err)
	defer file.Close()

	got, err := io.ReadAll(file)
	assert.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLocalHealth(t *testing.T) {
	store := newTestLocalStorage(t)

	assert.NoError(t, store.Health(context.Background()))
	assert.Equal(t, "local", store.Name())
}
