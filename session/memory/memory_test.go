package memory

import (
	"testing"
	"time"

	"github.com/photogur/photogur/session/types"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) *Memory {
	t.Helper()
	store, err := NewMemory(DefaultConfig())
	assert.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// --- 测试 内存会话存储 ---

func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t)

	sess := types.Session{
		UserID:    42,
		Username:  "alice",
		CreatedAt: time.Now(),
	}
	err := store.Save("token-1", sess, time.Hour)
	assert.NoError(t, err)

	got, err := store.Get("token-1")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), got.UserID)
	assert.Equal(t, "alice", got.Username)
}

func TestGetMissingToken(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("no-such-token")
	assert.ErrorIs(t, err, types.ErrSessionNotFound)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	sess := types.Session{UserID: 7, Username: "bob", CreatedAt: time.Now()}
	assert.NoError(t, store.Save("token-2", sess, time.Hour))

	assert.NoError(t, store.Delete("token-2"))

	_, err := store.Get("token-2")
	assert.ErrorIs(t, err, types.ErrSessionNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.Delete("never-existed"))
}

func TestPing(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.Ping())
}
