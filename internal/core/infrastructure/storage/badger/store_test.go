package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore 创建内存模式的测试存储
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBasicOperations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	key := []byte("metadata:QmTest")
	value := []byte(`{"responseType":"bool"}`)

	require.NoError(t, store.Set(ctx, key, value))

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	require.NoError(t, store.Delete(ctx, key))

	got, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSetWithTTL(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetWithTTL(ctx, []byte("ttl"), []byte("v"), 1*time.Second))

	got, err := store.Get(ctx, []byte("ttl"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	// Badger 的 TTL 精度为秒
	time.Sleep(2100 * time.Millisecond)

	got, err = store.Get(ctx, []byte("ttl"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPersistentDirectory(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := New(dir, nil)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, []byte("k"), []byte("v")))
	require.NoError(t, store.Close())

	reopened, err := New(dir, nil)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestClosedStoreRejectsWrites(t *testing.T) {
	store, err := New("", nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	err = store.Set(context.Background(), []byte("k"), []byte("v"))
	assert.ErrorIs(t, err, errClosing)

	_, err = store.Get(context.Background(), []byte("k"))
	assert.ErrorIs(t, err, errClosing)
}

func TestCanceledContext(t *testing.T) {
	store := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Set(ctx, []byte("k"), []byte("v")), context.Canceled)
	_, err := store.Get(ctx, []byte("k"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunValueLogGCOnPersistentStore(t *testing.T) {
	store, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	defer store.Close()

	// 没有可回收的文件时返回 nil
	assert.NoError(t, store.RunValueLogGC(context.Background(), gcDiscardRatio))

	store.StartMaintenanceRoutines(context.Background())
	assert.NotNil(t, store.cancelFunc)
}
