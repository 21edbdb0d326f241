package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/glanzwerk/crm/internal/config"
	"github.com/glanzwerk/crm/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	key, size, err := store.Upload(ctx, "quality-checks/7", "Kitchen.JPG", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), size)
	assert.True(t, strings.HasPrefix(key, "quality-checks/7/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	rc, err := store.Download(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key), "deleting twice is fine")

	_, err = store.Download(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLocalStorage_KeysStayInsideBase(t *testing.T) {
	base := t.TempDir()
	store, err := storage.NewLocalStorage(base, zap.NewNop())
	require.NoError(t, err)

	_, err = store.Download(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestNewStorage(t *testing.T) {
	_, err := storage.NewStorage(context.Background(), &config.StorageConfig{Mode: "local", LocalBasePath: t.TempDir()}, zap.NewNop())
	assert.NoError(t, err)

	_, err = storage.NewStorage(context.Background(), &config.StorageConfig{Mode: "azure"}, zap.NewNop())
	assert.Error(t, err)

	_, err = storage.NewStorage(context.Background(), &config.StorageConfig{Mode: "ftp"}, zap.NewNop())
	assert.Error(t, err)
}
