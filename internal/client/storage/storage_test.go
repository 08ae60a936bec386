package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/repositories/keyval"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/cryptox"

	_ "modernc.org/sqlite"
)

func TestOpenDatabase_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "client.db")

	db, err := OpenDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := keyval.NewSQLiteRepository(db)
	require.NoError(t, repo.Set(ctx, "k", []byte("v")))

	v, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}

func TestEncryptionKey_StableAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")

	k1, err := EncryptionKey(path)
	require.NoError(t, err)
	require.Len(t, k1, cryptox.KeySize)

	k2, err := EncryptionKey(path)
	require.NoError(t, err)
	require.Equal(t, k1, k2)
}

func TestEncryptionKey_DiffersPerInstallation(t *testing.T) {
	dir := t.TempDir()

	k1, err := EncryptionKey(filepath.Join(dir, "a"))
	require.NoError(t, err)
	k2, err := EncryptionKey(filepath.Join(dir, "b"))
	require.NoError(t, err)

	require.NotEqual(t, k1, k2)
}

func TestDeviceID_GeneratedOnceAndCached(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "client.db")

	db, err := OpenDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := keyval.NewSQLiteRepository(db)

	id1, err := DeviceID(ctx, repo)
	require.NoError(t, err)
	_, err = uuid.Parse(id1)
	require.NoError(t, err)

	id2, err := DeviceID(ctx, repo)
	require.NoError(t, err)
	require.Equal(t, id1, id2)
}
