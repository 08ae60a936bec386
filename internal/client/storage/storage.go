// Package storage bootstraps the client's local database and the secrets
// the credential store encrypts with.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/migrations"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/repositories/keyval"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/cryptox"
)

const deviceIDKey = "device_id"

// secretFileLen holds a 32-byte installation secret followed by a 32-byte
// derivation salt.
const secretFileLen = 2 * cryptox.KeySize

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenDatabase opens (creating if needed) the sqlite database at dsn and
// brings its schema up to date.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EncryptionKey loads the per-installation secret from path, creating it on
// first run, and derives the AES key the credential store uses.
func EncryptionKey(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		raw, err = cryptox.RandBytes(secretFileLen)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, raw, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write installation secret: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read installation secret: %w", err)
	}

	if len(raw) != secretFileLen {
		return nil, fmt.Errorf("installation secret %s has unexpected size %d", path, len(raw))
	}

	return cryptox.DeriveKey(raw[:cryptox.KeySize], raw[cryptox.KeySize:]), nil
}

// DeviceID returns the stable per-installation identifier, generating and
// caching one on first use. It is sent to the backend as X-Device-ID.
func DeviceID(ctx context.Context, repo keyval.Repository) (string, error) {
	v, err := repo.Get(ctx, deviceIDKey)
	if err != nil {
		return "", err
	}
	if v != nil {
		return string(v), nil
	}

	id := uuid.NewString()
	if err := repo.Set(ctx, deviceIDKey, []byte(id)); err != nil {
		return "", err
	}
	return id, nil
}
