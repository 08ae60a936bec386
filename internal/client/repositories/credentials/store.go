// Package credentials is the secure persistence boundary for the session
// token and the cached user profile.
//
// Values are encrypted with AES-GCM before they reach the underlying
// key/value repository, so the backing table never holds plaintext
// credentials. The profile is written before the token: presence of the
// token is the authentication gate used by session reconciliation, so a
// reader racing a partial write can never observe a token without its
// profile.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/models"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/repositories/keyval"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/cryptox"
)

// Storage keys, carried over from the original client.
const (
	tokenKey = "auth_token"
	userKey  = "auth_user"
)

// profileSchemaVersion guards against profile-shape changes across releases.
// Records with an unknown version are treated as absent, forcing a re-login.
const profileSchemaVersion = 1

// ErrStoreUnavailable marks storage-layer faults. It is distinct from any
// authentication failure: callers must not fold it into "unauthenticated"
// silently.
var ErrStoreUnavailable = errors.New("credential store unavailable")

// Credentials is the (token, user) pair handed to and from the store.
type Credentials struct {
	Token string
	User  models.User
}

// Store persists and retrieves the session credentials.
//
// Load returns (nil, nil) when no complete credential pair is present;
// partial presence counts as absent. Clear is idempotent.
type Store interface {
	Save(ctx context.Context, token string, user models.User) error
	Load(ctx context.Context) (*Credentials, error)
	Clear(ctx context.Context) error
}

// userRecord is the JSON envelope stored under userKey.
type userRecord struct {
	SchemaVersion int         `json:"schema_version"`
	User          models.User `json:"user"`
}

type store struct {
	repo keyval.Repository
	key  []byte
}

// NewStore builds a Store over the given repository. key must be a 32-byte
// AES key (see cryptox.DeriveKey).
func NewStore(repo keyval.Repository, key []byte) Store {
	return &store{repo: repo, key: key}
}

func (s *store) Save(ctx context.Context, token string, user models.User) error {
	rec, err := json.Marshal(userRecord{SchemaVersion: profileSchemaVersion, User: user})
	if err != nil {
		return fmt.Errorf("%w: encode profile: %w", ErrStoreUnavailable, err)
	}

	// Profile first, token last.
	if err := s.setSealed(ctx, userKey, rec); err != nil {
		return err
	}
	if err := s.setSealed(ctx, tokenKey, []byte(token)); err != nil {
		return err
	}
	return nil
}

func (s *store) Load(ctx context.Context) (*Credentials, error) {
	token, err := s.getSealed(ctx, tokenKey)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, nil
	}

	raw, err := s.getSealed(ctx, userKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		// Token without profile: treat as absent, safer to force re-login.
		return nil, nil
	}

	var rec userRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %w", ErrStoreUnavailable, err)
	}
	if rec.SchemaVersion != profileSchemaVersion {
		return nil, nil
	}

	return &Credentials{Token: string(token), User: rec.User}, nil
}

func (s *store) Clear(ctx context.Context) error {
	// Token first so a reader during a partial clear is already signed out.
	if err := s.repo.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if err := s.repo.Delete(ctx, userKey); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *store) setSealed(ctx context.Context, key string, plaintext []byte) error {
	sealed, err := cryptox.Seal(plaintext, s.key)
	if err != nil {
		return fmt.Errorf("%w: seal %s: %w", ErrStoreUnavailable, key, err)
	}
	if err := s.repo.Set(ctx, key, sealed); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *store) getSealed(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if sealed == nil {
		return nil, nil
	}
	plain, err := cryptox.Open(sealed, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStoreUnavailable, key, err)
	}
	return plain, nil
}
