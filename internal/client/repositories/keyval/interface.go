// Package keyval provides a small key/value repository backing the client's
// local secure storage.
package keyval

import "context"

// Repository is a string-keyed byte store. Get returns nil (no error) for a
// missing key so callers can distinguish absence from storage faults.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
