// Package kv is the client's persistent key-value storage, the terminal
// counterpart of a browser's localStorage.
package kv

import "context"

// Repository stores opaque values under string keys.
//
// Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
