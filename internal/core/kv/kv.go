// Package kv holds the key-value backends entity stores persist into. Every
// entity family owns exactly one key whose value is a JSON document.
package kv

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("kv: key not found")
	// ErrContention is returned when an optimistic update keeps losing races.
	ErrContention = errors.New("kv: too much contention")
)

// MutateFunc receives the current value (nil when the key is absent) and
// returns the value to store. Returning a nil slice leaves the key untouched.
type MutateFunc func(cur []byte) ([]byte, error)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
	Delete(ctx context.Context, key string) error
	// Update runs fn as one atomic read-modify-write of key.
	Update(ctx context.Context, key string, fn MutateFunc) error
	Close() error
}

const maxRetries = 16
