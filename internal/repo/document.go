package repo

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"admin-dashboard/internal/core/kv"
)

// Document stores a single JSON object under a key, seeded with defaults.
type Document[T any] struct {
	store kv.Store
	key   string
	seed  func() T
	log   *zap.Logger
}

func NewDocument[T any](store kv.Store, key string, seed func() T, l *zap.Logger) *Document[T] {
	if l == nil {
		l = zap.NewNop()
	}
	return &Document[T]{store: store, key: key, seed: seed, log: l}
}

// decode starts from the defaults so fields missing in the stored object
// keep their default value.
func (d *Document[T]) decode(b []byte) T {
	v := d.seed()
	if b == nil {
		return v
	}
	if err := json.Unmarshal(b, &v); err != nil {
		d.log.Warn("corrupt document, using defaults", zap.String("key", d.key), zap.Error(err))
		return d.seed()
	}
	return v
}

func (d *Document[T]) Get(ctx context.Context) (T, error) {
	b, err := d.store.Get(ctx, d.key)
	if errors.Is(err, kv.ErrNotFound) {
		return d.seed(), nil
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return d.decode(b), nil
}

func (d *Document[T]) Update(ctx context.Context, fn func(v *T) error) (T, error) {
	var out T
	err := d.store.Update(ctx, d.key, func(cur []byte) ([]byte, error) {
		v := d.decode(cur)
		if err := fn(&v); err != nil {
			return nil, err
		}
		out = v
		return json.Marshal(v)
	})
	return out, err
}

func (d *Document[T]) Reset(ctx context.Context) (T, error) {
	v := d.seed()
	b, err := json.Marshal(v)
	if err != nil {
		return v, err
	}
	return v, d.store.Set(ctx, d.key, b)
}
