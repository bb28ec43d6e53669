// Package service holds one entity store per entity family. All of them share
// the soft delete lifecycle of base and add their own create/update rules,
// uniqueness checks and statistics.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"admin-dashboard/internal/core/kv"
	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/repo"
)

// Deps is what every service is built from.
type Deps struct {
	Store kv.Store
	Log   *zap.Logger
	Now   func() time.Time
	IDGen func() string
}

func newCollection[T domain.Entity](d Deps, key, noun string, seed func() []T) *repo.Collection[T] {
	return repo.NewCollection(repo.Opts[T]{
		Store: d.Store, Key: key, Noun: noun, Seed: seed,
		Log: d.Log, Now: d.Now, IDGen: d.IDGen,
	})
}

type base[T domain.Entity] struct {
	c      *repo.Collection[T]
	fields func(T) []string
}

// GetAll returns records that are not soft-deleted.
func (b *base[T]) GetAll(ctx context.Context) ([]T, error) { return b.c.Active(ctx) }

func (b *base[T]) GetAllIncludingDeleted(ctx context.Context) ([]T, error) { return b.c.All(ctx) }

func (b *base[T]) GetDeleted(ctx context.Context) ([]T, error) { return b.c.Deleted(ctx) }

func (b *base[T]) GetByID(ctx context.Context, id string) (T, error) { return b.c.Get(ctx, id) }

// Delete flips the soft delete flag.
func (b *base[T]) Delete(ctx context.Context, id string) (T, error) { return b.c.SoftDelete(ctx, id) }

func (b *base[T]) Restore(ctx context.Context, id string) (T, error) { return b.c.Restore(ctx, id) }

func (b *base[T]) PermanentDelete(ctx context.Context, id string) error {
	_, err := b.c.Purge(ctx, id)
	return err
}

func (b *base[T]) Search(ctx context.Context, query string) ([]T, error) {
	return b.c.Search(ctx, query, b.fields)
}

// Reset rewrites the store with its default records.
func (b *base[T]) Reset(ctx context.Context) error { return b.c.Reset(ctx) }
