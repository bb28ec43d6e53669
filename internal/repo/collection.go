// Package repo implements entity stores on top of a kv.Store. A collection
// keeps all records of one entity family as a JSON array under a single key
// and rewrites the whole array on every mutation.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"admin-dashboard/internal/core/kv"
	"admin-dashboard/internal/domain"
	"admin-dashboard/pkg/utils"
)

type Opts[T domain.Entity] struct {
	Store kv.Store
	Key   string
	Noun  string // used in error messages, e.g. "invoice"
	Seed  func() []T
	Log   *zap.Logger
	Now   func() time.Time
	IDGen func() string
}

type Collection[T domain.Entity] struct {
	store kv.Store
	key   string
	noun  string
	seed  func() []T
	log   *zap.Logger
	now   func() time.Time
	idGen func() string
}

func NewCollection[T domain.Entity](o Opts[T]) *Collection[T] {
	c := &Collection[T]{
		store: o.Store, key: o.Key, noun: o.Noun, seed: o.Seed,
		log: o.Log, now: o.Now, idGen: o.IDGen,
	}
	if c.noun == "" {
		c.noun = o.Key
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.now == nil {
		c.now = func() time.Time { return time.Now().UTC() }
	}
	if c.idGen == nil {
		c.idGen = utils.NewID
	}
	return c
}

func (c *Collection[T]) Key() string { return c.key }

func (c *Collection[T]) Now() time.Time { return c.now() }

func (c *Collection[T]) NotFound(id string) error {
	return fmt.Errorf("%w: %s %q", domain.ErrNotFound, c.noun, id)
}

// decode never fails: a corrupt document is logged and read as empty.
func (c *Collection[T]) decode(b []byte) []T {
	var all []T
	if err := json.Unmarshal(b, &all); err != nil {
		c.log.Warn("corrupt collection, treating as empty",
			zap.String("key", c.key), zap.Error(err))
		return nil
	}
	out := all[:0]
	for _, r := range all {
		var zero T
		if any(r) != any(zero) {
			out = append(out, r)
		}
	}
	return out
}

func (c *Collection[T]) seeded() []T {
	if c.seed == nil {
		return []T{}
	}
	recs := c.seed()
	for _, r := range recs {
		c.stamp(r.Meta())
	}
	return recs
}

func (c *Collection[T]) stamp(m *domain.Base) {
	now := c.now()
	if strings.TrimSpace(m.ID) == "" {
		m.ID = c.idGen()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = m.CreatedAt
	}
}

// mutate runs fn inside one atomic update of the key. fn returns write=false
// to leave the stored document as is. An absent key is seeded first.
func (c *Collection[T]) mutate(ctx context.Context, fn func(all []T) (next []T, write bool, err error)) error {
	return c.store.Update(ctx, c.key, func(cur []byte) ([]byte, error) {
		var all []T
		fresh := cur == nil
		if fresh {
			all = c.seeded()
		} else {
			all = c.decode(cur)
		}
		next, write, err := fn(all)
		if err != nil {
			return nil, err
		}
		if !write {
			if !fresh {
				return nil, nil
			}
			next = all
		}
		if next == nil {
			next = []T{}
		}
		return json.Marshal(next)
	})
}

// All returns every record, soft-deleted ones included.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	b, err := c.store.Get(ctx, c.key)
	if errors.Is(err, kv.ErrNotFound) {
		var out []T
		err = c.mutate(ctx, func(all []T) ([]T, bool, error) {
			out = all
			return nil, false, nil
		})
		return out, err
	}
	if err != nil {
		return nil, err
	}
	return c.decode(b), nil
}

func (c *Collection[T]) Active(ctx context.Context) ([]T, error) {
	return c.Filter(ctx, func(T) bool { return true })
}

func (c *Collection[T]) Deleted(ctx context.Context) ([]T, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	for _, r := range all {
		if r.Meta().IsDeleted {
			out = append(out, r)
		}
	}
	return out, nil
}

// Filter returns active records accepted by keep.
func (c *Collection[T]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for _, r := range all {
		if !r.Meta().IsDeleted && keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	r, ok, err := c.Find(ctx, func(r T) bool { return r.Meta().ID == id })
	if err != nil {
		return r, err
	}
	if !ok {
		return r, c.NotFound(id)
	}
	return r, nil
}

// Find returns the first record matching, soft-deleted ones included.
func (c *Collection[T]) Find(ctx context.Context, match func(T) bool) (T, bool, error) {
	var zero T
	all, err := c.All(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, r := range all {
		if match(r) {
			return r, true, nil
		}
	}
	return zero, false, nil
}

// Insert appends rec after check accepted the current contents.
func (c *Collection[T]) Insert(ctx context.Context, rec T, check func(all []T) error) (T, error) {
	m := rec.Meta()
	m.CreatedAt, m.UpdatedAt = time.Time{}, time.Time{}
	m.IsDeleted, m.DeletedAt = false, nil
	err := c.mutate(ctx, func(all []T) ([]T, bool, error) {
		if check != nil {
			if err := check(all); err != nil {
				return nil, false, err
			}
		}
		c.stamp(m)
		for _, r := range all {
			if r.Meta().ID == m.ID {
				return nil, false, fmt.Errorf("%w: %s id %q already exists", domain.ErrConflict, c.noun, m.ID)
			}
		}
		return append(all, rec), true, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// Modify locates id, lets fn change the record in place and refreshes updatedAt.
func (c *Collection[T]) Modify(ctx context.Context, id string, fn func(all []T, rec T) error) (T, error) {
	var out T
	err := c.mutate(ctx, func(all []T) ([]T, bool, error) {
		var zero T
		out = zero
		for _, r := range all {
			if r.Meta().ID != id {
				continue
			}
			if err := fn(all, r); err != nil {
				return nil, false, err
			}
			m := r.Meta()
			m.ID = id
			m.UpdatedAt = c.now()
			out = r
			return all, true, nil
		}
		return nil, false, c.NotFound(id)
	})
	return out, err
}

// ModifyEach applies fn to every active record; fn reports whether it changed
// the record. Returns the number of changed records.
func (c *Collection[T]) ModifyEach(ctx context.Context, fn func(rec T) bool) (int, error) {
	n := 0
	err := c.mutate(ctx, func(all []T) ([]T, bool, error) {
		n = 0 // fn may run again on a retried update
		now := c.now()
		for _, r := range all {
			if r.Meta().IsDeleted {
				continue
			}
			if fn(r) {
				r.Meta().UpdatedAt = now
				n++
			}
		}
		return all, n > 0, nil
	})
	return n, err
}

func (c *Collection[T]) SoftDelete(ctx context.Context, id string) (T, error) {
	return c.Modify(ctx, id, func(_ []T, r T) error {
		m := r.Meta()
		if !m.IsDeleted {
			now := c.now()
			m.IsDeleted, m.DeletedAt = true, &now
		}
		return nil
	})
}

func (c *Collection[T]) Restore(ctx context.Context, id string) (T, error) {
	return c.Modify(ctx, id, func(_ []T, r T) error {
		m := r.Meta()
		m.IsDeleted, m.DeletedAt = false, nil
		return nil
	})
}

// Purge removes the record for good and returns what was removed.
func (c *Collection[T]) Purge(ctx context.Context, id string) (T, error) {
	return c.PurgeIf(ctx, id, nil)
}

// PurgeIf is Purge with allow consulted on the stored record inside the same
// atomic update; an allow error leaves the collection untouched.
func (c *Collection[T]) PurgeIf(ctx context.Context, id string, allow func(T) error) (T, error) {
	var removed T
	err := c.mutate(ctx, func(all []T) ([]T, bool, error) {
		var zero T
		removed = zero
		found := false
		kept := make([]T, 0, len(all))
		for _, r := range all {
			if r.Meta().ID == id {
				removed, found = r, true
				continue
			}
			kept = append(kept, r)
		}
		if !found {
			return nil, false, c.NotFound(id)
		}
		if allow != nil {
			if err := allow(removed); err != nil {
				return nil, false, err
			}
		}
		return kept, true, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return removed, nil
}

// Search matches query case-insensitively as a substring of any field value
// over active records. A blank query returns all active records.
func (c *Collection[T]) Search(ctx context.Context, query string, fields func(T) []string) ([]T, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	return c.Filter(ctx, func(r T) bool {
		if q == "" {
			return true
		}
		for _, f := range fields(r) {
			if strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}
		return false
	})
}

// Reset overwrites the key with the default seed.
func (c *Collection[T]) Reset(ctx context.Context) error {
	b, err := json.Marshal(c.seeded())
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.key, b)
}

// Taken reports whether another record (by id) already holds value in field.
// Comparison is case-insensitive and blank values never collide.
func Taken[T domain.Entity](all []T, selfID, value string, field func(T) string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	for _, r := range all {
		if r.Meta().ID != selfID && strings.EqualFold(strings.TrimSpace(field(r)), v) {
			return true
		}
	}
	return false
}
