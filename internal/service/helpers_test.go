package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"admin-dashboard/internal/core/kv"
	"admin-dashboard/pkg/utils"
)

var testNow = time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)

func init() {
	utils.PasswordCost = bcrypt.MinCost
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	var seq atomic.Int64
	return Deps{
		Store: kv.NewMemory(),
		Log:   zaptest.NewLogger(t),
		Now:   func() time.Time { return testNow },
		IDGen: func() string { return fmt.Sprintf("id-%d", seq.Add(1)) },
	}
}

// replayStore behaves like an optimistic backend whose first attempt lost a
// race: every Update runs fn once and discards the result, runs between (once,
// when set) to simulate the competing writer, then runs fn again for real.
type replayStore struct {
	*kv.Memory
	between func()
}

func (s *replayStore) Update(ctx context.Context, key string, fn kv.MutateFunc) error {
	cur, err := s.Memory.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		cur, err = nil, nil
	}
	if err != nil {
		return err
	}
	_, _ = fn(cur)
	if b := s.between; b != nil {
		s.between = nil
		b()
	}
	return s.Memory.Update(ctx, key, fn)
}

// replayDeps returns deps writing through a replayStore and deps writing
// straight to the same memory backend, for the competing writer.
func replayDeps(t *testing.T) (Deps, Deps, *replayStore) {
	t.Helper()
	direct := testDeps(t)
	rs := &replayStore{Memory: direct.Store.(*kv.Memory)}
	replayed := direct
	replayed.Store = rs
	return replayed, direct, rs
}
