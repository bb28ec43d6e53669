package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	in := []byte(`[1]`)
	require.NoError(t, m.Set(ctx, "k", in))
	in[0] = 'x'

	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(v))

	v[0] = 'y'
	v2, _ := m.Get(ctx, "k")
	assert.Equal(t, `[1]`, string(v2))
}

func TestMemory_UpdateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewMemory().Update(ctx, "k", func([]byte) ([]byte, error) {
		t.Fatal("mutate must not run")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
