package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemoryStore_Validation(t *testing.T) {
	_, err := NewMemoryStore(0, time.Minute)
	assert.Error(t, err)

	_, err = NewMemoryStore(10, 0)
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemoryStore(1000, time.Minute)
	require.NoError(t, err)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)
	assert.ErrorIs(t, s.Expire(ctx, "missing", time.Second), ErrMiss)

	require.NoError(t, s.Set(ctx, "a::1", []byte("one"), time.Minute))
	require.NoError(t, s.Set(ctx, "a::2", []byte("two"), time.Minute))
	require.NoError(t, s.Set(ctx, "b::1", []byte("three"), time.Minute))

	got, err := s.Get(ctx, "a::1")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), got)
	assert.NoError(t, s.Expire(ctx, "a::1", time.Second))

	require.NoError(t, s.DeleteByPrefix(ctx, "a::"))
	_, err = s.Get(ctx, "a::1")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = s.Get(ctx, "a::2")
	assert.ErrorIs(t, err, ErrMiss)

	got, err = s.Get(ctx, "b::1")
	require.NoError(t, err)
	assert.Equal(t, []byte("three"), got)

	require.NoError(t, s.Delete(ctx, "b::1"))
	_, err = s.Get(ctx, "b::1")
	assert.ErrorIs(t, err, ErrMiss)
}
