package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

const (
	memoryShards             = 64
	memoryEvictionPercentage = 10
)

// MemoryStore implements Store on an in-process sturdyc client.
// sturdyc applies one TTL to every entry, so the per-call ttl given to Set and Expire
// is ignored; entries live for the store TTL.
type MemoryStore struct {
	client *sturdyc.Client[[]byte]
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-process store holding up to capacity entries for ttl.
func NewMemoryStore(capacity int, ttl time.Duration) (*MemoryStore, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("memory cache: capacity must be greater than 0")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("memory cache: ttl must be greater than 0")
	}
	shards := memoryShards
	if capacity < shards {
		shards = 1
	}
	return &MemoryStore{
		client: sturdyc.New[[]byte](capacity, shards, ttl, memoryEvictionPercentage),
	}, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.client.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.client.Set(key, value)
	return nil
}

// Expire only reports whether the key exists.
func (s *MemoryStore) Expire(_ context.Context, key string, _ time.Duration) error {
	if _, ok := s.client.Get(key); !ok {
		return ErrMiss
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.client.Delete(k)
	}
	return nil
}

func (s *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) error {
	for _, k := range s.client.ScanKeys() {
		if strings.HasPrefix(k, prefix) {
			s.client.Delete(k)
		}
	}
	return nil
}
