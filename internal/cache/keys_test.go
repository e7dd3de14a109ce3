package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func joinWithSeparator(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

func TestKeyBuilder_Key(t *testing.T) {
	b := NewKeyBuilder("cache")
	id := "u-1"
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))

	tests := []struct {
		name  string
		parts []any
		want  string
	}{
		{name: "prefix only", parts: nil, want: "cache"},
		{name: "basic types", parts: []any{"user", 42, true, 1.5}, want: joinWithSeparator("cache", "user", "42", "true", "1.5")},
		{name: "pointer is dereferenced", parts: []any{&id}, want: joinWithSeparator("cache", "u-1")},
		{name: "nil", parts: []any{nil}, want: joinWithSeparator("cache", "nil")},
		{name: "time normalized to UTC", parts: []any{at}, want: joinWithSeparator("cache", "2024-05-01T09:00:00Z")},
		{name: "slice", parts: []any{[]string{"a", "b"}}, want: joinWithSeparator("cache", "[a,b]")},
		{name: "map sorted", parts: []any{map[string]int{"b": 2, "a": 1}}, want: joinWithSeparator("cache", "{a=1,b=2}")},
		{name: "struct exported fields", parts: []any{struct {
			Limit  int
			Offset int
			hidden string
		}{Limit: 10, Offset: 20}}, want: joinWithSeparator("cache", "{Limit:10,Offset:20}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Key(tt.parts...))
		})
	}
}

func TestKeyBuilder_WithAndPrefixOf(t *testing.T) {
	users := NewKeyBuilder("cache").With("schedule")

	key := users.Key("user", "u-1", "list")
	prefix := users.PrefixOf("user", "u-1")

	assert.Equal(t, "cache::schedule::user::u-1::list", key)
	assert.True(t, strings.HasPrefix(key, prefix))
	assert.False(t, strings.HasPrefix(users.Key("user", "u-10", "list"), prefix))
}

func TestKeyBuilder_MapDeterministic(t *testing.T) {
	b := NewKeyBuilder("")
	m := map[string]any{"z": 1, "a": []int{1, 2}, "m": map[int]bool{2: true, 1: false}}

	first := b.Key(m)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, b.Key(m))
	}
}
