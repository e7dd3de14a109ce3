package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// KeyBuilder derives deterministic cache keys under a namespace prefix.
// Keys look like "<prefix>::<part>::<part>", so a prefix built from the leading
// parts can be passed to InvalidatePrefix.
type KeyBuilder struct {
	Prefix string
}

// NewKeyBuilder returns a builder rooted at prefix.
func NewKeyBuilder(prefix string) KeyBuilder {
	return KeyBuilder{Prefix: prefix}
}

// With returns a builder whose prefix is extended by the serialized parts.
func (b KeyBuilder) With(parts ...any) KeyBuilder {
	return KeyBuilder{Prefix: b.Key(parts...)}
}

// Key joins the prefix and serialized parts.
func (b KeyBuilder) Key(parts ...any) string {
	segs := make([]string, 0, len(parts)+1)
	if b.Prefix != "" {
		segs = append(segs, b.Prefix)
	}
	for _, p := range parts {
		segs = append(segs, serializeValue(p))
	}
	return strings.Join(segs, KeySeparator)
}

// PrefixOf returns the key prefix matching every key built from these leading parts.
func (b KeyBuilder) PrefixOf(parts ...any) string {
	return b.Key(parts...) + KeySeparator
}

var timeType = reflect.TypeOf(time.Time{})

func serializeValue(v any) string {
	if v == nil {
		return "nil"
	}

	rv := reflect.ValueOf(v)
	rt := rv.Type()

	switch rt.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return serializeValue(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		return serializeList(rv)
	case reflect.Array:
		return serializeList(rv)
	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		return serializeMap(rv)
	case reflect.Struct:
		if rt == timeType {
			return rv.Interface().(time.Time).UTC().Format(time.RFC3339Nano)
		}
		return serializeStruct(rv, rt)
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return fmt.Sprintf("%v", v)
	}

	return jsonFallback(v)
}

func serializeList(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = serializeValue(rv.Index(i).Interface())
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// serializeMap orders entries by their serialized key so output is stable.
func serializeMap(rv reflect.Value) string {
	pairs := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, serializeValue(iter.Key().Interface())+"="+serializeValue(iter.Value().Interface()))
	}
	sort.Strings(pairs)
	return "{" + strings.Join(pairs, ",") + "}"
}

func serializeStruct(rv reflect.Value, rt reflect.Type) string {
	parts := make([]string, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		parts = append(parts, field.Name+":"+serializeValue(rv.Field(i).Interface()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func jsonFallback(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "fallback:" + reflect.TypeOf(v).String()
	}
	return "json:" + string(data)
}
