// Package cache implements the cache-aside helper used by every service.
//
// A Runner checks a Store for a key, falls back to the supplied fetch function on a
// miss, and writes the JSON-encoded result back with a TTL. Calls without a key go
// straight to the fetch function. Writes never pass through the cache: callers
// invalidate the keys they affected with Invalidate or InvalidatePrefix.
//
// Cache problems never fail a read. They are logged, counted as "error" in
// cache_requests_total, and the primary store answers instead.
//
// Two stores are provided: RedisStore for shared deployments and MemoryStore, a
// sturdyc-backed in-process store for single instance or local runs.
package cache
