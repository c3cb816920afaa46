package cache

import "time"

// BytesCache stores raw payloads with a TTL. It backs the news response
// cache and the materialized market view; callers keep the encoding.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
