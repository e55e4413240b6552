// Package cache provides the shared result cache: Redis-backed key-value
// storage with TTLs, batched get/set, prefix invalidation and transparent
// compression of large values.
package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// Default TTLs. Individual entity lookups change rarely and cache longer
// than composite search/trending results.
const (
	DefaultEntityTTL    = 30 * time.Minute
	DefaultCompositeTTL = 5 * time.Minute
)

// defaultCompressMin is the serialized size above which values are
// gzip-compressed before storage.
const defaultCompressMin = 1024

// Value framing: one marker byte ahead of the msgpack payload.
const (
	frameRaw  byte = 0x00
	frameGzip byte = 0x01
)

// Manager is the process-wide cache instance, constructed at startup and
// injected into the service layer. A nil Manager (or one built without a
// Redis client) degrades every operation to a cache miss, so callers never
// fail because the cache is unavailable.
type Manager struct {
	rdb         *redis.Client
	compressMin int
}

// NewManager creates a cache manager over rdb. compressMin <= 0 selects the
// default 1 KiB compression threshold. rdb may be nil.
func NewManager(rdb *redis.Client, compressMin int) *Manager {
	if compressMin <= 0 {
		compressMin = defaultCompressMin
	}
	return &Manager{rdb: rdb, compressMin: compressMin}
}

func (m *Manager) disabled() bool { return m == nil || m.rdb == nil }

// Get loads the value stored under key into out. The bool result reports a
// hit; Redis errors are returned but should be treated as misses.
func (m *Manager) Get(ctx context.Context, key string, out any) (bool, error) {
	if m.disabled() {
		return false, nil
	}
	data, err := m.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := m.decode(data, out); err != nil {
		// Drop corrupted entries and report a miss.
		_ = m.rdb.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

// Set stores value under key for ttl. Entries are overwritten whole, never
// mutated in place.
func (m *Manager) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if m.disabled() {
		return nil
	}
	data, err := m.encode(value)
	if err != nil {
		return err
	}
	return m.rdb.Set(ctx, key, data, ttl).Err()
}

// Delete removes a single key.
func (m *Manager) Delete(ctx context.Context, key string) error {
	if m.disabled() {
		return nil
	}
	return m.rdb.Del(ctx, key).Err()
}

// InvalidateByPrefix removes every key under prefix and returns how many
// were deleted. Invalidation is deliberately coarse: any mutation to an
// entity clears the whole entity namespace rather than tracking precise
// dependencies.
func (m *Manager) InvalidateByPrefix(ctx context.Context, prefix string) (int, error) {
	if m.disabled() {
		return 0, nil
	}
	removed := 0
	var cursor uint64
	for {
		keys, cur, err := m.rdb.Scan(ctx, cursor, prefix+"*", 200).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := m.rdb.Del(ctx, keys...).Result()
			removed += int(n)
			if err != nil {
				return removed, err
			}
		}
		cursor = cur
		if cursor == 0 {
			return removed, nil
		}
	}
}

// MultiGet fetches several keys in one round trip and returns the decoded
// hits. Missing or undecodable entries are simply absent from the result.
func MultiGet[T any](ctx context.Context, m *Manager, keys []string) (map[string]T, error) {
	out := make(map[string]T, len(keys))
	if m.disabled() || len(keys) == 0 {
		return out, nil
	}
	vals, err := m.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return out, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var decoded T
		if err := m.decode([]byte(s), &decoded); err != nil {
			continue
		}
		out[keys[i]] = decoded
	}
	return out, nil
}

// MultiSet stores several values with a shared TTL using one pipelined
// round trip.
func MultiSet[T any](ctx context.Context, m *Manager, values map[string]T, ttl time.Duration) error {
	if m.disabled() || len(values) == 0 {
		return nil
	}
	pipe := m.rdb.Pipeline()
	for key, value := range values {
		data, err := m.encode(value)
		if err != nil {
			return err
		}
		pipe.Set(ctx, key, data, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// encode serializes value with msgpack and compresses it when the payload
// crosses the size threshold. The decision is based on serialized size only.
func (m *Manager) encode(value any) ([]byte, error) {
	payload, err := msgpack.Marshal(value)
	if err != nil {
		return nil, err
	}
	if len(payload) < m.compressMin {
		return append([]byte{frameRaw}, payload...), nil
	}

	var buf bytes.Buffer
	buf.WriteByte(frameGzip)
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *Manager) decode(data []byte, out any) error {
	if len(data) == 0 {
		return io.ErrUnexpectedEOF
	}
	payload := data[1:]
	if data[0] == frameGzip {
		zr, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return err
		}
		defer zr.Close()
		payload, err = io.ReadAll(zr)
		if err != nil {
			return err
		}
	}
	return msgpack.Unmarshal(payload, out)
}
