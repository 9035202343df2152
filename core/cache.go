package core

import (
	"context"
	"encoding/json"
	"time"
)

const DefaultCacheTTL = 5 * time.Minute

// snapshotEnvelope is the persisted form of a cache entry. ExpiresAt is
// fixed at write time; an entry past it is treated as absent.
type snapshotEnvelope struct {
	Records   []Invoice `json:"records"`
	Timestamp time.Time `json:"timestamp"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// InvoiceCache keeps the last successfully fetched invoice collection in
// the durable store so the dashboard stays usable while the service is
// unreachable. Exactly one entry lives under the configured key; a write
// replaces it wholesale.
type InvoiceCache struct {
	store KeyValueStore
	key   string
	ttl   time.Duration
}

var _ SnapshotCache = (*InvoiceCache)(nil)

// NewInvoiceCache builds a cache over store. Zero values fall back to the
// well-known invoice key and the five-minute reference TTL.
func NewInvoiceCache(store KeyValueStore, key string, ttl time.Duration) *InvoiceCache {
	if key == "" {
		key = KeyInvoiceCache
	}
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &InvoiceCache{store: store, key: key, ttl: ttl}
}

// Read returns the cached records and their fetch time. An absent entry, an
// expired entry, an unreadable payload, and a storage failure all report
// ErrCacheNotFound; expired and unreadable entries are removed on the way out.
func (c *InvoiceCache) Read(ctx context.Context) ([]Invoice, time.Time, error) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, time.Time{}, ErrCacheNotFound
	}

	var env snapshotEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		_ = c.store.Delete(ctx, c.key)
		return nil, time.Time{}, ErrCacheNotFound
	}

	if time.Now().After(env.ExpiresAt) {
		_ = c.store.Delete(ctx, c.key)
		return nil, time.Time{}, ErrCacheNotFound
	}

	return env.Records, env.Timestamp, nil
}

// Write stores records under the cache key, stamping creation and expiry.
func (c *InvoiceCache) Write(ctx context.Context, records []Invoice) error {
	now := time.Now()
	raw, err := json.Marshal(snapshotEnvelope{
		Records:   records,
		Timestamp: now,
		ExpiresAt: now.Add(c.ttl),
	})
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.key, raw)
}

// Drop removes the entry regardless of its age.
func (c *InvoiceCache) Drop(ctx context.Context) error {
	return c.store.Delete(ctx, c.key)
}
