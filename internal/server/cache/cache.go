// Package cache provides an in-memory cache of merge results for the HTTP
// server. It uses patrickmn/go-cache for TTL-based expiry.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"io"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/factmerge/pkg/facts"
)

// Cache stores merge results under a digest of the uploaded files.
type Cache struct {
	store *gocache.Cache
}

// New creates a new cache with the given TTL and cleanup interval.
// defaultTTL is the default expiration time for cache entries.
// cleanupInterval is how often expired items are removed from memory.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns the cached result for key.
func (c *Cache) Get(key string) (*facts.MergeResult, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	result, ok := v.(*facts.MergeResult)
	return result, ok
}

// Set stores a result with the default TTL.
func (c *Cache) Set(key string, result *facts.MergeResult) {
	c.store.Set(key, result, gocache.DefaultExpiration)
}

// Delete removes a result from the cache.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes all items from the cache.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of items in the cache.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

// Stats returns cache statistics.
type Stats struct {
	ItemCount int `json:"itemCount"`
}

// GetStats returns current cache statistics.
func (c *Cache) GetStats() Stats {
	return Stats{
		ItemCount: c.store.ItemCount(),
	}
}

// Key builds a cache key from an ordered list of named files. The same
// names and contents in the same order always give the same key.
type Key struct {
	h hash.Hash
}

// NewKey starts an empty key.
func NewKey() *Key {
	return &Key{h: sha256.New()}
}

// Add appends one file to the key.
func (k *Key) Add(name string, content io.Reader) error {
	writeField(k.h, []byte(name))
	counter := &countingWriter{w: k.h}
	if _, err := io.Copy(counter, content); err != nil {
		return err
	}
	// Lengths keep ("ab","c") and ("a","bc") apart.
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(counter.n)) //nolint:gosec // n is never negative
	k.h.Write(n[:])
	return nil
}

// String returns the hex digest.
func (k *Key) String() string {
	return hex.EncodeToString(k.h.Sum(nil))
}

func writeField(w io.Writer, b []byte) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(b)))
	_, _ = w.Write(n[:])
	_, _ = w.Write(b)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
