package docstore

import (
	"context"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of documents NewCached keeps when size <= 0.
const DefaultCacheSize = 1024

// Cached wraps a Store with an LRU cache of document bodies. IDs is never
// cached so newly added documents are always listed.
//
// It pays off in long-lived processes that reload catalogs from the same
// store, such as a service re-synthesizing on every request. A single pass
// over a store reads each document once and gains nothing from it.
type Cached struct {
	store Store
	docs  *lru.Cache[string, []byte]
}

var _ Store = (*Cached)(nil)

// NewCached returns a read-through cache over store holding up to size documents.
func NewCached(store Store, size int) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	docs, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &Cached{store: store, docs: docs}, nil
}

// IDs delegates to the underlying store.
func (c *Cached) IDs(ctx context.Context, db string) ([]string, error) {
	return c.store.IDs(ctx, db)
}

// Get returns a cached copy of the document, fetching it on a miss.
// Misses that fail are not cached.
func (c *Cached) Get(ctx context.Context, db, id string) ([]byte, error) {
	key := db + "/" + id
	if body, ok := c.docs.Get(key); ok {
		return slices.Clone(body), nil
	}
	body, err := c.store.Get(ctx, db, id)
	if err != nil {
		return nil, err
	}
	c.docs.Add(key, slices.Clone(body))
	return body, nil
}

// Purge drops every cached document.
func (c *Cached) Purge() {
	c.docs.Purge()
}

// Len returns the number of cached documents.
func (c *Cached) Len() int {
	return c.docs.Len()
}
