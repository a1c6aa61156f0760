package embed

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached memoises another Embedder. Callers always receive their own copy, so cached
// entries can never be changed through a returned embedding.
type Cached struct {
	inner Embedder
	cache *lru.Cache[string, Embedding]
}

func NewCached(inner Embedder, size int) (*Cached, error) {
	cache, err := lru.New[string, Embedding](size)
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, cache: cache}, nil
}

func (c *Cached) Name() string { return c.inner.Name() }

func (c *Cached) Dimension() int { return c.inner.Dimension() }

func (c *Cached) Embed(seq string) (Embedding, error) {
	if e, ok := c.cache.Get(seq); ok {
		return e.Clone(), nil
	}
	e, err := c.inner.Embed(seq)
	if err != nil {
		return nil, err
	}
	c.cache.Add(seq, e.Clone())
	return e, nil
}

// Len reports how many sequences are cached.
func (c *Cached) Len() int { return c.cache.Len() }
