package override

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheCapacity is the default number of cached resolutions.
const DefaultCacheCapacity = 1000

type cacheKey struct {
	column       string
	documentType string
	context      string
}

// ResolutionCache memoizes resolutions per (column, document type), evicting
// the least recently used entry when full. With context keys enabled, or
// while the rule set observes more of the context than the document type,
// the context fingerprint becomes part of the key too.
type ResolutionCache struct {
	entries    *lru.Cache[cacheKey, Result]
	contextKey bool
	observed   bool
}

// NewResolutionCache returns a cache holding up to capacity results.
func NewResolutionCache(capacity int, contextKey bool) *ResolutionCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}

	entries, err := lru.New[cacheKey, Result](capacity)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}

	return &ResolutionCache{entries: entries, contextKey: contextKey}
}

func (c *ResolutionCache) key(column string, ctx *Context) cacheKey {
	k := cacheKey{column: column, documentType: ctx.DocumentType}
	if c.contextKey || c.observed {
		k.context = ctx.fingerprint()
	}

	return k
}

// Get returns a copy of the cached result.
func (c *ResolutionCache) Get(column string, ctx *Context) (Result, bool) {
	r, ok := c.entries.Get(c.key(column, ctx))
	if !ok {
		return Result{}, false
	}

	return r.Clone(), true
}

// Put stores a copy of r.
func (c *ResolutionCache) Put(column string, ctx *Context, r Result) {
	c.entries.Add(c.key(column, ctx), r.Clone())
}

// Purge drops every entry.
func (c *ResolutionCache) Purge() {
	c.entries.Purge()
}

// Reset drops every entry and records whether the current rule set reads
// context beyond the document type.
func (c *ResolutionCache) Reset(observesContext bool) {
	c.entries.Purge()
	c.observed = observesContext
}

// Len returns the number of cached results.
func (c *ResolutionCache) Len() int {
	return c.entries.Len()
}
