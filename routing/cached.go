/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package routing

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/suparena/docstore/feedrange"
)

// DefaultCacheSize bounds the number of cached range resolutions.
const DefaultCacheSize = 1024

// CachedProvider wraps a Provider with a read-mostly LRU cache keyed by
// container id and range bounds. An entry is resolved once then published
// whole; readers never observe a half-built entry.
type CachedProvider struct {
	inner Provider
	cache *lru.Cache[string, []PhysicalPartition]
}

// NewCachedProvider creates a CachedProvider with the given cache size.
// A size of zero uses DefaultCacheSize.
func NewCachedProvider(inner Provider, size int) (*CachedProvider, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []PhysicalPartition](size)
	if err != nil {
		return nil, err
	}
	return &CachedProvider{inner: inner, cache: cache}, nil
}

func cacheKey(containerID string, r feedrange.Range) string {
	return fmt.Sprintf("%s|%s|%s", containerID, r.MinInclusive, r.MaxExclusive)
}

// ResolveRanges implements Provider. Each range is cached independently so a
// repeated single-range lookup never re-resolves.
func (p *CachedProvider) ResolveRanges(ctx context.Context, containerID string, ranges []feedrange.Range) ([]PhysicalPartition, error) {
	var out []PhysicalPartition
	seen := make(map[string]struct{})

	appendParts := func(parts []PhysicalPartition) {
		for _, part := range parts {
			if _, dup := seen[part.ID]; !dup {
				seen[part.ID] = struct{}{}
				out = append(out, part)
			}
		}
	}

	for _, r := range ranges {
		key := cacheKey(containerID, r)
		if parts, ok := p.cache.Get(key); ok {
			appendParts(parts)
			continue
		}
		parts, err := p.inner.ResolveRanges(ctx, containerID, []feedrange.Range{r})
		if err != nil {
			return nil, err
		}
		if len(parts) > 0 {
			p.cache.Add(key, parts)
		}
		appendParts(parts)
	}
	return out, nil
}

// InvalidateRange evicts one cached resolution, typically after a feed-range
// gone signal for that range.
func (p *CachedProvider) InvalidateRange(containerID string, r feedrange.Range) {
	p.cache.Remove(cacheKey(containerID, r))
}

// Invalidate drops every cached resolution.
func (p *CachedProvider) Invalidate() {
	p.cache.Purge()
}
