/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package routing

import (
	"context"

	"github.com/suparena/docstore/feedrange"
)

// PhysicalPartition describes one backend-managed shard: its id and the slice
// of the effective key space it currently owns. Boundaries change via splits
// and merges without logical feed ranges changing.
type PhysicalPartition struct {
	ID    string          `yaml:"id" json:"id"`
	Range feedrange.Range `yaml:"range" json:"range"`
}

// Provider resolves feed ranges to the physical partitions currently hosting
// them.
type Provider interface {
	// ResolveRanges returns every physical partition overlapping any of the
	// given ranges, ordered by range and with duplicates removed. An empty
	// result means no partition currently hosts the ranges; callers decide
	// whether that is an error.
	ResolveRanges(ctx context.Context, containerID string, ranges []feedrange.Range) ([]PhysicalPartition, error)
}

// ResolveEffectiveKey resolves the single partition owning one effective key.
// The second return is false when no partition owns the key.
func ResolveEffectiveKey(ctx context.Context, p Provider, containerID, epk string) (PhysicalPartition, bool, error) {
	parts, err := p.ResolveRanges(ctx, containerID, []feedrange.Range{feedrange.FromEffectivePartitionKey(epk)})
	if err != nil {
		return PhysicalPartition{}, false, err
	}
	for _, part := range parts {
		if part.Range.Contains(epk) {
			return part, true, nil
		}
	}
	return PhysicalPartition{}, false, nil
}
