/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package routing

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/feedrange"
)

// StaticProvider is an in-memory Provider over a fixed topology. It supports
// split and merge mutations so tests and local tooling can exercise topology
// changes without a live backend.
type StaticProvider struct {
	mu       sync.RWMutex
	topology map[string][]PhysicalPartition
}

// NewStaticProvider creates an empty StaticProvider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{topology: make(map[string][]PhysicalPartition)}
}

// SetTopology replaces a container's partition layout. The partitions must
// tile the full key space exactly.
func (p *StaticProvider) SetTopology(containerID string, parts []PhysicalPartition) error {
	ranges := make([]feedrange.Range, len(parts))
	for i, part := range parts {
		ranges[i] = part.Range
	}
	if !feedrange.ExactCover(feedrange.Full(), ranges) {
		return errors.NewValidationError("partitions", "partitions must cover the full key space with no gaps or overlaps")
	}

	sorted := make([]PhysicalPartition, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool {
		return feedrange.Compare(sorted[i].Range, sorted[j].Range) < 0
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	p.topology[containerID] = sorted
	return nil
}

// ResolveRanges implements Provider.
func (p *StaticProvider) ResolveRanges(ctx context.Context, containerID string, ranges []feedrange.Range) ([]PhysicalPartition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	parts := p.topology[containerID]
	p.mu.RUnlock()

	var out []PhysicalPartition
	seen := make(map[string]struct{})
	for _, part := range parts {
		for _, r := range ranges {
			if part.Range.Overlaps(r) {
				if _, dup := seen[part.ID]; !dup {
					seen[part.ID] = struct{}{}
					out = append(out, part)
				}
				break
			}
		}
	}
	return out, nil
}

// Split replaces one partition with two children split at the given bound.
func (p *StaticProvider) Split(containerID, partitionID, at, leftID, rightID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	parts := p.topology[containerID]
	for i, part := range parts {
		if part.ID != partitionID {
			continue
		}
		if !part.Range.Contains(at) || at == part.Range.MinInclusive {
			return errors.NewValidationError("at", fmt.Sprintf("split point %q is not interior to %s", at, part.Range))
		}
		left := PhysicalPartition{ID: leftID, Range: feedrange.Range{MinInclusive: part.Range.MinInclusive, MaxExclusive: at}}
		right := PhysicalPartition{ID: rightID, Range: feedrange.Range{MinInclusive: at, MaxExclusive: part.Range.MaxExclusive}}
		replaced := append(append(append([]PhysicalPartition{}, parts[:i]...), left, right), parts[i+1:]...)
		p.topology[containerID] = replaced
		return nil
	}
	return errors.NewNotFoundError("PhysicalPartition", partitionID)
}

// Merge replaces a run of adjacent partitions with a single one.
func (p *StaticProvider) Merge(containerID string, ids []string, mergedID string) error {
	if len(ids) < 2 {
		return errors.NewValidationError("ids", "merge requires at least two partitions")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	parts := p.topology[containerID]
	first := -1
	for i, part := range parts {
		if part.ID == ids[0] {
			first = i
			break
		}
	}
	if first < 0 || first+len(ids) > len(parts) {
		return errors.NewNotFoundError("PhysicalPartition", ids[0])
	}
	for j, id := range ids {
		if parts[first+j].ID != id {
			return errors.NewValidationError("ids", "merged partitions must be adjacent and in range order")
		}
	}

	merged := PhysicalPartition{
		ID: mergedID,
		Range: feedrange.Range{
			MinInclusive: parts[first].Range.MinInclusive,
			MaxExclusive: parts[first+len(ids)-1].Range.MaxExclusive,
		},
	}
	replaced := append(append(append([]PhysicalPartition{}, parts[:first]...), merged), parts[first+len(ids):]...)
	p.topology[containerID] = replaced
	return nil
}

// topologyFile is the YAML layout consumed by LoadTopologyFile.
type topologyFile struct {
	Containers []struct {
		ID         string              `yaml:"id"`
		Partitions []PhysicalPartition `yaml:"partitions"`
	} `yaml:"containers"`
}

// LoadTopologyFile builds a StaticProvider from a YAML topology description.
func LoadTopologyFile(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topology file: %w", err)
	}
	var tf topologyFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse topology file: %w", err)
	}

	p := NewStaticProvider()
	for _, c := range tf.Containers {
		if err := p.SetTopology(c.ID, c.Partitions); err != nil {
			return nil, fmt.Errorf("container %q: %w", c.ID, err)
		}
	}
	return p, nil
}
