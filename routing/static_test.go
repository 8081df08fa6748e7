/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package routing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/feedrange"
)

func threeWayTopology(t *testing.T) *StaticProvider {
	t.Helper()
	p := NewStaticProvider()
	err := p.SetTopology("orders", []PhysicalPartition{
		{ID: "p0", Range: feedrange.Range{MinInclusive: feedrange.MinBound, MaxExclusive: "55"}},
		{ID: "p1", Range: feedrange.Range{MinInclusive: "55", MaxExclusive: "AA"}},
		{ID: "p2", Range: feedrange.Range{MinInclusive: "AA", MaxExclusive: feedrange.MaxBound}},
	})
	if err != nil {
		t.Fatalf("SetTopology failed: %v", err)
	}
	return p
}

func TestSetTopology(t *testing.T) {
	t.Run("RejectsGaps", func(t *testing.T) {
		p := NewStaticProvider()
		err := p.SetTopology("orders", []PhysicalPartition{
			{ID: "p0", Range: feedrange.Range{MinInclusive: feedrange.MinBound, MaxExclusive: "55"}},
			{ID: "p1", Range: feedrange.Range{MinInclusive: "60", MaxExclusive: feedrange.MaxBound}},
		})
		if !errors.IsValidationError(err) {
			t.Errorf("Expected validation error for gapped topology, got %v", err)
		}
	})

	t.Run("RejectsOverlap", func(t *testing.T) {
		p := NewStaticProvider()
		err := p.SetTopology("orders", []PhysicalPartition{
			{ID: "p0", Range: feedrange.Range{MinInclusive: feedrange.MinBound, MaxExclusive: "60"}},
			{ID: "p1", Range: feedrange.Range{MinInclusive: "55", MaxExclusive: feedrange.MaxBound}},
		})
		if !errors.IsValidationError(err) {
			t.Errorf("Expected validation error for overlapping topology, got %v", err)
		}
	})
}

func TestResolveRanges(t *testing.T) {
	ctx := context.Background()
	p := threeWayTopology(t)

	t.Run("FullRange", func(t *testing.T) {
		parts, err := p.ResolveRanges(ctx, "orders", []feedrange.Range{feedrange.Full()})
		if err != nil {
			t.Fatalf("ResolveRanges failed: %v", err)
		}
		if len(parts) != 3 {
			t.Fatalf("Expected 3 partitions, got %d", len(parts))
		}
		if parts[0].ID != "p0" || parts[1].ID != "p1" || parts[2].ID != "p2" {
			t.Errorf("Expected range order p0,p1,p2, got %v", parts)
		}
	})

	t.Run("SinglePartition", func(t *testing.T) {
		parts, err := p.ResolveRanges(ctx, "orders", []feedrange.Range{{MinInclusive: "60", MaxExclusive: "70"}})
		if err != nil {
			t.Fatalf("ResolveRanges failed: %v", err)
		}
		if len(parts) != 1 || parts[0].ID != "p1" {
			t.Errorf("Expected only p1, got %v", parts)
		}
	})

	t.Run("CrossingBoundary", func(t *testing.T) {
		parts, err := p.ResolveRanges(ctx, "orders", []feedrange.Range{{MinInclusive: "50", MaxExclusive: "60"}})
		if err != nil {
			t.Fatalf("ResolveRanges failed: %v", err)
		}
		if len(parts) != 2 {
			t.Errorf("Expected 2 partitions for a boundary-crossing range, got %v", parts)
		}
	})

	t.Run("DeduplicatesAcrossRanges", func(t *testing.T) {
		parts, err := p.ResolveRanges(ctx, "orders", []feedrange.Range{
			{MinInclusive: "60", MaxExclusive: "70"},
			{MinInclusive: "70", MaxExclusive: "80"},
		})
		if err != nil {
			t.Fatalf("ResolveRanges failed: %v", err)
		}
		if len(parts) != 1 {
			t.Errorf("Expected the shared partition exactly once, got %v", parts)
		}
	})

	t.Run("UnknownContainer", func(t *testing.T) {
		parts, err := p.ResolveRanges(ctx, "missing", []feedrange.Range{feedrange.Full()})
		if err != nil {
			t.Fatalf("ResolveRanges failed: %v", err)
		}
		if len(parts) != 0 {
			t.Errorf("Expected empty resolution for unknown container, got %v", parts)
		}
	})
}

func TestSplit(t *testing.T) {
	ctx := context.Background()
	p := threeWayTopology(t)

	if err := p.Split("orders", "p1", "80", "p1a", "p1b"); err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	parts, err := p.ResolveRanges(ctx, "orders", []feedrange.Range{feedrange.Full()})
	if err != nil {
		t.Fatalf("ResolveRanges failed: %v", err)
	}
	if len(parts) != 4 {
		t.Fatalf("Expected 4 partitions after split, got %d", len(parts))
	}

	ranges := make([]feedrange.Range, len(parts))
	for i, part := range parts {
		ranges[i] = part.Range
	}
	if !feedrange.ExactCover(feedrange.Full(), ranges) {
		t.Error("split topology must still tile the full key space")
	}

	t.Run("RejectsExteriorSplitPoint", func(t *testing.T) {
		if err := p.Split("orders", "p0", "AA", "x", "y"); !errors.IsValidationError(err) {
			t.Errorf("Expected validation error for exterior split point, got %v", err)
		}
	})

	t.Run("UnknownPartition", func(t *testing.T) {
		if err := p.Split("orders", "nope", "60", "x", "y"); !errors.IsNotFound(err) {
			t.Errorf("Expected not found error, got %v", err)
		}
	})
}

func TestMerge(t *testing.T) {
	ctx := context.Background()
	p := threeWayTopology(t)

	if err := p.Merge("orders", []string{"p0", "p1"}, "p01"); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	parts, err := p.ResolveRanges(ctx, "orders", []feedrange.Range{feedrange.Full()})
	if err != nil {
		t.Fatalf("ResolveRanges failed: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("Expected 2 partitions after merge, got %d", len(parts))
	}
	if parts[0].ID != "p01" {
		t.Errorf("Expected merged partition first, got %v", parts)
	}
	want := feedrange.Range{MinInclusive: feedrange.MinBound, MaxExclusive: "AA"}
	if !parts[0].Range.Equal(want) {
		t.Errorf("Expected merged range %s, got %s", want, parts[0].Range)
	}

	t.Run("RejectsNonAdjacent", func(t *testing.T) {
		q := threeWayTopology(t)
		if err := q.Merge("orders", []string{"p0", "p2"}, "bad"); !errors.IsValidationError(err) {
			t.Errorf("Expected validation error for non-adjacent merge, got %v", err)
		}
	})

	t.Run("RejectsSingle", func(t *testing.T) {
		q := threeWayTopology(t)
		if err := q.Merge("orders", []string{"p0"}, "bad"); !errors.IsValidationError(err) {
			t.Errorf("Expected validation error for single-partition merge, got %v", err)
		}
	})
}

func TestResolveEffectiveKey(t *testing.T) {
	ctx := context.Background()
	p := threeWayTopology(t)

	part, ok, err := ResolveEffectiveKey(ctx, p, "orders", "60AB")
	if err != nil {
		t.Fatalf("ResolveEffectiveKey failed: %v", err)
	}
	if !ok || part.ID != "p1" {
		t.Errorf("Expected key 60AB on p1, got %v (ok=%v)", part, ok)
	}

	_, ok, err = ResolveEffectiveKey(ctx, p, "missing", "60AB")
	if err != nil {
		t.Fatalf("ResolveEffectiveKey failed: %v", err)
	}
	if ok {
		t.Error("Expected no owner in an unknown container")
	}
}

func TestLoadTopologyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "topology.yaml")
	content := `containers:
  - id: orders
    partitions:
      - id: p0
        range: {min: "", max: "80"}
      - id: p1
        range: {min: "80", max: "FF"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write topology file: %v", err)
	}

	p, err := LoadTopologyFile(path)
	if err != nil {
		t.Fatalf("LoadTopologyFile failed: %v", err)
	}
	parts, err := p.ResolveRanges(context.Background(), "orders", []feedrange.Range{feedrange.Full()})
	if err != nil {
		t.Fatalf("ResolveRanges failed: %v", err)
	}
	if len(parts) != 2 || parts[0].ID != "p0" || parts[1].ID != "p1" {
		t.Errorf("Expected p0,p1 from file, got %v", parts)
	}

	t.Run("RejectsInvalidTopology", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		badContent := `containers:
  - id: orders
    partitions:
      - id: p0
        range: {min: "", max: "80"}
`
		if err := os.WriteFile(bad, []byte(badContent), 0o644); err != nil {
			t.Fatalf("failed to write topology file: %v", err)
		}
		if _, err := LoadTopologyFile(bad); err == nil {
			t.Error("Expected error for a topology that does not cover the key space")
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := LoadTopologyFile(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("Expected error for missing file")
		}
	})
}
