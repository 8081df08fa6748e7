/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package feedrange

import (
	"strings"
	"testing"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

func hashDef() storagemodels.PartitionKeyDefinition {
	return storagemodels.PartitionKeyDefinition{
		Paths:   []string{"/userId"},
		Kind:    storagemodels.PartitionKeyKindHash,
		Version: 2,
	}
}

func multiHashDef() storagemodels.PartitionKeyDefinition {
	return storagemodels.PartitionKeyDefinition{
		Paths:   []string{"/tenantId", "/userId"},
		Kind:    storagemodels.PartitionKeyKindMultiHash,
		Version: 2,
	}
}

func TestEffectivePartitionKey(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		a, err := EffectivePartitionKey(hashDef(), storagemodels.NewPartitionKey("user-1"))
		if err != nil {
			t.Fatalf("EffectivePartitionKey failed: %v", err)
		}
		b, err := EffectivePartitionKey(hashDef(), storagemodels.NewPartitionKey("user-1"))
		if err != nil {
			t.Fatalf("EffectivePartitionKey failed: %v", err)
		}
		if a != b {
			t.Errorf("Expected identical effective keys for equal values, got %q and %q", a, b)
		}
	})

	t.Run("DistinctValues", func(t *testing.T) {
		a, _ := EffectivePartitionKey(hashDef(), storagemodels.NewPartitionKey("user-1"))
		b, _ := EffectivePartitionKey(hashDef(), storagemodels.NewPartitionKey("user-2"))
		if a == b {
			t.Errorf("Expected distinct effective keys for distinct values, got %q twice", a)
		}
	})

	t.Run("V2Format", func(t *testing.T) {
		epk, err := EffectivePartitionKey(hashDef(), storagemodels.NewPartitionKey("user-1"))
		if err != nil {
			t.Fatalf("EffectivePartitionKey failed: %v", err)
		}
		if len(epk) != 32 {
			t.Errorf("Expected 32 hex chars for a v2 key, got %d (%q)", len(epk), epk)
		}
		if epk != strings.ToUpper(epk) {
			t.Errorf("Expected uppercase hex, got %q", epk)
		}
	})

	t.Run("V1Format", func(t *testing.T) {
		def := hashDef()
		def.Version = 1
		epk, err := EffectivePartitionKey(def, storagemodels.NewPartitionKey("user-1"))
		if err != nil {
			t.Fatalf("EffectivePartitionKey failed: %v", err)
		}
		if len(epk) != 8 {
			t.Errorf("Expected 8 hex chars for a v1 key, got %d (%q)", len(epk), epk)
		}
	})

	t.Run("VersionsDiffer", func(t *testing.T) {
		v1Def := hashDef()
		v1Def.Version = 1
		v1, _ := EffectivePartitionKey(v1Def, storagemodels.NewPartitionKey("user-1"))
		v2, _ := EffectivePartitionKey(hashDef(), storagemodels.NewPartitionKey("user-1"))
		if v1 == v2 {
			t.Error("v1 and v2 hashing must not produce the same effective key")
		}
	})

	t.Run("ComponentTypes", func(t *testing.T) {
		values := []any{"alpha", float64(42), true, false, nil}
		seen := map[string]any{}
		for _, v := range values {
			epk, err := EffectivePartitionKey(hashDef(), storagemodels.NewPartitionKey(v))
			if err != nil {
				t.Fatalf("EffectivePartitionKey(%v) failed: %v", v, err)
			}
			if prev, dup := seen[epk]; dup {
				t.Errorf("values %v and %v collided on %q", prev, v, epk)
			}
			seen[epk] = v
		}
	})

	t.Run("MultiHashPrefix", func(t *testing.T) {
		full, err := EffectivePartitionKey(multiHashDef(), storagemodels.NewPartitionKey("tenant-1", "user-1"))
		if err != nil {
			t.Fatalf("EffectivePartitionKey failed: %v", err)
		}
		prefix, err := EffectivePartitionKey(multiHashDef(), storagemodels.NewPartitionKey("tenant-1"))
		if err != nil {
			t.Fatalf("EffectivePartitionKey failed: %v", err)
		}
		if len(full) != 64 {
			t.Errorf("Expected 64 hex chars for two hashed components, got %d", len(full))
		}
		if !strings.HasPrefix(full, prefix) {
			t.Errorf("component prefix should yield an effective key prefix: %q does not start with %q", full, prefix)
		}
	})

	t.Run("TooManyComponents", func(t *testing.T) {
		_, err := EffectivePartitionKey(hashDef(), storagemodels.NewPartitionKey("a", "b"))
		if !errors.IsValidationError(err) {
			t.Errorf("Expected validation error for excess components, got %v", err)
		}
	})

	t.Run("EmptyKey", func(t *testing.T) {
		_, err := EffectivePartitionKey(hashDef(), storagemodels.NewPartitionKey())
		if !errors.IsValidationError(err) {
			t.Errorf("Expected validation error for empty partition key, got %v", err)
		}
	})

	t.Run("UnsupportedComponent", func(t *testing.T) {
		_, err := EffectivePartitionKey(hashDef(), storagemodels.NewPartitionKey([]string{"nope"}))
		if !errors.IsValidationError(err) {
			t.Errorf("Expected validation error for unsupported component type, got %v", err)
		}
	})
}

func TestFromPartitionKey(t *testing.T) {
	r, err := FromPartitionKey(hashDef(), storagemodels.NewPartitionKey("user-1"))
	if err != nil {
		t.Fatalf("FromPartitionKey failed: %v", err)
	}

	epk, _ := EffectivePartitionKey(hashDef(), storagemodels.NewPartitionKey("user-1"))
	if !r.Contains(epk) {
		t.Errorf("degenerate range %s should contain its own effective key %q", r, epk)
	}
	if r.MinInclusive != epk {
		t.Errorf("Expected min bound %q, got %q", epk, r.MinInclusive)
	}
	if r.MaxExclusive != epk+MaxBound {
		t.Errorf("Expected max bound %q, got %q", epk+MaxBound, r.MaxExclusive)
	}

	other, _ := EffectivePartitionKey(hashDef(), storagemodels.NewPartitionKey("user-2"))
	if r.Contains(other) {
		t.Errorf("degenerate range %s must not contain a different key %q", r, other)
	}
}
