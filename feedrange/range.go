/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package feedrange

import (
	"fmt"
	"sort"
	"strings"

	"github.com/suparena/docstore/errors"
)

// Bounds of the effective partition key space. MinBound sorts before every
// effective key and MaxBound after every effective key.
const (
	MinBound = ""
	MaxBound = "FF"
)

// Range is an immutable, half-open [MinInclusive, MaxExclusive) interval of
// the effective partition key space. Bounds are uppercase hex strings;
// MinBound and MaxBound are sentinels for the edges of the space.
type Range struct {
	MinInclusive string `json:"min" yaml:"min"`
	MaxExclusive string `json:"max" yaml:"max"`
}

// Full returns the range covering the entire key space.
func Full() Range {
	return Range{MinInclusive: MinBound, MaxExclusive: MaxBound}
}

// New validates bounds and returns the normalized range.
func New(min, max string) (Range, error) {
	min = strings.ToUpper(min)
	max = strings.ToUpper(max)
	for _, b := range [2]string{min, max} {
		if !validBound(b) {
			return Range{}, errors.NewValidationError("range", fmt.Sprintf("bound %q is not a hex string", b))
		}
	}
	if CompareBounds(min, max) >= 0 {
		return Range{}, errors.NewValidationError("range", fmt.Sprintf("min %q must sort before max %q", min, max))
	}
	return Range{MinInclusive: min, MaxExclusive: max}, nil
}

func validBound(b string) bool {
	for _, c := range b {
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

// CompareBounds orders two bounds of the key space. MinBound is below every
// effective key and MaxBound above every effective key; all other bounds
// compare lexicographically, which matches numeric order for left-aligned
// hex keys.
func CompareBounds(a, b string) int {
	if a == b {
		return 0
	}
	switch {
	case a == MinBound:
		return -1
	case b == MinBound:
		return 1
	case a == MaxBound:
		return 1
	case b == MaxBound:
		return -1
	}
	return strings.Compare(a, b)
}

// Equal reports whether two ranges have identical bounds.
func (r Range) Equal(other Range) bool {
	return r.MinInclusive == other.MinInclusive && r.MaxExclusive == other.MaxExclusive
}

// IsFull reports whether the range covers the entire key space.
func (r Range) IsFull() bool {
	return r.Equal(Full())
}

// Contains reports whether an effective key falls inside the range.
func (r Range) Contains(epk string) bool {
	return CompareBounds(r.MinInclusive, epk) <= 0 && CompareBounds(epk, r.MaxExclusive) < 0
}

// Includes reports whether other is fully inside r (r is a superset).
func (r Range) Includes(other Range) bool {
	return CompareBounds(r.MinInclusive, other.MinInclusive) <= 0 &&
		CompareBounds(other.MaxExclusive, r.MaxExclusive) <= 0
}

// Overlaps reports whether the two ranges share any key.
func (r Range) Overlaps(other Range) bool {
	return CompareBounds(r.MinInclusive, other.MaxExclusive) < 0 &&
		CompareBounds(other.MinInclusive, r.MaxExclusive) < 0
}

// Intersect clips other to r. The second return is false when the ranges do
// not overlap.
func (r Range) Intersect(other Range) (Range, bool) {
	min := r.MinInclusive
	if CompareBounds(other.MinInclusive, min) > 0 {
		min = other.MinInclusive
	}
	max := r.MaxExclusive
	if CompareBounds(other.MaxExclusive, max) < 0 {
		max = other.MaxExclusive
	}
	if CompareBounds(min, max) >= 0 {
		return Range{}, false
	}
	return Range{MinInclusive: min, MaxExclusive: max}, true
}

// String renders the range as "[min, max)".
func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.MinInclusive, r.MaxExclusive)
}

// Compare orders ranges by min bound, then max bound.
func Compare(a, b Range) int {
	if c := CompareBounds(a.MinInclusive, b.MinInclusive); c != 0 {
		return c
	}
	return CompareBounds(a.MaxExclusive, b.MaxExclusive)
}

// ExactCover reports whether parts tile whole exactly: sorted by min bound
// they must start at whole's min, chain end-to-start with no gap or overlap,
// and finish at whole's max.
func ExactCover(whole Range, parts []Range) bool {
	if len(parts) == 0 {
		return false
	}
	sorted := make([]Range, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool {
		return Compare(sorted[i], sorted[j]) < 0
	})

	if sorted[0].MinInclusive != whole.MinInclusive {
		return false
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].MinInclusive != sorted[i-1].MaxExclusive {
			return false
		}
	}
	return sorted[len(sorted)-1].MaxExclusive == whole.MaxExclusive
}
