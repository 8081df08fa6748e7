/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
)

// StartFromKind selects where a fresh change-feed cursor begins reading.
type StartFromKind string

const (
	// StartFromKindBeginning reads the feed from the earliest retained change.
	StartFromKindBeginning StartFromKind = "Beginning"

	// StartFromKindNow reads only changes made after cursor creation.
	StartFromKindNow StartFromKind = "Now"

	// StartFromKindTime reads changes made at or after a point in time.
	StartFromKindTime StartFromKind = "Time"
)

// StartFrom is the starting position of a change-feed cursor. The zero value
// means Beginning.
type StartFrom struct {
	Kind StartFromKind    `json:"kind"`
	Time *strfmt.DateTime `json:"time,omitempty"`
}

// StartFromBeginning positions a cursor at the earliest retained change.
func StartFromBeginning() StartFrom {
	return StartFrom{Kind: StartFromKindBeginning}
}

// StartFromNow positions a cursor at the present.
func StartFromNow() StartFrom {
	return StartFrom{Kind: StartFromKindNow}
}

// StartFromTime positions a cursor at a point in time.
func StartFromTime(t time.Time) StartFrom {
	dt := strfmt.DateTime(t)
	return StartFrom{Kind: StartFromKindTime, Time: &dt}
}

// UnmarshalJSON normalizes an absent or empty kind to Beginning and rejects
// unknown kinds.
func (s *StartFrom) UnmarshalJSON(data []byte) error {
	type alias StartFrom
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Kind == "" {
		a.Kind = StartFromKindBeginning
	}
	switch a.Kind {
	case StartFromKindBeginning, StartFromKindNow, StartFromKindTime:
	default:
		return fmt.Errorf("unknown start-from kind %q", a.Kind)
	}
	*s = StartFrom(a)
	return nil
}

// FeedOptions carries the per-request change-feed parameters a state machine
// populates before each page. It replaces a loosely-typed header map with
// named, typed fields.
type FeedOptions struct {
	// IncrementalFeed marks the request as an incremental change-feed read.
	// The state machine always sets it.
	IncrementalFeed bool

	// StartFrom is the cursor's starting position. Always set.
	StartFrom StartFrom

	// IfNoneMatch is the position marker (etag) of the active sub-range.
	// Empty on the first read of a sub-range.
	IfNoneMatch string

	// PartitionKeyRangeID routes the request to one physical partition. Set
	// when exactly one physical partition covers the active sub-range.
	PartitionKeyRangeID string

	// EPKStart and EPKEnd bound the read to a slice of the routed partition.
	// Set only when the active sub-range is a strict subset of the partition,
	// so the server filters to the sub-range.
	EPKStart string
	EPKEnd   string

	// MaxItemCount caps the page size. Zero means server default.
	MaxItemCount int

	// ActivityID correlates the request in diagnostics.
	ActivityID string
}

// FeedPage is one page of change-feed results.
type FeedPage struct {
	// Documents holds the changed documents, oldest first.
	Documents []Document

	// ContinuationToken is the position marker to resume after this page.
	ContinuationToken string

	// NotModified reports that the active sub-range had no changes beyond the
	// requested position. The token still advances the cursor's bookkeeping.
	NotModified bool

	// RequestCharge is the cost of serving the page.
	RequestCharge float64
}
