/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package changefeed

import (
	"context"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/feedrange"
	"github.com/suparena/docstore/routing"
	"github.com/suparena/docstore/storagemodels"
)

// StateV2 is the range-based, split/merge-aware cursor. Its composite
// continuation always covers the cursor's feed range exactly; topology
// changes adjust the sub-ranges without ever changing the covered range.
type StateV2 struct {
	containerID  string
	feedRange    feedrange.Range
	startFrom    storagemodels.StartFrom
	continuation *CompositeContinuation
}

// NewV2 starts a fresh V2 cursor over one feed range.
func NewV2(containerID string, fr feedrange.Range, startFrom storagemodels.StartFrom) *StateV2 {
	return &StateV2{
		containerID:  containerID,
		feedRange:    fr,
		startFrom:    startFrom,
		continuation: NewCompositeContinuation(fr),
	}
}

// NewV2FullRange starts a fresh V2 cursor over the entire key space.
func NewV2FullRange(containerID string, startFrom storagemodels.StartFrom) *StateV2 {
	return NewV2(containerID, feedrange.Full(), startFrom)
}

// NewV2FromPartitionKey starts a fresh V2 cursor scoped to one partition key
// value.
func NewV2FromPartitionKey(containerID string, def storagemodels.PartitionKeyDefinition, pk storagemodels.PartitionKey, startFrom storagemodels.StartFrom) (*StateV2, error) {
	fr, err := feedrange.FromPartitionKey(def, pk)
	if err != nil {
		return nil, err
	}
	return NewV2(containerID, fr, startFrom), nil
}

// ContainerID implements State.
func (s *StateV2) ContainerID() string { return s.containerID }

// Version implements State.
func (s *StateV2) Version() string { return VersionV2 }

// FeedRange returns the range the cursor covers.
func (s *StateV2) FeedRange() feedrange.Range { return s.feedRange }

// StartFrom returns the cursor's starting position.
func (s *StateV2) StartFrom() storagemodels.StartFrom { return s.startFrom }

// ActiveRange implements State.
func (s *StateV2) ActiveRange() feedrange.Range {
	return s.continuation.Active().Range
}

// RangeCount implements State.
func (s *StateV2) RangeCount() int {
	return s.continuation.RangeCount()
}

// Tokens returns a copy of the continuation's token queue, active first.
func (s *StateV2) Tokens() []ContinuationToken {
	return s.continuation.Tokens()
}

// PopulateFeedOptions implements State. The active sub-range is resolved
// against current topology: more than one overlapping physical partition
// fails with errors.ErrFeedRangeGone so the range is re-split client-side;
// an exact cover routes by partition id alone; a strict subset adds the
// effective-key bounds so the server filters to the sub-range.
func (s *StateV2) PopulateFeedOptions(ctx context.Context, provider routing.Provider, opts *storagemodels.FeedOptions) error {
	opts.IncrementalFeed = true
	opts.StartFrom = s.startFrom

	active := s.continuation.Active()
	parts, err := provider.ResolveRanges(ctx, s.containerID, []feedrange.Range{active.Range})
	if err != nil {
		return err
	}
	switch {
	case len(parts) == 0:
		return errors.NewEmptyResolutionError(s.containerID, active.Range.String())
	case len(parts) > 1:
		return errors.NewFeedRangeGoneError(s.containerID, active.Range.MinInclusive, active.Range.MaxExclusive)
	}

	part := parts[0]
	if !part.Range.Includes(active.Range) {
		return errors.NewFeedRangeGoneError(s.containerID, active.Range.MinInclusive, active.Range.MaxExclusive)
	}

	opts.PartitionKeyRangeID = part.ID
	if !part.Range.Equal(active.Range) {
		opts.EPKStart = active.Range.MinInclusive
		opts.EPKEnd = active.Range.MaxExclusive
	}
	opts.IfNoneMatch = active.Token
	return nil
}

// ApplyServerResponse implements State.
func (s *StateV2) ApplyServerResponse(token string) {
	s.continuation.ApplyServerResponse(token)
}

// ApplyNotModified implements State.
func (s *StateV2) ApplyNotModified(token string) {
	s.continuation.ApplyServerResponse(token)
	s.continuation.MoveToNext()
}

// HandleFeedRangeGone implements State: the active sub-range's token is
// replaced by one token per child range under current topology (split grows
// the queue, merge collapses it to one), each child keeping the prior
// position. The coverage invariant holds immediately after replacement.
func (s *StateV2) HandleFeedRangeGone(ctx context.Context, provider routing.Provider) error {
	active := s.continuation.Active()
	parts, err := provider.ResolveRanges(ctx, s.containerID, []feedrange.Range{active.Range})
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return errors.NewEmptyResolutionError(s.containerID, active.Range.String())
	}

	children := make([]feedrange.Range, 0, len(parts))
	for _, part := range parts {
		if clipped, ok := part.Range.Intersect(active.Range); ok {
			children = append(children, clipped)
		}
	}
	return s.continuation.ReplaceActive(children)
}

// ToSerialized implements State.
func (s *StateV2) ToSerialized() (string, error) {
	v := VersionV2
	fr := s.feedRange
	return encodeEnvelope(&envelope{
		Version:     &v,
		ContainerID: s.containerID,
		Mode:        ModeIncremental,
		StartFrom:   &s.startFrom,
		FeedRange:   &fr,
		Continuation: &continuationEnvelope{
			Ranges: s.continuation.Tokens(),
		},
	})
}
