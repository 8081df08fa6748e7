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

// StateV1 is the legacy per-partition cursor. It routes by a fixed
// partition-key-range id and knows nothing about feed ranges, so it cannot
// survive a split or merge; consumers migrate by serializing and resuming,
// which yields a V1 state only as long as the partition exists.
type StateV1 struct {
	containerID           string
	partitionKeyRangeID   string
	continuationPkRangeID string
}

// NewV1 builds a legacy cursor for one partition-key-range id.
func NewV1(containerID, partitionKeyRangeID, continuation string) *StateV1 {
	return &StateV1{
		containerID:           containerID,
		partitionKeyRangeID:   partitionKeyRangeID,
		continuationPkRangeID: continuation,
	}
}

func newV1FromEnvelope(containerID string, env *envelope) *StateV1 {
	s := &StateV1{containerID: containerID}
	if env.PartitionKeyRangeID != nil {
		s.partitionKeyRangeID = *env.PartitionKeyRangeID
	}
	if env.ContinuationPkRangeID != nil {
		s.continuationPkRangeID = *env.ContinuationPkRangeID
	}
	return s
}

// ContainerID implements State.
func (s *StateV1) ContainerID() string { return s.containerID }

// Version implements State.
func (s *StateV1) Version() string { return VersionV1 }

// PartitionKeyRangeID returns the fixed partition the cursor reads.
func (s *StateV1) PartitionKeyRangeID() string { return s.partitionKeyRangeID }

// ActiveRange implements State. Legacy cursors are partition-scoped; there
// is no range to report.
func (s *StateV1) ActiveRange() feedrange.Range { return feedrange.Range{} }

// RangeCount implements State.
func (s *StateV1) RangeCount() int { return 1 }

// PopulateFeedOptions implements State. No topology resolution happens: the
// partition id is baked into the cursor.
func (s *StateV1) PopulateFeedOptions(ctx context.Context, provider routing.Provider, opts *storagemodels.FeedOptions) error {
	opts.IncrementalFeed = true
	opts.StartFrom = storagemodels.StartFromBeginning()
	opts.PartitionKeyRangeID = s.partitionKeyRangeID
	opts.IfNoneMatch = s.continuationPkRangeID
	return nil
}

// ApplyServerResponse implements State.
func (s *StateV1) ApplyServerResponse(token string) {
	s.continuationPkRangeID = token
}

// ApplyNotModified implements State.
func (s *StateV1) ApplyNotModified(token string) {
	s.continuationPkRangeID = token
}

// HandleFeedRangeGone implements State. A legacy cursor cannot be remapped
// onto child partitions; the gone condition is terminal here and callers
// restart with a V2 cursor.
func (s *StateV1) HandleFeedRangeGone(ctx context.Context, provider routing.Provider) error {
	return errors.NewFeedRangeGoneError(s.containerID, "", "")
}

// ToSerialized implements State. Legacy cursors keep the legacy wire form:
// the partition fields directly, with no version tag.
func (s *StateV1) ToSerialized() (string, error) {
	pkrid := s.partitionKeyRangeID
	cont := s.continuationPkRangeID
	return encodeEnvelope(&envelope{
		ContainerID:           s.containerID,
		PartitionKeyRangeID:   &pkrid,
		ContinuationPkRangeID: &cont,
	})
}
