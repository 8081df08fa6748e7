/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package changefeed

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/feedrange"
	"github.com/suparena/docstore/registry"
	"github.com/suparena/docstore/routing"
	"github.com/suparena/docstore/storagemodels"
)

// Versions of the continuation protocol.
const (
	VersionV1 = "V1"
	VersionV2 = "V2"
)

// ModeIncremental is the only supported change-feed mode.
const ModeIncremental = "Incremental"

// State is one logical change-feed cursor. A State is not safe for
// concurrent use: exactly one reader owns a cursor at a time. Parallel
// consumption requires one State per feed range.
type State interface {
	// ContainerID returns the container the cursor reads.
	ContainerID() string

	// Version returns the continuation protocol version, VersionV1 or
	// VersionV2.
	Version() string

	// ActiveRange returns the sub-range the next request targets. V1 states
	// return the zero Range: legacy cursors are partition-scoped, not
	// range-scoped.
	ActiveRange() feedrange.Range

	// RangeCount returns how many sub-ranges the cursor holds.
	RangeCount() int

	// PopulateFeedOptions fills the per-request parameters for the next
	// page: the incremental-feed marker and start-from position always, and
	// the routing fields resolved against current topology for V2. A
	// sub-range spanning more than one physical partition fails with
	// errors.ErrFeedRangeGone.
	PopulateFeedOptions(ctx context.Context, provider routing.Provider, opts *storagemodels.FeedOptions) error

	// ApplyServerResponse advances the active position after a successful
	// page. Idempotent: applying the same token twice leaves the cursor
	// where one application left it.
	ApplyServerResponse(token string)

	// ApplyNotModified records that the active sub-range had no changes
	// beyond the given position and makes the next sub-range active.
	ApplyNotModified(token string)

	// HandleFeedRangeGone re-resolves the active sub-range against current
	// topology and replaces its token with one token per child range,
	// preserving position. The caller then retries the same logical page.
	HandleFeedRangeGone(ctx context.Context, provider routing.Provider) error

	// ToSerialized renders the cursor as an opaque continuation string.
	ToSerialized() (string, error)
}

// envelope is the wire form of a serialized cursor. Legacy V1 cursors carry
// the partition fields directly and no version tag.
type envelope struct {
	Version      *string                   `json:"v,omitempty"`
	ContainerID  string                    `json:"containerId,omitempty"`
	Mode         string                    `json:"mode,omitempty"`
	StartFrom    *storagemodels.StartFrom  `json:"startFrom,omitempty"`
	FeedRange    *feedrange.Range          `json:"feedRange,omitempty"`
	PartitionKey *storagemodels.PartitionKey `json:"partitionKey,omitempty"`
	Continuation *continuationEnvelope     `json:"continuation,omitempty"`

	// Legacy V1 fields
	PartitionKeyRangeID   *string `json:"partitionKeyRangeId,omitempty"`
	ContinuationPkRangeID *string `json:"continuationPkRangeId,omitempty"`
}

type continuationEnvelope struct {
	Ranges []ContinuationToken `json:"ranges"`
}

// FromSerialized is the polymorphic constructor over decoded continuation
// data. Legacy per-partition fields select V1; otherwise the version tag
// selects the decoder, and a missing or unknown tag fails with
// errors.ErrInvalidContinuation. With no continuation present it constructs
// a fresh V2 cursor from an explicit feed range, a partition key value, or
// the full key space.
func FromSerialized(containerID string, data []byte) (State, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.NewInvalidContinuationError("continuation is not valid JSON")
	}
	if env.ContainerID != "" {
		containerID = env.ContainerID
	}
	if containerID == "" {
		return nil, errors.NewInvalidContinuationError("continuation names no container")
	}

	if env.PartitionKeyRangeID != nil || env.ContinuationPkRangeID != nil {
		return newV1FromEnvelope(containerID, &env), nil
	}

	if env.Version == nil {
		return nil, errors.NewInvalidContinuationError("continuation has no version tag")
	}
	if *env.Version != VersionV2 {
		return nil, errors.NewInvalidContinuationError("unsupported continuation version " + *env.Version)
	}
	if env.Mode != "" && env.Mode != ModeIncremental {
		return nil, errors.NewInvalidContinuationError("unsupported change feed mode " + env.Mode)
	}

	startFrom := storagemodels.StartFromBeginning()
	if env.StartFrom != nil {
		startFrom = *env.StartFrom
	}

	fr, err := resolveEnvelopeRange(containerID, &env)
	if err != nil {
		return nil, err
	}

	if env.Continuation == nil {
		return NewV2(containerID, fr, startFrom), nil
	}
	comp, err := newCompositeFromTokens(fr, env.Continuation.Ranges)
	if err != nil {
		return nil, err
	}
	return &StateV2{
		containerID:  containerID,
		feedRange:    fr,
		startFrom:    startFrom,
		continuation: comp,
	}, nil
}

// resolveEnvelopeRange picks the cursor's feed range: an explicit range, a
// partition key value hashed through the container's registered definition,
// or the full key space.
func resolveEnvelopeRange(containerID string, env *envelope) (feedrange.Range, error) {
	if env.FeedRange != nil {
		return *env.FeedRange, nil
	}
	if env.PartitionKey != nil {
		def, ok := registry.GetPartitionKeyDefinition(containerID)
		if !ok {
			return feedrange.Range{}, errors.NewInvalidContinuationError(
				"continuation scopes a partition key but container " + containerID + " has no registered definition")
		}
		fr, err := feedrange.FromPartitionKey(def, *env.PartitionKey)
		if err != nil {
			return feedrange.Range{}, err
		}
		return fr, nil
	}
	return feedrange.Full(), nil
}

// FromContinuation reconstructs a cursor from the opaque string form
// produced by ToSerialized.
func FromContinuation(token string) (State, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, errors.NewInvalidContinuationError("continuation is not valid base64")
	}
	return FromSerialized("", data)
}

func encodeEnvelope(env *envelope) (string, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
