/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/docstore/storagemodels"
)

// DocumentBackend executes partition-scoped reads against the backing store.
// Implementations own transport, signing and retry policy; callers own
// routing and ordering.
type DocumentBackend interface {
	// ReadItem performs a point read of one document on one physical
	// partition. A missing document returns errors.ErrNotFound; callers
	// translate that into an omitted row, not a failure. The float64 return
	// is the request charge.
	ReadItem(ctx context.Context, partitionID, id string, pk storagemodels.PartitionKey) (storagemodels.Document, float64, error)

	// QueryItems executes a predicate query scoped to one physical partition
	// and returns the matching documents with the request charge.
	QueryItems(ctx context.Context, partitionID string, query storagemodels.Query) ([]storagemodels.Document, float64, error)
}

// FeedReader serves change-feed pages. The request parameters arrive fully
// populated by a changefeed.State; a topology mismatch must surface as
// errors.ErrFeedRangeGone so the state machine can refresh its ranges.
type FeedReader interface {
	ReadFeedPage(ctx context.Context, containerID string, opts *storagemodels.FeedOptions) (*storagemodels.FeedPage, error)
}
