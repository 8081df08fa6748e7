/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"context"
	"sync"

	"github.com/suparena/docstore/storagemodels"
)

type feedResult struct {
	page *storagemodels.FeedPage
	err  error
}

// FeedReader is a scripted mock of datastore.FeedReader. Tests enqueue pages
// or errors per partition-key-range id; every request's options are recorded
// for header assertions.
type FeedReader struct {
	mu       sync.Mutex
	results  map[string][]feedResult
	requests []storagemodels.FeedOptions
}

// NewFeedReader creates an empty scripted FeedReader.
func NewFeedReader() *FeedReader {
	return &FeedReader{results: make(map[string][]feedResult)}
}

// EnqueuePage scripts the next page served for a partition-key-range id.
func (f *FeedReader) EnqueuePage(rangeID string, page *storagemodels.FeedPage) *FeedReader {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[rangeID] = append(f.results[rangeID], feedResult{page: page})
	return f
}

// EnqueueError scripts the next error served for a partition-key-range id.
func (f *FeedReader) EnqueueError(rangeID string, err error) *FeedReader {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[rangeID] = append(f.results[rangeID], feedResult{err: err})
	return f
}

// Requests returns a copy of every recorded request's options, in order.
func (f *FeedReader) Requests() []storagemodels.FeedOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]storagemodels.FeedOptions, len(f.requests))
	copy(out, f.requests)
	return out
}

// ReadFeedPage implements datastore.FeedReader. When nothing is scripted for
// the routed range, it serves a not-modified page at the same position.
func (f *FeedReader) ReadFeedPage(ctx context.Context, containerID string, opts *storagemodels.FeedOptions) (*storagemodels.FeedPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, *opts)

	queue := f.results[opts.PartitionKeyRangeID]
	if len(queue) == 0 {
		return &storagemodels.FeedPage{ContinuationToken: opts.IfNoneMatch, NotModified: true}, nil
	}
	next := queue[0]
	f.results[opts.PartitionKeyRangeID] = queue[1:]
	if next.err != nil {
		return nil, next.err
	}
	return next.page, nil
}
