/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package changefeed

import (
	"context"

	"github.com/google/uuid"

	"github.com/suparena/docstore/datastore"
	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/feedrange"
	"github.com/suparena/docstore/routing"
	"github.com/suparena/docstore/storagemodels"
)

// rangeInvalidator is implemented by providers that cache resolutions, so a
// stale entry can be dropped before re-resolving a gone range.
type rangeInvalidator interface {
	InvalidateRange(containerID string, r feedrange.Range)
}

// PagerOption configures a Pager.
type PagerOption func(*Pager)

// WithMaxItemCount caps the page size requested from the backend.
func WithMaxItemCount(n int) PagerOption {
	return func(p *Pager) { p.maxItemCount = n }
}

// Pager drives one change-feed cursor against a FeedReader, absorbing
// recoverable topology changes. It owns the State and is, like the State,
// for use by a single consumer.
type Pager struct {
	state        State
	reader       datastore.FeedReader
	provider     routing.Provider
	maxItemCount int
}

// NewPager wraps a cursor state with the collaborators needed to read pages.
func NewPager(state State, reader datastore.FeedReader, provider routing.Provider, opts ...PagerOption) *Pager {
	p := &Pager{state: state, reader: reader, provider: provider}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the underlying cursor, e.g. for checkpointing mid-iteration.
func (p *Pager) State() State {
	return p.state
}

// Continuation serializes the cursor's current position.
func (p *Pager) Continuation() (string, error) {
	return p.state.ToSerialized()
}

// NextPage reads the next page of changes. Feed-range-gone signals are
// handled in place: the cursor refreshes its sub-ranges and the same logical
// page is retried. When a full sweep over every sub-range reports no
// changes, an empty page with NotModified set is returned; callers may poll
// again later with the same pager or checkpoint the continuation.
func (p *Pager) NextPage(ctx context.Context) (*storagemodels.FeedPage, error) {
	sweeps := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		opts := &storagemodels.FeedOptions{
			MaxItemCount: p.maxItemCount,
			ActivityID:   uuid.NewString(),
		}
		if err := p.state.PopulateFeedOptions(ctx, p.provider, opts); err != nil {
			if errors.IsFeedRangeGone(err) {
				if err := p.refreshGoneRange(ctx); err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}

		page, err := p.reader.ReadFeedPage(ctx, p.state.ContainerID(), opts)
		if err != nil {
			if errors.IsFeedRangeGone(err) {
				if err := p.refreshGoneRange(ctx); err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}

		if page.NotModified {
			p.state.ApplyNotModified(page.ContinuationToken)
			sweeps++
			if sweeps >= p.state.RangeCount() {
				return page, nil
			}
			continue
		}

		p.state.ApplyServerResponse(page.ContinuationToken)
		return page, nil
	}
}

func (p *Pager) refreshGoneRange(ctx context.Context) error {
	if inv, ok := p.provider.(rangeInvalidator); ok {
		if active := p.state.ActiveRange(); !active.Equal(feedrange.Range{}) {
			inv.InvalidateRange(p.state.ContainerID(), active)
		}
	}
	return p.state.HandleFeedRangeGone(ctx, p.provider)
}
