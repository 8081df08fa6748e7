/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"fmt"

	"github.com/suparena/docstore/changefeed"
	"github.com/suparena/docstore/datastore"
	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/feedrange"
	"github.com/suparena/docstore/readmany"
	"github.com/suparena/docstore/registry"
	"github.com/suparena/docstore/routing"
	"github.com/suparena/docstore/storagemodels"
)

// Container is the client handle for one partitioned container. It wires a
// document backend, a feed reader and a routing provider behind the two core
// operations: batched reads and change-feed consumption.
type Container struct {
	ID         string
	Definition storagemodels.PartitionKeyDefinition

	backend  datastore.DocumentBackend
	feed     datastore.FeedReader
	provider routing.Provider
	readMany *readmany.Helper
}

// NewContainer validates the definition, registers it for continuation
// decoding, and builds the container's fan-out engine.
func NewContainer(id string, def storagemodels.PartitionKeyDefinition, backend datastore.DocumentBackend, feed datastore.FeedReader, provider routing.Provider) (*Container, error) {
	if id == "" {
		return nil, errors.NewValidationError("id", "container id is required")
	}
	helper, err := readmany.NewHelper(id, def, backend, provider)
	if err != nil {
		return nil, err
	}
	registry.RegisterPartitionKeyDefinition(id, def)
	return &Container{
		ID:         id,
		Definition: def,
		backend:    backend,
		feed:       feed,
		provider:   provider,
		readMany:   helper,
	}, nil
}

// ReadMany resolves a batch of (id, partition key) rows into documents,
// preserving input order and omitting missing documents.
func (c *Container) ReadMany(ctx context.Context, items []storagemodels.ReadManyItem, opts ...readmany.Option) (*storagemodels.ReadManyResult, error) {
	return c.readMany.ReadMany(ctx, items, opts...)
}

// ChangeFeedOptions scopes a new change-feed cursor. At most one of
// Continuation, PartitionKey and FeedRange may be set; with none set the
// cursor covers the full key space.
type ChangeFeedOptions struct {
	// Continuation resumes from a serialized cursor.
	Continuation string

	// PartitionKey scopes the cursor to one partition key value.
	PartitionKey *storagemodels.PartitionKey

	// FeedRange scopes the cursor to one feed range.
	FeedRange *feedrange.Range

	// StartFrom positions a fresh cursor. Ignored when resuming.
	StartFrom storagemodels.StartFrom

	// MaxItemCount caps page sizes.
	MaxItemCount int
}

// ChangeFeed creates a pager over the container's change log.
func (c *Container) ChangeFeed(opts ChangeFeedOptions) (*changefeed.Pager, error) {
	state, err := c.changeFeedState(opts)
	if err != nil {
		return nil, err
	}
	return changefeed.NewPager(state, c.feed, c.provider, changefeed.WithMaxItemCount(opts.MaxItemCount)), nil
}

func (c *Container) changeFeedState(opts ChangeFeedOptions) (changefeed.State, error) {
	if opts.Continuation != "" {
		state, err := changefeed.FromContinuation(opts.Continuation)
		if err != nil {
			return nil, err
		}
		if state.ContainerID() != c.ID {
			return nil, errors.NewValidationError("continuation",
				fmt.Sprintf("continuation belongs to container %q, not %q", state.ContainerID(), c.ID))
		}
		return state, nil
	}

	startFrom := opts.StartFrom
	if startFrom.Kind == "" {
		startFrom = storagemodels.StartFromBeginning()
	}
	switch {
	case opts.PartitionKey != nil:
		return changefeed.NewV2FromPartitionKey(c.ID, c.Definition, *opts.PartitionKey, startFrom)
	case opts.FeedRange != nil:
		return changefeed.NewV2(c.ID, *opts.FeedRange, startFrom), nil
	default:
		return changefeed.NewV2FullRange(c.ID, startFrom), nil
	}
}
