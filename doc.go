/*
Package docstore is a client library for partitioned document stores,
centered on the two operations that are hardest to get right against a
store whose partitions split and merge: resumable change-feed consumption
and concurrent multi-partition batched reads.

Key Features:
  - Versioned, split/merge-aware change-feed continuations (V1 legacy and
    range-based V2) with exact key-space coverage invariants
  - A fan-out read engine with bounded concurrency, all-or-nothing failure
    semantics and input-order result assembly
  - Pluggable routing, document backend and feed reader contracts, with a
    DynamoDB implementation and in-memory doubles included
  - Type-safe decoding via Go generics and a decoder registry
  - Semantic error types distinguishing fatal from recoverable conditions

Basic Usage:

	// Wire a container handle
	container, _ := docstore.NewContainer("orders", def, backend, feed, provider)

	// Batched read, results in input order
	result, err := container.ReadMany(ctx, []storagemodels.ReadManyItem{
	    {ID: "o1", PartitionKey: storagemodels.NewPartitionKey("user-1")},
	    {ID: "o2", PartitionKey: storagemodels.NewPartitionKey("user-2")},
	})

	// Change feed with checkpointing
	pager, _ := container.ChangeFeed(docstore.ChangeFeedOptions{})
	page, err := pager.NextPage(ctx)
	token, _ := pager.Continuation()

For more information, see the documentation at https://github.com/suparena/docstore
*/
package docstore
