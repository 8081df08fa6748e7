/*
Package changefeed implements the resumable continuation protocol for
incrementally consuming a container's change log while its physical
partitions split and merge underneath.

A State is one logical cursor. Two wire-compatible encodings exist: the
legacy V1 form carries a fixed partition-key-range id, while V2 tracks an
ordered set of continuation tokens whose ranges always tile the cursor's
feed range exactly. FromSerialized dispatches on the decoded fields, and
FromContinuation round-trips the opaque string form produced by
ToSerialized.

The V2 cursor absorbs topology changes: when a request or resolution reports
that the active sub-range no longer maps to a single physical partition,
HandleFeedRangeGone replaces the active token with one token per child range
under current topology, preserving each child's prior position, and the
caller retries the same logical page. The coverage invariant (no gaps, no
overlaps) holds before and after every adjustment.

Pager is the convenience loop over a State: it populates request options,
reads pages from a datastore.FeedReader, applies returned positions, and
handles feed-range-gone signals in place.

Neither State nor Pager is safe for concurrent use. Parallel consumption is
done by creating one State per feed range, each on its own goroutine.
*/
package changefeed
