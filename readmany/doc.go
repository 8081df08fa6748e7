/*
Package readmany implements the concurrent multi-partition fan-out engine
for batched point lookups.

Given an ordered batch of (id, partition key) rows, the engine groups rows
by logical partition key value, resolves each distinct value's owning
physical partition once through an LRU route cache, re-buckets by partition,
slices buckets into bounded chunks, and dispatches every chunk as an
independent unit of work on a worker pool. Single-row chunks take a direct
point-read path; multi-row chunks take the narrowest predicate form the
query builders can produce.

The phase is all-or-nothing despite chunk-level parallelism: the first chunk
failure cancels not-yet-started work and propagates, and no partial results
are returned. On success, chunk results are stably merged back into input
order with missing documents omitted, request charges are summed, and an
optional observer receives the final result once.

The worker pool is either owned by the call (created and torn down within
it) or borrowed from the caller via WithPool, in which case the engine never
tears it down.
*/
package readmany
