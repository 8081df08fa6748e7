/*
Package feedrange models contiguous slices of a container's effective
partition key space.

A Range is a half-open [min, max) interval over uppercase hex effective keys,
independent of the physical partition layout underneath it. Ranges support
containment, overlap, intersection and exact-cover checks; ExactCover is the
invariant check used by change-feed continuations after partition splits and
merges.

EffectivePartitionKey maps a logical partition key value onto the space by
hashing a canonical binary encoding of its components (MurmurHash3; 128-bit
for version 2 definitions, 32-bit for legacy version 1). Hierarchical
(MultiHash) definitions hash each component separately and concatenate, so a
component prefix owns a contiguous slice of the space.
*/
package feedrange
