/*
Package storagemodels defines the shared data types of the DocStore library.

It holds the document and partition key model (Document,
PartitionKeyDefinition, PartitionKey), the batched-read types (ReadManyItem,
Query, ReadManyResult) and the change-feed wire types (StartFrom, FeedOptions,
FeedPage).

FeedOptions deliberately replaces a header map with an explicit structure:
every field a change-feed state machine may populate is named and typed, so
backends consume request parameters without string-keyed lookups.

The package has no behavior beyond validation and JSON encoding; the state
machinery lives in package changefeed and the fan-out engine in package
readmany.
*/
package storagemodels
