/*
Package datastore defines the backend contracts of the DocStore library.

DocumentBackend covers partition-scoped reads:

	type DocumentBackend interface {
	    ReadItem(ctx context.Context, partitionID, id string, pk storagemodels.PartitionKey) (storagemodels.Document, float64, error)
	    QueryItems(ctx context.Context, partitionID string, query storagemodels.Query) ([]storagemodels.Document, float64, error)
	}

FeedReader serves change-feed pages for a fully populated FeedOptions.

Implementations:
  - ddb: DynamoDB implementation (GetItem point reads, PartiQL queries,
    DynamoDB Streams feed pages)
  - mock: in-memory implementation with call recording for testing

Backends are deliberately unaware of feed ranges, chunking and ordering;
those concerns belong to the changefeed and readmany packages.
*/
package datastore
