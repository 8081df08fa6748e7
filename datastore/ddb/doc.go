/*
Package ddb implements the DocStore backend contracts on AWS DynamoDB.

DocumentStore serves point reads with GetItem and predicate queries with
PartiQL ExecuteStatement; engine queries are rewritten into PartiQL with
positional parameters before execution. Request charges are taken from the
consumed capacity of each call.

StreamFeedReader serves change-feed pages from DynamoDB Streams, mapping the
routed partition-key-range id onto a stream shard and the continuation
position onto a sequence number. A closed, drained shard surfaces as a
feed-range gone error so the change-feed state machine re-resolves against
the shard's children.
*/
package ddb
