/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

// DocumentStore implements datastore.DocumentBackend using AWS DynamoDB as
// the underlying data store. Documents live in a single table keyed by the
// canonical partition key string (PK) and the document id (SK).
type DocumentStore struct {
	client    *sdk.Client
	tableName string
}

// NewDynamoDBClient initializes a DynamoDB client using AWS credentials.
func NewDynamoDBClient(awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	// Load the custom AWS configuration using static credentials
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg), nil
}

// NewDocumentStore constructs a DocumentStore over the given table.
func NewDocumentStore(awsAccessKey, awsSecretKey, awsRegion, tableName string) (*DocumentStore, error) {
	client, err := NewDynamoDBClient(awsAccessKey, awsSecretKey, awsRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	return &DocumentStore{client: client, tableName: tableName}, nil
}

// NewDocumentStoreFromClient constructs a DocumentStore over an existing
// client, for callers that manage AWS configuration themselves.
func NewDocumentStoreFromClient(client *sdk.Client, tableName string) *DocumentStore {
	return &DocumentStore{client: client, tableName: tableName}
}

// ReadItem performs a GetItem point read. A missing item returns
// errors.ErrNotFound. The partitionID is advisory here: DynamoDB routes by
// the key itself.
func (d *DocumentStore) ReadItem(ctx context.Context, partitionID, id string, pk storagemodels.PartitionKey) (storagemodels.Document, float64, error) {
	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk.String()},
			"SK": &types.AttributeValueMemberS{Value: id},
		},
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("GetItem error: %w", err)
	}

	charge := consumedCapacity(out.ConsumedCapacity)
	if out.Item == nil {
		return nil, charge, errors.NewNotFoundError("Document", id)
	}

	doc := make(storagemodels.Document, len(out.Item))
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, charge, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return doc, charge, nil
}

func consumedCapacity(cc *types.ConsumedCapacity) float64 {
	if cc == nil || cc.CapacityUnits == nil {
		return 0
	}
	return aws.ToFloat64(cc.CapacityUnits)
}
