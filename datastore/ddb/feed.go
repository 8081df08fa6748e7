/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	streams "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	streamtypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

// NewStreamsClient initializes a DynamoDB Streams client using AWS
// credentials.
func NewStreamsClient(awsAccessKey, awsSecretKey, awsRegion string) (*streams.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return streams.NewFromConfig(cfg), nil
}

// StreamFeedReader implements datastore.FeedReader over DynamoDB Streams.
// The partition-key-range id of a request is a stream shard id; the position
// marker is the last consumed sequence number.
type StreamFeedReader struct {
	client    *streams.Client
	streamArn string
}

// NewStreamFeedReader constructs a StreamFeedReader for one stream.
func NewStreamFeedReader(client *streams.Client, streamArn string) *StreamFeedReader {
	return &StreamFeedReader{client: client, streamArn: streamArn}
}

// ReadFeedPage reads one page of changes from the routed shard. A shard that
// has been closed and drained signals feed-range gone, so the state machine
// re-resolves against the shard's children.
func (r *StreamFeedReader) ReadFeedPage(ctx context.Context, containerID string, opts *storagemodels.FeedOptions) (*storagemodels.FeedPage, error) {
	if opts.PartitionKeyRangeID == "" {
		return nil, errors.NewValidationError("partitionKeyRangeID", "stream reads require a routed shard id")
	}

	iterInput := &streams.GetShardIteratorInput{
		StreamArn: &r.streamArn,
		ShardId:   &opts.PartitionKeyRangeID,
	}
	if opts.IfNoneMatch != "" {
		iterInput.ShardIteratorType = streamtypes.ShardIteratorTypeAfterSequenceNumber
		iterInput.SequenceNumber = &opts.IfNoneMatch
	} else if opts.StartFrom.Kind == storagemodels.StartFromKindNow {
		iterInput.ShardIteratorType = streamtypes.ShardIteratorTypeLatest
	} else {
		iterInput.ShardIteratorType = streamtypes.ShardIteratorTypeTrimHorizon
	}

	iter, err := r.client.GetShardIterator(ctx, iterInput)
	if err != nil {
		return nil, fmt.Errorf("GetShardIterator error: %w", err)
	}

	recInput := &streams.GetRecordsInput{ShardIterator: iter.ShardIterator}
	if opts.MaxItemCount > 0 {
		recInput.Limit = aws.Int32(int32(opts.MaxItemCount))
	}
	out, err := r.client.GetRecords(ctx, recInput)
	if err != nil {
		return nil, fmt.Errorf("GetRecords error: %w", err)
	}

	var cutoff *time.Time
	if opts.StartFrom.Kind == storagemodels.StartFromKindTime && opts.StartFrom.Time != nil && opts.IfNoneMatch == "" {
		t := time.Time(*opts.StartFrom.Time)
		cutoff = &t
	}

	page := &storagemodels.FeedPage{ContinuationToken: opts.IfNoneMatch}
	for _, rec := range out.Records {
		if rec.Dynamodb == nil {
			continue
		}
		if cutoff != nil && rec.Dynamodb.ApproximateCreationDateTime != nil &&
			rec.Dynamodb.ApproximateCreationDateTime.Before(*cutoff) {
			continue
		}
		doc, err := streamImageToDocument(rec.Dynamodb.NewImage)
		if err != nil {
			return nil, err
		}
		page.Documents = append(page.Documents, doc)
		if rec.Dynamodb.SequenceNumber != nil {
			page.ContinuationToken = *rec.Dynamodb.SequenceNumber
		}
	}

	if len(out.Records) == 0 {
		if out.NextShardIterator == nil {
			// Shard closed and drained: its children now own the key range.
			return nil, errors.NewFeedRangeGoneError(containerID, opts.EPKStart, opts.EPKEnd)
		}
		page.NotModified = true
	}
	return page, nil
}

// streamImageToDocument converts a streams record image into a Document.
// The streams API carries its own AttributeValue type, so each member is
// mapped onto the DynamoDB equivalent before unmarshaling.
func streamImageToDocument(image map[string]streamtypes.AttributeValue) (storagemodels.Document, error) {
	converted := make(map[string]ddbtypes.AttributeValue, len(image))
	for k, v := range image {
		av, err := convertStreamAttr(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		converted[k] = av
	}
	doc := make(storagemodels.Document, len(converted))
	if err := attributevalue.UnmarshalMap(converted, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stream image: %w", err)
	}
	return doc, nil
}

func convertStreamAttr(v streamtypes.AttributeValue) (ddbtypes.AttributeValue, error) {
	switch tv := v.(type) {
	case *streamtypes.AttributeValueMemberS:
		return &ddbtypes.AttributeValueMemberS{Value: tv.Value}, nil
	case *streamtypes.AttributeValueMemberN:
		return &ddbtypes.AttributeValueMemberN{Value: tv.Value}, nil
	case *streamtypes.AttributeValueMemberB:
		return &ddbtypes.AttributeValueMemberB{Value: tv.Value}, nil
	case *streamtypes.AttributeValueMemberBOOL:
		return &ddbtypes.AttributeValueMemberBOOL{Value: tv.Value}, nil
	case *streamtypes.AttributeValueMemberNULL:
		return &ddbtypes.AttributeValueMemberNULL{Value: tv.Value}, nil
	case *streamtypes.AttributeValueMemberSS:
		return &ddbtypes.AttributeValueMemberSS{Value: tv.Value}, nil
	case *streamtypes.AttributeValueMemberNS:
		return &ddbtypes.AttributeValueMemberNS{Value: tv.Value}, nil
	case *streamtypes.AttributeValueMemberBS:
		return &ddbtypes.AttributeValueMemberBS{Value: tv.Value}, nil
	case *streamtypes.AttributeValueMemberL:
		list := make([]ddbtypes.AttributeValue, 0, len(tv.Value))
		for _, item := range tv.Value {
			converted, err := convertStreamAttr(item)
			if err != nil {
				return nil, err
			}
			list = append(list, converted)
		}
		return &ddbtypes.AttributeValueMemberL{Value: list}, nil
	case *streamtypes.AttributeValueMemberM:
		m := make(map[string]ddbtypes.AttributeValue, len(tv.Value))
		for k, item := range tv.Value {
			converted, err := convertStreamAttr(item)
			if err != nil {
				return nil, err
			}
			m[k] = converted
		}
		return &ddbtypes.AttributeValueMemberM{Value: m}, nil
	default:
		return nil, fmt.Errorf("unsupported stream attribute type %T", v)
	}
}
