/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/docstore/storagemodels"
)

var paramPattern = regexp.MustCompile(`@[A-Za-z0-9_]+`)

// QueryItems executes a predicate query via PartiQL. The engine-side query
// text references the document root as "c" and binds named @parameters; both
// are rewritten into PartiQL form here. Partition scoping is carried by the
// key predicates themselves, so partitionID is advisory.
func (d *DocumentStore) QueryItems(ctx context.Context, partitionID string, query storagemodels.Query) ([]storagemodels.Document, float64, error) {
	statement, params, err := d.toPartiQL(query)
	if err != nil {
		return nil, 0, err
	}

	var (
		docs   []storagemodels.Document
		charge float64
		next   *string
	)
	for {
		out, err := d.client.ExecuteStatement(ctx, &sdk.ExecuteStatementInput{
			Statement:              &statement,
			Parameters:             params,
			NextToken:              next,
			ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
		})
		if err != nil {
			return nil, charge, fmt.Errorf("ExecuteStatement error: %w", err)
		}
		charge += consumedCapacity(out.ConsumedCapacity)

		for _, item := range out.Items {
			doc := make(storagemodels.Document, len(item))
			if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
				return nil, charge, fmt.Errorf("failed to unmarshal item: %w", err)
			}
			docs = append(docs, doc)
		}

		if out.NextToken == nil {
			return docs, charge, nil
		}
		next = out.NextToken
	}
}

// toPartiQL rewrites the engine query into a PartiQL statement: the "c"
// alias becomes the quoted table name and each named parameter becomes a
// positional "?" in order of appearance.
func (d *DocumentStore) toPartiQL(query storagemodels.Query) (string, []types.AttributeValue, error) {
	values := make(map[string]any, len(query.Parameters))
	for _, p := range query.Parameters {
		values[p.Name] = p.Value
	}

	var params []types.AttributeValue
	var convErr error
	statement := paramPattern.ReplaceAllStringFunc(query.Text, func(name string) string {
		v, ok := values[name]
		if !ok {
			convErr = fmt.Errorf("query references unbound parameter %s", name)
			return name
		}
		av, err := attributevalue.Marshal(v)
		if err != nil {
			convErr = fmt.Errorf("failed to marshal parameter %s: %w", name, err)
			return name
		}
		params = append(params, av)
		return "?"
	})
	if convErr != nil {
		return "", nil, convErr
	}

	statement = strings.Replace(statement, " FROM c ", fmt.Sprintf(" FROM %q ", d.tableName), 1)
	statement = strings.ReplaceAll(statement, "c.", "")
	return statement, params, nil
}
