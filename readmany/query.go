/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package readmany

import (
	"fmt"
	"strings"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

// Predicate builders for multi-row chunks. All are pure: they turn rows and
// the partition key definition into a parameterized query, narrowest form
// first. Single-row chunks never reach these; they take the point-read path.

func pkFieldName(path string) string {
	return strings.TrimPrefix(path, "/")
}

// BuildIDInQuery builds the id-only IN-list form, used when every row in the
// chunk shares one partition key value and the id alone identifies the
// documents.
func BuildIDInQuery(ids []string) storagemodels.Query {
	var sb strings.Builder
	sb.WriteString("SELECT * FROM c WHERE c.id IN (")
	params := make([]storagemodels.QueryParameter, len(ids))
	for i, id := range ids {
		name := fmt.Sprintf("@id%d", i)
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		params[i] = storagemodels.QueryParameter{Name: name, Value: id}
	}
	sb.WriteString(")")
	return storagemodels.Query{Text: sb.String(), Parameters: params}
}

// BuildPartitionKeyAndIDQuery builds the combined partition-key-and-id form
// for one logical partition with a single-path key.
func BuildPartitionKeyAndIDQuery(def storagemodels.PartitionKeyDefinition, pk storagemodels.PartitionKey, ids []string) (storagemodels.Query, error) {
	if len(def.Paths) != 1 {
		return storagemodels.Query{}, errors.NewValidationError("paths", "combined form requires a single-path partition key")
	}
	components := pk.Components()
	if len(components) != 1 {
		return storagemodels.Query{}, errors.NewValidationError("partitionKey", "combined form requires a single-component key")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT * FROM c WHERE c.%s = @pk AND c.id IN (", pkFieldName(def.Paths[0]))
	params := make([]storagemodels.QueryParameter, 0, len(ids)+1)
	params = append(params, storagemodels.QueryParameter{Name: "@pk", Value: components[0]})
	for i, id := range ids {
		name := fmt.Sprintf("@id%d", i)
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		params = append(params, storagemodels.QueryParameter{Name: name, Value: id})
	}
	sb.WriteString(")")
	return storagemodels.Query{Text: sb.String(), Parameters: params}, nil
}

// BuildParameterizedQuery builds the fully parameterized per-value form: one
// (partition key AND id) disjunct per row. It is the widest form and the
// only one valid across logical partitions.
func BuildParameterizedQuery(def storagemodels.PartitionKeyDefinition, items []storagemodels.ReadManyItem) (storagemodels.Query, error) {
	var sb strings.Builder
	sb.WriteString("SELECT * FROM c WHERE ")
	var params []storagemodels.QueryParameter

	for i, item := range items {
		components := item.PartitionKey.Components()
		if len(components) > len(def.Paths) {
			return storagemodels.Query{}, errors.NewValidationError("partitionKey",
				fmt.Sprintf("row %d has %d components but the definition has %d paths", i, len(components), len(def.Paths)))
		}
		if i > 0 {
			sb.WriteString(" OR ")
		}
		sb.WriteString("(")
		if len(components) == 1 {
			name := fmt.Sprintf("@pk%d", i)
			fmt.Fprintf(&sb, "c.%s = %s", pkFieldName(def.Paths[0]), name)
			params = append(params, storagemodels.QueryParameter{Name: name, Value: components[0]})
		} else {
			for j, comp := range components {
				if j > 0 {
					sb.WriteString(" AND ")
				}
				name := fmt.Sprintf("@pk%d_%d", i, j)
				fmt.Fprintf(&sb, "c.%s = %s", pkFieldName(def.Paths[j]), name)
				params = append(params, storagemodels.QueryParameter{Name: name, Value: comp})
			}
		}
		idName := fmt.Sprintf("@id%d", i)
		fmt.Fprintf(&sb, " AND c.id = %s)", idName)
		params = append(params, storagemodels.QueryParameter{Name: idName, Value: item.ID})
	}
	return storagemodels.Query{Text: sb.String(), Parameters: params}, nil
}
