/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"encoding/json"
	"fmt"

	"github.com/suparena/docstore/errors"
)

// Document is a schemaless document as returned by the backing store.
type Document map[string]any

// ID returns the document's "id" field, or "" when absent or not a string.
func (d Document) ID() string {
	if v, ok := d["id"].(string); ok {
		return v
	}
	return ""
}

// PartitionKeyKind selects the partitioning scheme of a container.
type PartitionKeyKind string

const (
	// PartitionKeyKindHash is a single-path hash partition key.
	PartitionKeyKindHash PartitionKeyKind = "Hash"

	// PartitionKeyKindMultiHash is a hierarchical (multi-path) hash partition key.
	PartitionKeyKindMultiHash PartitionKeyKind = "MultiHash"
)

// PartitionKeyDefinition describes how a container maps documents onto the
// effective partition key space.
type PartitionKeyDefinition struct {
	Paths   []string         `json:"paths" yaml:"paths"`
	Kind    PartitionKeyKind `json:"kind" yaml:"kind"`
	Version int              `json:"version" yaml:"version"`
}

// Validate checks the definition for internal consistency.
func (d PartitionKeyDefinition) Validate() error {
	if len(d.Paths) == 0 {
		return errors.NewValidationError("paths", "at least one partition key path is required")
	}
	switch d.Kind {
	case PartitionKeyKindHash:
		if len(d.Paths) != 1 {
			return errors.NewValidationError("paths", "kind Hash requires exactly one path")
		}
	case PartitionKeyKindMultiHash:
	default:
		return errors.NewValidationError("kind", fmt.Sprintf("unknown partition key kind %q", d.Kind))
	}
	if d.Version != 1 && d.Version != 2 {
		return errors.NewValidationError("version", "partition key version must be 1 or 2")
	}
	return nil
}

// PartitionKey is one logical partition key value: an ordered tuple of
// components matching the definition's paths. Components may be strings,
// numbers, bools or nil.
type PartitionKey struct {
	components []any
}

// NewPartitionKey builds a partition key value from its components.
func NewPartitionKey(components ...any) PartitionKey {
	return PartitionKey{components: components}
}

// Components returns the ordered components of the key.
func (pk PartitionKey) Components() []any {
	return pk.components
}

// String returns the canonical JSON array form of the key, used for display
// and as a stable grouping identity.
func (pk PartitionKey) String() string {
	b, err := json.Marshal(pk.components)
	if err != nil {
		return fmt.Sprintf("%v", pk.components)
	}
	return string(b)
}

// MarshalJSON encodes the key as a JSON array of components.
func (pk PartitionKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(pk.components)
}

// UnmarshalJSON decodes a JSON array of components.
func (pk *PartitionKey) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &pk.components)
}

// ReadManyItem is one row of a batched read: a document id plus the partition
// key value the document lives under.
type ReadManyItem struct {
	ID           string
	PartitionKey PartitionKey
}

// QueryParameter is a named value bound into a query's text.
type QueryParameter struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Query is a parameterized predicate query produced by the read-many engine
// and executed by a DocumentBackend.
type Query struct {
	Text       string           `json:"query"`
	Parameters []QueryParameter `json:"parameters,omitempty"`
}

// ReadManyResult is the outcome of one batched read. Items are in input
// order with rows whose document does not exist omitted. Unresolved lists
// the input rows whose partition key value mapped to no physical partition;
// such rows are excluded from Items but are observable here.
type ReadManyResult struct {
	Items         []Document
	RequestCharge float64
	Unresolved    []ReadManyItem
	ActivityID    string
}
