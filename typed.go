/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/suparena/docstore/readmany"
	"github.com/suparena/docstore/registry"
	"github.com/suparena/docstore/storagemodels"
)

// TypedReader provides type-safe batched reads over a Container for a
// specific type T.
type TypedReader[T any] struct {
	container *Container
}

// NewTypedReader creates a TypedReader for type T over a container.
func NewTypedReader[T any](c *Container) *TypedReader[T] {
	return &TypedReader[T]{container: c}
}

// ReadMany resolves the batch and decodes each document into T. The raw
// result is returned alongside the decoded values so callers keep access to
// the request charge and unresolved rows.
func (r *TypedReader[T]) ReadMany(ctx context.Context, items []storagemodels.ReadManyItem, opts ...readmany.Option) ([]T, *storagemodels.ReadManyResult, error) {
	result, err := r.container.ReadMany(ctx, items, opts...)
	if err != nil {
		return nil, nil, err
	}

	out := make([]T, 0, len(result.Items))
	for _, doc := range result.Items {
		decoded, err := DecodeDocument[T](doc)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, decoded)
	}
	return out, result, nil
}

// DecodeDocument decodes a schemaless document into T. If the document
// carries a "type" field with a registered decoder, that decoder runs first
// and its result is asserted to T; otherwise the document is decoded
// structurally.
func DecodeDocument[T any](doc storagemodels.Document) (T, error) {
	var zero T

	if typeName, ok := doc["type"].(string); ok && typeName != "" {
		if fn, err := registry.GetDecoder(typeName); err == nil {
			obj, err := fn(doc)
			if err != nil {
				return zero, fmt.Errorf("decoder for type %q failed: %w", typeName, err)
			}
			if typed, ok := obj.(T); ok {
				return typed, nil
			}
			if typed, ok := obj.(*T); ok && typed != nil {
				return *typed, nil
			}
		}
	}

	var result T
	if err := mapstructure.Decode(map[string]any(doc), &result); err != nil {
		return zero, fmt.Errorf("failed to decode document to %T: %w", result, err)
	}
	return result, nil
}
