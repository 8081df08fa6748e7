/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides in-memory implementations of the datastore contracts
// for testing
package mock

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

type storedDoc struct {
	pk  storagemodels.PartitionKey
	doc storagemodels.Document
}

// Backend is a mock implementation of datastore.DocumentBackend for testing.
// It records call counts so tests can assert how many requests a fan-out
// issued and through which path.
type Backend struct {
	mu         sync.RWMutex
	partitions map[string][]storedDoc

	readItemErr error
	queryErr    error
	delay       time.Duration
	charge      float64

	readItemCalls atomic.Int64
	queryCalls    atomic.Int64
}

// New creates a new mock Backend.
func New() *Backend {
	return &Backend{partitions: make(map[string][]storedDoc)}
}

// WithReadItemError makes ReadItem return an error
func (b *Backend) WithReadItemError(err error) *Backend {
	b.readItemErr = err
	return b
}

// WithQueryError makes QueryItems return an error
func (b *Backend) WithQueryError(err error) *Backend {
	b.queryErr = err
	return b
}

// WithDelay adds latency to every call, for exercising concurrency
func (b *Backend) WithDelay(d time.Duration) *Backend {
	b.delay = d
	return b
}

// WithChargePerCall sets the request charge every call reports
func (b *Backend) WithChargePerCall(charge float64) *Backend {
	b.charge = charge
	return b
}

// PutDocument stores a document under a physical partition.
func (b *Backend) PutDocument(partitionID string, pk storagemodels.PartitionKey, doc storagemodels.Document) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.partitions[partitionID] = append(b.partitions[partitionID], storedDoc{pk: pk, doc: doc})
}

// ReadItemCalls returns how many point reads were issued.
func (b *Backend) ReadItemCalls() int64 {
	return b.readItemCalls.Load()
}

// QueryCalls returns how many predicate queries were issued.
func (b *Backend) QueryCalls() int64 {
	return b.queryCalls.Load()
}

// ReadItem implements datastore.DocumentBackend.
func (b *Backend) ReadItem(ctx context.Context, partitionID, id string, pk storagemodels.PartitionKey) (storagemodels.Document, float64, error) {
	b.readItemCalls.Add(1)
	if err := b.wait(ctx); err != nil {
		return nil, 0, err
	}
	if b.readItemErr != nil {
		return nil, 0, b.readItemErr
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sd := range b.partitions[partitionID] {
		if sd.doc.ID() == id && sd.pk.String() == pk.String() {
			return sd.doc, b.charge, nil
		}
	}
	return nil, b.charge, errors.NewNotFoundError("Document", id)
}

// QueryItems implements datastore.DocumentBackend. The mock interprets the
// parameter names the read-many query builder produces: @idN id values, an
// optional shared @pk, and @pkN values paired with @idN by suffix.
func (b *Backend) QueryItems(ctx context.Context, partitionID string, query storagemodels.Query) ([]storagemodels.Document, float64, error) {
	b.queryCalls.Add(1)
	if err := b.wait(ctx); err != nil {
		return nil, 0, err
	}
	if b.queryErr != nil {
		return nil, 0, b.queryErr
	}

	ids := make(map[string]string)   // suffix -> id
	pks := make(map[string]any)      // suffix -> pk component(s)
	var sharedPK any
	hasSharedPK := false
	for _, p := range query.Parameters {
		switch {
		case p.Name == "@pk":
			sharedPK = p.Value
			hasSharedPK = true
		case strings.HasPrefix(p.Name, "@id"):
			if s, ok := p.Value.(string); ok {
				ids[strings.TrimPrefix(p.Name, "@id")] = s
			}
		case strings.HasPrefix(p.Name, "@pk"):
			pks[strings.TrimPrefix(p.Name, "@pk")] = p.Value
		}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []storagemodels.Document
	for _, sd := range b.partitions[partitionID] {
		for suffix, id := range ids {
			if sd.doc.ID() != id {
				continue
			}
			if hasSharedPK && !pkMatches(sd.pk, sharedPK) {
				continue
			}
			if pkVal, constrained := pks[suffix]; constrained && !pkMatches(sd.pk, pkVal) {
				continue
			}
			out = append(out, sd.doc)
			break
		}
	}
	return out, b.charge, nil
}

func pkMatches(pk storagemodels.PartitionKey, val any) bool {
	components := pk.Components()
	if list, ok := val.([]any); ok {
		return reflect.DeepEqual(components, list)
	}
	return len(components) == 1 && reflect.DeepEqual(components[0], val)
}

func (b *Backend) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.delay):
		}
	}
	return nil
}
