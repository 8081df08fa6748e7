/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package readmany

import (
	"context"
	"sort"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/suparena/docstore/datastore"
	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/feedrange"
	"github.com/suparena/docstore/routing"
	"github.com/suparena/docstore/storagemodels"
)

// Helper is the partitioned fan-out read engine: it resolves a batch of
// (id, partition key) rows into documents, dispatching one request per
// physical-partition chunk and reassembling results in input order.
//
// A Helper is safe for concurrent use; per-call working state never outlives
// the call. The partition route cache is shared across calls: each distinct
// partition key value is resolved once and the entry published whole.
type Helper struct {
	containerID string
	def         storagemodels.PartitionKeyDefinition
	backend     datastore.DocumentBackend
	provider    routing.Provider
	routes      *lru.Cache[string, routing.PhysicalPartition]
}

// NewHelper builds a fan-out engine for one container.
func NewHelper(containerID string, def storagemodels.PartitionKeyDefinition, backend datastore.DocumentBackend, provider routing.Provider) (*Helper, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	routes, err := lru.New[string, routing.PhysicalPartition](DefaultRouteCacheSize)
	if err != nil {
		return nil, err
	}
	return &Helper{
		containerID: containerID,
		def:         def,
		backend:     backend,
		provider:    provider,
		routes:      routes,
	}, nil
}

// chunkRow is one input row annotated with its original position.
type chunkRow struct {
	index int
	item  storagemodels.ReadManyItem
	pkKey string
}

// chunk is one partition-scoped unit of work.
type chunk struct {
	partitionID string
	rows        []chunkRow
}

type indexedDocument struct {
	index int
	doc   storagemodels.Document
}

// ReadMany resolves the batch. Results are in input order; rows whose
// document does not exist are omitted, and duplicate rows each resolve
// independently. On any chunk failure the whole call fails with the first
// error and no partial results. Rows whose partition key value maps to no
// physical partition are excluded from the results and reported in the
// result's Unresolved field.
func (h *Helper) ReadMany(ctx context.Context, items []storagemodels.ReadManyItem, callOpts ...Option) (*storagemodels.ReadManyResult, error) {
	opts := defaultOptions()
	for _, opt := range callOpts {
		opt(&opts)
	}

	result := &storagemodels.ReadManyResult{ActivityID: uuid.NewString()}
	if len(items) == 0 {
		if opts.observer != nil {
			opts.observer(result)
		}
		return result, nil
	}

	chunks, unresolved, err := h.plan(ctx, items, opts.chunkSize)
	if err != nil {
		return nil, err
	}
	result.Unresolved = unresolved

	docs, charge, err := h.dispatch(ctx, chunks, &opts)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(docs, func(i, j int) bool { return docs[i].index < docs[j].index })
	result.Items = make([]storagemodels.Document, len(docs))
	for i, d := range docs {
		result.Items[i] = d.doc
	}
	result.RequestCharge = charge

	if opts.observer != nil {
		opts.observer(result)
	}
	return result, nil
}

// plan groups rows by logical partition key value, resolves each distinct
// value's owning physical partition exactly once, re-buckets by partition id
// and slices every bucket into bounded chunks.
func (h *Helper) plan(ctx context.Context, items []storagemodels.ReadManyItem, chunkSize int) ([]chunk, []storagemodels.ReadManyItem, error) {
	type pkGroup struct {
		epk  string
		rows []chunkRow
	}
	groups := make(map[string]*pkGroup)
	var groupOrder []string

	for i, item := range items {
		pkKey := item.PartitionKey.String()
		g, ok := groups[pkKey]
		if !ok {
			epk, err := feedrange.EffectivePartitionKey(h.def, item.PartitionKey)
			if err != nil {
				return nil, nil, err
			}
			g = &pkGroup{epk: epk}
			groups[pkKey] = g
			groupOrder = append(groupOrder, pkKey)
		}
		g.rows = append(g.rows, chunkRow{index: i, item: item, pkKey: pkKey})
	}

	buckets := make(map[string][]chunkRow)
	var bucketOrder []string
	var unresolved []storagemodels.ReadManyItem

	for _, pkKey := range groupOrder {
		g := groups[pkKey]
		part, ok, err := h.resolveRoute(ctx, g.epk)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			for _, row := range g.rows {
				unresolved = append(unresolved, row.item)
			}
			continue
		}
		if _, seen := buckets[part.ID]; !seen {
			bucketOrder = append(bucketOrder, part.ID)
		}
		buckets[part.ID] = append(buckets[part.ID], g.rows...)
	}

	var chunks []chunk
	for _, partitionID := range bucketOrder {
		rows := buckets[partitionID]
		for start := 0; start < len(rows); start += chunkSize {
			end := start + chunkSize
			if end > len(rows) {
				end = len(rows)
			}
			chunks = append(chunks, chunk{partitionID: partitionID, rows: rows[start:end]})
		}
	}
	return chunks, unresolved, nil
}

// resolveRoute returns the physical partition owning one effective key,
// consulting the shared route cache first.
func (h *Helper) resolveRoute(ctx context.Context, epk string) (routing.PhysicalPartition, bool, error) {
	if part, ok := h.routes.Get(epk); ok {
		return part, true, nil
	}
	part, ok, err := routing.ResolveEffectiveKey(ctx, h.provider, h.containerID, epk)
	if err != nil || !ok {
		return routing.PhysicalPartition{}, false, err
	}
	h.routes.Add(epk, part)
	return part, true, nil
}

// dispatch runs every chunk on a bounded worker pool. The phase is
// all-or-nothing: the first failure cancels not-yet-started chunks, started
// chunks run to completion but their results are discarded, and the first
// error is propagated with no partial results.
func (h *Helper) dispatch(ctx context.Context, chunks []chunk, opts *options) ([]indexedDocument, float64, error) {
	if len(chunks) == 0 {
		return nil, 0, nil
	}

	pool := opts.pool
	if pool == nil {
		owned, err := ants.NewPool(opts.concurrency)
		if err != nil {
			return nil, 0, err
		}
		defer owned.Release()
		pool = owned
	}

	results := make([][]indexedDocument, len(chunks))
	charges := make([]float64, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, ch := range chunks {
		i, ch := i, ch
		g.Go(func() error {
			done := make(chan error, 1)
			if err := pool.Submit(func() {
				docs, charge, err := h.runChunk(gctx, ch)
				if err == nil {
					results[i], charges[i] = docs, charge
				}
				done <- err
			}); err != nil {
				return err
			}
			select {
			case err := <-done:
				return err
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var docs []indexedDocument
	var charge float64
	for i := range chunks {
		docs = append(docs, results[i]...)
		charge += charges[i]
	}
	return docs, charge, nil
}

// runChunk executes one unit of work: a direct point read for a single row,
// or the narrowest predicate query for a multi-row chunk.
func (h *Helper) runChunk(ctx context.Context, ch chunk) ([]indexedDocument, float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	if len(ch.rows) == 1 {
		row := ch.rows[0]
		doc, charge, err := h.backend.ReadItem(ctx, ch.partitionID, row.item.ID, row.item.PartitionKey)
		if err != nil {
			if errors.IsNotFound(err) {
				return nil, charge, nil
			}
			return nil, 0, err
		}
		return []indexedDocument{{index: row.index, doc: doc}}, charge, nil
	}

	query, singlePK, err := h.buildChunkQuery(ch)
	if err != nil {
		return nil, 0, err
	}
	docs, charge, err := h.backend.QueryItems(ctx, ch.partitionID, query)
	if err != nil {
		return nil, 0, err
	}
	return h.matchRows(ch, docs, singlePK), charge, nil
}

// buildChunkQuery picks the narrowest predicate form available for a chunk.
func (h *Helper) buildChunkQuery(ch chunk) (storagemodels.Query, bool, error) {
	singlePK := true
	for _, row := range ch.rows[1:] {
		if row.pkKey != ch.rows[0].pkKey {
			singlePK = false
			break
		}
	}

	if singlePK {
		ids := make([]string, len(ch.rows))
		for i, row := range ch.rows {
			ids[i] = row.item.ID
		}
		if len(h.def.Paths) == 1 {
			if h.def.Paths[0] == "/id" {
				return BuildIDInQuery(ids), true, nil
			}
			q, err := BuildPartitionKeyAndIDQuery(h.def, ch.rows[0].item.PartitionKey, ids)
			return q, true, err
		}
		// Hierarchical keys have no combined single-partition form; fall
		// through to the per-value form.
	}

	rowsItems := make([]storagemodels.ReadManyItem, len(ch.rows))
	for i, row := range ch.rows {
		rowsItems[i] = row.item
	}
	q, err := BuildParameterizedQuery(h.def, rowsItems)
	return q, singlePK, err
}

// matchRows maps returned documents back onto input rows. Every row resolves
// independently, so duplicate rows each contribute their own output entry.
func (h *Helper) matchRows(ch chunk, docs []storagemodels.Document, singlePK bool) []indexedDocument {
	byKey := make(map[string]storagemodels.Document, len(docs))
	for _, doc := range docs {
		key := doc.ID()
		if !singlePK {
			key += "|" + h.docPartitionKey(doc).String()
		}
		byKey[key] = doc
	}

	var out []indexedDocument
	for _, row := range ch.rows {
		key := row.item.ID
		if !singlePK {
			key += "|" + row.pkKey
		}
		if doc, ok := byKey[key]; ok {
			out = append(out, indexedDocument{index: row.index, doc: doc})
		}
	}
	return out
}

// docPartitionKey extracts a document's partition key value through the
// container's definition. Only top-level fields are supported, which matches
// the paths the engine accepts.
func (h *Helper) docPartitionKey(doc storagemodels.Document) storagemodels.PartitionKey {
	components := make([]any, 0, len(h.def.Paths))
	for _, path := range h.def.Paths {
		components = append(components, doc[pkFieldName(path)])
	}
	return storagemodels.NewPartitionKey(components...)
}
