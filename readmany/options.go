/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package readmany

import (
	"github.com/panjf2000/ants/v2"

	"github.com/suparena/docstore/storagemodels"
)

// Defaults for the fan-out engine.
const (
	// DefaultChunkSize caps rows per backend request, bounding per-request
	// cost and failure blast radius.
	DefaultChunkSize = 1000

	// DefaultConcurrency sizes the owned worker pool when the caller does
	// not supply one.
	DefaultConcurrency = 16

	// DefaultRouteCacheSize bounds the per-helper partition route cache.
	DefaultRouteCacheSize = 4096
)

// options configures one ReadMany call
type options struct {
	pool        *ants.Pool
	concurrency int
	chunkSize   int
	observer    func(*storagemodels.ReadManyResult)
}

// Option is a functional option for configuring a ReadMany call
type Option func(*options)

func defaultOptions() options {
	return options{
		concurrency: DefaultConcurrency,
		chunkSize:   DefaultChunkSize,
	}
}

// WithPool borrows a caller-owned worker pool for chunk dispatch. The pool
// is never torn down by the engine.
func WithPool(pool *ants.Pool) Option {
	return func(o *options) {
		o.pool = pool
	}
}

// WithConcurrency sizes the worker pool the call creates and tears down
// itself. Ignored when a pool is borrowed via WithPool.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithChunkSize overrides the per-request row cap.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithResponseObserver registers a callback invoked exactly once on success
// with the final ordered results and aggregate metadata.
func WithResponseObserver(fn func(*storagemodels.ReadManyResult)) Option {
	return func(o *options) {
		o.observer = fn
	}
}
