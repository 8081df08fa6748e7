/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sync"

	"github.com/suparena/docstore/storagemodels"
)

// DecodeFunc turns a raw document into a typed object.
type DecodeFunc func(doc storagemodels.Document) (interface{}, error)

// decoderRegistry holds the mapping from a document type name (like "Order"
// or "RatingRecord") to its decode function.
var (
	decoderRegistry = make(map[string]DecodeFunc)
	decoderMu       sync.RWMutex
)

// RegisterDecoder registers a decode function for a given document type name.
// If a decoder is already registered for the name, it panics to prevent
// accidental overrides.
func RegisterDecoder(typeName string, fn DecodeFunc) {
	decoderMu.Lock()
	defer decoderMu.Unlock()
	if _, exists := decoderRegistry[typeName]; exists {
		panic(fmt.Sprintf("decoder registry: type %q already registered", typeName))
	}
	decoderRegistry[typeName] = fn
}

// GetDecoder returns the registered decode function for the given type name.
// If no function is registered, it returns an error.
func GetDecoder(typeName string) (DecodeFunc, error) {
	decoderMu.RLock()
	defer decoderMu.RUnlock()
	fn, ok := decoderRegistry[typeName]
	if !ok {
		return nil, fmt.Errorf("decoder registry: no decoder registered for type %q", typeName)
	}
	return fn, nil
}
