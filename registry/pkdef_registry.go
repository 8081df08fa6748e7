/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"sync"

	"github.com/suparena/docstore/storagemodels"
)

// PartitionKeyDefinitionRegistry maps container ids to their partition key
// definitions.

var (
	pkDefRegistry = make(map[string]storagemodels.PartitionKeyDefinition)
	mu            sync.RWMutex
)

// RegisterPartitionKeyDefinition associates a container id with its partition
// key definition. Re-registering a container replaces the previous definition.
func RegisterPartitionKeyDefinition(containerID string, def storagemodels.PartitionKeyDefinition) {
	mu.Lock()
	defer mu.Unlock()
	pkDefRegistry[containerID] = def
}

// GetPartitionKeyDefinition retrieves the definition for a container, if any.
func GetPartitionKeyDefinition(containerID string) (storagemodels.PartitionKeyDefinition, bool) {
	mu.RLock()
	defer mu.RUnlock()
	def, ok := pkDefRegistry[containerID]
	return def, ok
}
