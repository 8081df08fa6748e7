/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"fmt"
	"sync"
)

// Storage is a higher-level interface that manages a collection of Container
// handles, typically one per backing container the application talks to.
type Storage interface {
	// RegisterContainer registers a Container under its id.
	RegisterContainer(c *Container) error
	// GetContainer retrieves the registered Container for a given id.
	GetContainer(id string) (*Container, error)
}

// storageManager is a thread-safe implementation of the Storage interface.
type storageManager struct {
	mu         sync.RWMutex
	containers map[string]*Container
}

// NewStorageManager creates and returns a new Storage implementation.
func NewStorageManager() Storage {
	return &storageManager{
		containers: make(map[string]*Container),
	}
}

// RegisterContainer stores the provided Container under its id.
func (sm *storageManager) RegisterContainer(c *Container) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.containers[c.ID]; exists {
		return fmt.Errorf("container with id %q already registered", c.ID)
	}
	sm.containers[c.ID] = c
	return nil
}

// GetContainer retrieves the Container associated with the given id.
func (sm *storageManager) GetContainer(id string) (*Container, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	c, exists := sm.containers[id]
	if !exists {
		return nil, fmt.Errorf("container with id %q not found", id)
	}
	return c, nil
}
