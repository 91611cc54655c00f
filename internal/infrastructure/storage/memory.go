package storage

import (
	"context"
	"errors"
	"sync"

	mediaapp "github.com/menuhub/backend/internal/application/media"
)

var _ mediaapp.ObjectStorage = (*MemoryObjectStorage)(nil)

// MemoryObject is a blob held by MemoryObjectStorage
type MemoryObject struct {
	Data        []byte
	ContentType string
}

// MemoryObjectStorage keeps blobs in process memory. It backs local development and tests.
type MemoryObjectStorage struct {
	publicURLs
	mu      sync.RWMutex
	objects map[string]MemoryObject
}

// NewMemoryObjectStorage creates an empty store whose URLs live under publicBaseURL
func NewMemoryObjectStorage(publicBaseURL string) *MemoryObjectStorage {
	return &MemoryObjectStorage{
		publicURLs: newPublicURLs(publicBaseURL),
		objects:    make(map[string]MemoryObject),
	}
}

// Put implements mediaapp.ObjectStorage
func (m *MemoryObjectStorage) Put(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = MemoryObject{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

// Delete implements mediaapp.ObjectStorage
func (m *MemoryObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Exists implements mediaapp.ObjectStorage
func (m *MemoryObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

// Get returns a stored object
func (m *MemoryObjectStorage) Get(key string) (MemoryObject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}

// Len returns the number of stored objects
func (m *MemoryObjectStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
