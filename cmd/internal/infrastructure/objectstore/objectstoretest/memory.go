// Package objectstoretest provides an in-memory objectstore.Store for tests.
package objectstoretest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"treinoexpresso/cmd/internal/infrastructure/objectstore"
)

type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	// FailUploads makes every Upload return this error when set.
	FailUploads error
}

func NewMemory() *Memory {
	return &Memory{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *Memory) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
}

func (m *Memory) Download(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", objectstore.ErrObjectNotFound, key)
	}
	return data, nil
}

func (m *Memory) Upload(_ context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailUploads != nil {
		return m.FailUploads
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.types, key)
	return nil
}

func (m *Memory) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://signed.test/%s?ttl=%d", key, int(ttl.Seconds())), nil
}

func (m *Memory) ContentTypeOf(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.types[key]
}

// Keys lists stored keys in order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
