package storage

import (
	"context"
	"sync"

	"github.com/cuongbtq/invoice-service/internal/domain"
)

// MemoryRequestStore is an in-memory RequestStore used for unit testing
// handler and worker logic without a running Redis.
type MemoryRequestStore struct {
	mu      sync.Mutex
	records map[string]domain.RequestRecord
	putErr  error
}

// NewMemoryRequestStore creates an empty in-memory request store
func NewMemoryRequestStore() *MemoryRequestStore {
	return &MemoryRequestStore{
		records: make(map[string]domain.RequestRecord),
	}
}

// WithPutError configures the store to fail subsequent Put calls
func (m *MemoryRequestStore) WithPutError(err error) *MemoryRequestStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putErr = err
	return m
}

func (m *MemoryRequestStore) Put(_ context.Context, record *domain.RequestRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.putErr != nil {
		return m.putErr
	}

	m.records[record.RequestID] = *record
	return nil
}

func (m *MemoryRequestStore) Get(_ context.Context, requestID string) (*domain.RequestRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[requestID]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}

	return &record, nil
}

// RequestIDs returns the IDs of all stored records
func (m *MemoryRequestStore) RequestIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	return ids
}

// Len reports how many records have been stored
func (m *MemoryRequestStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
