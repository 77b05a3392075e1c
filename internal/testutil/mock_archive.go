package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/mbellec/facturx/internal/core/archive"
)

// MockArchiveRepository is an in-memory archive.Repository for tests.
type MockArchiveRepository struct {
	mu        sync.Mutex
	records   map[string]archive.Record
	saveCalls int
	saveErr   error
}

// NewMockArchiveRepository creates an empty in-memory repository.
func NewMockArchiveRepository() *MockArchiveRepository {
	return &MockArchiveRepository{records: make(map[string]archive.Record)}
}

// FailSaveWith makes subsequent Save calls return err.
func (m *MockArchiveRepository) FailSaveWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// SaveCalls returns how many times Save was invoked.
func (m *MockArchiveRepository) SaveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCalls
}

// Save implements archive.Repository.
func (m *MockArchiveRepository) Save(_ context.Context, rec archive.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[rec.InvoiceNumber] = rec
	return nil
}

// FindByNumber implements archive.Repository.
func (m *MockArchiveRepository) FindByNumber(_ context.Context, number string) (archive.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[number]
	if !ok {
		return archive.Record{}, archive.ErrNotFound
	}
	return rec, nil
}

// MarkValidated implements archive.Repository.
func (m *MockArchiveRepository) MarkValidated(_ context.Context, number string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[number]
	if !ok {
		return archive.ErrNotFound
	}
	rec.ValidatedAt = &at
	m.records[number] = rec
	return nil
}
