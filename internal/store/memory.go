package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory Store used by tests and offline runs. Collections
// behave like the Postgres implementation: missing collections read as
// empty, Upsert replaces by conflict key.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]Record

	// FailCollections lists collections whose reads return an error,
	// for exercising partial-failure paths.
	FailCollections map[string]bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		collections:     make(map[string][]Record),
		FailCollections: make(map[string]bool),
	}
}

// Get returns matching records from a collection.
func (m *Memory) Get(_ context.Context, collection string, filter Filter) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailCollections[collection] {
		return nil, fmt.Errorf("collection %s unreachable", collection)
	}

	var out []Record
	for _, record := range m.collections[collection] {
		if matches(record, filter) {
			out = append(out, record)
		}
	}
	return out, nil
}

// Insert appends records to a collection.
func (m *Memory) Insert(_ context.Context, collection string, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCollections[collection] {
		return fmt.Errorf("collection %s unreachable", collection)
	}
	m.collections[collection] = append(m.collections[collection], records...)
	return nil
}

// Upsert inserts records, replacing existing ones with the same conflictKey
// value.
func (m *Memory) Upsert(_ context.Context, collection string, records []Record, conflictKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCollections[collection] {
		return fmt.Errorf("collection %s unreachable", collection)
	}

	for _, record := range records {
		replaced := false
		if conflictKey != "" {
			for i, existing := range m.collections[collection] {
				if fmt.Sprintf("%v", existing[conflictKey]) == fmt.Sprintf("%v", record[conflictKey]) {
					m.collections[collection][i] = record
					replaced = true
					break
				}
			}
		}
		if !replaced {
			m.collections[collection] = append(m.collections[collection], record)
		}
	}
	return nil
}

func matches(record Record, filter Filter) bool {
	for key, want := range filter {
		if fmt.Sprintf("%v", record[key]) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}
