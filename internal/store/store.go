// Package store provides generic record-store access for CV collections.
//
// Collections are logical names ("cv_data", "experiences", "skills",
// "projects", "settings", "events") backed by a single JSONB table. The
// generation core only reads CV content; Insert and Upsert exist for the
// seed tool and tracking events.
package store

import "context"

// Filter restricts a Get to records whose document fields equal the given
// values. A nil or empty filter matches every record in the collection.
type Filter map[string]any

// Record is a single schemaless document from a collection.
type Record map[string]any

// Store is the record-store contract the core depends on. It is a black
// box: three verbs, no query language.
type Store interface {
	// Get returns all records in a collection matching the filter.
	Get(ctx context.Context, collection string, filter Filter) ([]Record, error)
	// Insert appends records to a collection.
	Insert(ctx context.Context, collection string, records []Record) error
	// Upsert inserts records, replacing any existing record with the same
	// value under conflictKey.
	Upsert(ctx context.Context, collection string, records []Record, conflictKey string) error
}

// GetOne returns the first matching record, or nil when the collection is
// empty or missing.
func GetOne(ctx context.Context, s Store, collection string, filter Filter) (Record, error) {
	records, err := s.Get(ctx, collection, filter)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}
