package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements Store over a pgx connection pool. Every collection
// lives in one records table:
//
//	CREATE TABLE records (
//	    id         BIGSERIAL PRIMARY KEY,
//	    collection TEXT NOT NULL,
//	    key        TEXT,
//	    doc        JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    UNIQUE (collection, key)
//	);
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Get returns all records in a collection matching the filter. Filtering
// uses JSONB containment so callers never write SQL.
func (p *Postgres) Get(ctx context.Context, collection string, filter Filter) ([]Record, error) {
	query := `SELECT doc FROM records WHERE collection = $1`
	args := []any{collection}

	if len(filter) > 0 {
		filterJSON, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal filter: %w", err)
		}
		query += ` AND doc @> $2`
		args = append(args, filterJSON)
	}
	query += ` ORDER BY id`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		var record Record
		if err := json.Unmarshal(doc, &record); err != nil {
			return nil, fmt.Errorf("failed to decode record in %s: %w", collection, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}
	return records, nil
}

// Insert appends records to a collection.
func (p *Postgres) Insert(ctx context.Context, collection string, records []Record) error {
	for _, record := range records {
		doc, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		_, err = p.pool.Exec(ctx,
			`INSERT INTO records (collection, doc) VALUES ($1, $2)`,
			collection, doc,
		)
		if err != nil {
			return fmt.Errorf("failed to insert into %s: %w", collection, err)
		}
	}
	return nil
}

// Upsert inserts records, replacing any existing record whose conflictKey
// field carries the same value.
func (p *Postgres) Upsert(ctx context.Context, collection string, records []Record, conflictKey string) error {
	if conflictKey == "" {
		return p.Insert(ctx, collection, records)
	}
	for _, record := range records {
		doc, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		key := fmt.Sprintf("%v", record[conflictKey])
		_, err = p.pool.Exec(ctx,
			`INSERT INTO records (collection, key, doc)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (collection, key) DO UPDATE SET doc = $3, created_at = NOW()`,
			collection, key, doc,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert into %s: %w", collection, err)
		}
	}
	return nil
}
