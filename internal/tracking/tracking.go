// Package tracking records generation events. Emission is fire-and-forget:
// a tracking failure is logged and swallowed, never propagated into the
// generation result.
package tracking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/cv-generator/internal/store"
	"github.com/jonathan/cv-generator/internal/types"
)

// CollectionEvents is the record-store collection tracking events land in.
const CollectionEvents = "events"

// Tracker emits generation events.
type Tracker interface {
	Emit(ctx context.Context, event types.TrackingEvent)
}

// StoreTracker writes events into the record store.
type StoreTracker struct {
	store  store.Store
	logger *zap.Logger
}

// NewStoreTracker creates a tracker backed by the record store.
func NewStoreTracker(s store.Store, logger *zap.Logger) *StoreTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreTracker{store: s, logger: logger}
}

// Emit inserts the event. Errors are logged and dropped.
func (t *StoreTracker) Emit(ctx context.Context, event types.TrackingEvent) {
	record := store.Record{
		"id":                uuid.NewString(),
		"event_name":        event.EventName,
		"source":            event.Source,
		"data_point_counts": event.DataPointCounts,
		"occurred_at":       time.Now().UTC().Format(time.RFC3339),
	}
	if err := t.store.Insert(ctx, CollectionEvents, []store.Record{record}); err != nil {
		t.logger.Warn("failed to emit tracking event",
			zap.String("event", event.EventName), zap.Error(err))
	}
}

// Nop discards all events.
type Nop struct{}

// Emit does nothing.
func (Nop) Emit(context.Context, types.TrackingEvent) {}
