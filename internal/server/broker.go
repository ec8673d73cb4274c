package server

import (
	"sync"

	"github.com/jonathan/cv-generator/internal/pipeline"
)

// subscriberBuffer bounds each subscriber channel. A slow consumer drops
// events instead of stalling the generation run.
const subscriberBuffer = 16

// ProgressBroker fans generation progress events out to streaming
// subscribers. Publish is safe to hand to the orchestrator as its
// progress callback.
type ProgressBroker struct {
	mu   sync.Mutex
	subs map[chan pipeline.ProgressEvent]struct{}
}

// NewProgressBroker creates an empty broker.
func NewProgressBroker() *ProgressBroker {
	return &ProgressBroker{subs: make(map[chan pipeline.ProgressEvent]struct{})}
}

// Publish delivers the event to every current subscriber, dropping it
// for subscribers whose buffer is full.
func (b *ProgressBroker) Publish(event pipeline.ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its channel plus a
// cancel function that must be called when the subscriber is done.
func (b *ProgressBroker) Subscribe() (<-chan pipeline.ProgressEvent, func()) {
	ch := make(chan pipeline.ProgressEvent, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
	return ch, cancel
}
