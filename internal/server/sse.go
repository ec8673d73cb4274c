package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// eventStream writes Server-Sent Events for a single /generate/stream
// request. Every event carries a JSON payload and is flushed
// immediately so clients see pipeline progress as it happens.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newEventStream(w http.ResponseWriter) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("streaming not supported")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")

	return &eventStream{w: w, flusher: flusher}, nil
}

// send emits one named event with data serialized as JSON.
func (es *eventStream) send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(es.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	es.flusher.Flush()
	return nil
}

// fail reports a pipeline failure to the client.
func (es *eventStream) fail(message string) {
	es.send("error", map[string]string{"error": message}) //nolint:errcheck
}

// complete closes the stream with the finished run's ID.
func (es *eventStream) complete(runID, status string) {
	es.send("complete", map[string]string{ //nolint:errcheck
		"run_id": runID,
		"status": status,
	})
}
