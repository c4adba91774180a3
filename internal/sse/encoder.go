package sse

import (
	"encoding/json"
	"fmt"
	"net/http"

	"lovelace/backend/internal/model"
)

// DoneSentinel is the literal payload of the terminal frame every stream
// ends with, success or failure.
const DoneSentinel = "[DONE]"

// Encoder frames stream events onto an HTTP response as Server-Sent
// Events. Each content delta becomes one `data: <json>` frame; a gateway
// failure becomes exactly one error frame; the terminal `data: [DONE]`
// frame is written exactly once regardless of outcome. Frames are written
// and flushed in the order events are produced, so a slow reader
// backpressures the producer through the shared loop.
type Encoder struct {
	w       http.ResponseWriter
	flusher http.Flusher
	done    bool
}

func NewEncoder(w http.ResponseWriter) *Encoder {
	flusher, _ := w.(http.Flusher)
	return &Encoder{w: w, flusher: flusher}
}

// WriteHeaders sets the event-stream response headers. Must be called
// before the first frame.
func (e *Encoder) WriteHeaders() {
	e.w.Header().Set("Content-Type", "text/event-stream")
	e.w.Header().Set("Cache-Control", "no-cache")
	e.w.Header().Set("Connection", "keep-alive")
}

// WriteContent frames a single content delta. A write failure is a strong
// indicator the client has disconnected.
func (e *Encoder) WriteContent(delta string) error {
	return e.writeJSON(model.StreamEvent{Content: delta})
}

// WriteError frames a stream error. The caller is still responsible for
// terminating the stream with WriteDone afterwards.
func (e *Encoder) WriteError(message, code string) error {
	return e.writeJSON(model.StreamEvent{Error: true, Message: message, Code: code})
}

// WriteDone writes the terminal sentinel frame. Repeated calls are no-ops
// so the encoder upholds the exactly-once guarantee even when both a
// normal path and a deferred cleanup path reach it.
func (e *Encoder) WriteDone() error {
	if e.done {
		return nil
	}
	e.done = true
	return e.writeFrame([]byte(DoneSentinel))
}

func (e *Encoder) writeJSON(event model.StreamEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal stream event: %w", err)
	}
	return e.writeFrame(payload)
}

func (e *Encoder) writeFrame(payload []byte) error {
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("failed to write data to stream: %w", err)
	}
	if e.flusher != nil {
		e.flusher.Flush()
	}
	return nil
}
