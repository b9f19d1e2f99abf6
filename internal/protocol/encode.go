// Package protocol implements the relay wire format: a text/event-stream of
// "data: <payload>" records separated by a blank line. A payload is either a
// JSON text fragment, a JSON error, or the literal [DONE] marker.
package protocol

import (
	"encoding/json"
	"fmt"
	"io"
)

// DoneMarker is the payload of the terminal success record.
const DoneMarker = "[DONE]"

type textPayload struct {
	Text string `json:"text"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// Encoder writes relay records to an underlying writer, flushing after each
// record when the writer supports it.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteText writes one fragment record.
func (e *Encoder) WriteText(text string) error {
	return e.writeJSON(textPayload{Text: text})
}

// WriteDone writes the terminal success record.
func (e *Encoder) WriteDone() error {
	return e.writeRecord([]byte(DoneMarker))
}

// WriteError writes the terminal failure record.
func (e *Encoder) WriteError(message string) error {
	return e.writeJSON(errorPayload{Error: message})
}

func (e *Encoder) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return e.writeRecord(data)
}

// writeRecord returns an error only when the writer fails, which for an HTTP
// response means the reader has gone away.
func (e *Encoder) writeRecord(payload []byte) error {
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	if f, ok := e.w.(interface{ Flush() }); ok {
		f.Flush()
	}
	return nil
}
