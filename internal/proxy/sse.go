package proxy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var errStreamingUnsupported = errors.New("response writer does not support flushing")

// SSEWriter writes server-sent events and flushes after every complete frame.
type SSEWriter struct {
	w       io.Writer
	flusher http.Flusher
	buf     bytes.Buffer
}

// NewSSEWriter commits a 200 event-stream response on w. No error response
// can be written once it returns successfully.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent writes the event name of the next frame. The frame is completed
// by WriteData.
func (s *SSEWriter) WriteEvent(name string) error {
	_, err := fmt.Fprintf(s.w, "event: %s\n", name)
	return err
}

// WriteData JSON-encodes v as the data line and ends the frame.
func (s *SSEWriter) WriteData(v any) error {
	s.buf.Reset()
	enc := json.NewEncoder(&s.buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}
	// Encode appends a newline; trim it so the frame ends with exactly one blank line.
	return s.WriteRaw(string(bytes.TrimRight(s.buf.Bytes(), "\n")))
}

// WriteRaw writes data verbatim as the data line and ends the frame.
func (s *SSEWriter) WriteRaw(data string) error {
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteNamed writes a complete named frame.
func (s *SSEWriter) WriteNamed(name string, v any) error {
	if err := s.WriteEvent(name); err != nil {
		return err
	}
	return s.WriteData(v)
}
