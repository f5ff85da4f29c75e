// Package conversetest provides an in-memory converse.Gateway for tests.
package conversetest

import (
	"context"
	"sync"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
)

// Gateway is a scripted converse.Gateway. It records every request it receives.
type Gateway struct {
	// Response and InvokeErr are returned by Invoke.
	Response  *converse.Response
	InvokeErr error

	// Events are replayed by InvokeStreaming. StreamErr is reported after
	// the events; HandshakeErr fails InvokeStreaming itself.
	Events       []converse.StreamEvent
	StreamErr    error
	HandshakeErr error

	mu       sync.Mutex
	requests []*converse.Request
	streams  []*Stream
}

var _ converse.Gateway = (*Gateway)(nil)

// Invoke implements converse.Gateway.
func (g *Gateway) Invoke(_ context.Context, req *converse.Request) (*converse.Response, error) {
	g.record(req)
	if g.InvokeErr != nil {
		return nil, g.InvokeErr
	}
	return g.Response, nil
}

// InvokeStreaming implements converse.Gateway.
func (g *Gateway) InvokeStreaming(ctx context.Context, req *converse.Request) (converse.EventStream, error) {
	g.record(req)
	if g.HandshakeErr != nil {
		return nil, g.HandshakeErr
	}
	s := NewStream(ctx, g.Events, g.StreamErr)
	g.mu.Lock()
	g.streams = append(g.streams, s)
	g.mu.Unlock()
	return s, nil
}

func (g *Gateway) record(req *converse.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
}

// Requests returns the requests received so far.
func (g *Gateway) Requests() []*converse.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*converse.Request(nil), g.requests...)
}

// LastRequest returns the most recent request, or nil.
func (g *Gateway) LastRequest() *converse.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.requests) == 0 {
		return nil
	}
	return g.requests[len(g.requests)-1]
}

// Streams returns the streams opened so far.
func (g *Gateway) Streams() []*Stream {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Stream(nil), g.streams...)
}

// Stream replays a fixed list of events.
type Stream struct {
	events chan converse.StreamEvent
	done   chan struct{}
	err    error

	closeOnce sync.Once
	mu        sync.Mutex
	closed    bool
	finalErr  error
}

var _ converse.EventStream = (*Stream)(nil)

// NewStream starts replaying events. err is reported by Err once all events
// have been consumed.
func NewStream(ctx context.Context, events []converse.StreamEvent, err error) *Stream {
	s := &Stream{
		events: make(chan converse.StreamEvent),
		done:   make(chan struct{}),
		err:    err,
	}
	go func() {
		defer close(s.events)
		for _, ev := range events {
			select {
			case s.events <- ev:
			case <-s.done:
				return
			case <-ctx.Done():
				s.setErr(ctx.Err())
				return
			}
		}
		s.setErr(s.err)
	}()
	return s
}

func (s *Stream) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalErr = err
}

// Events implements converse.EventStream.
func (s *Stream) Events() <-chan converse.StreamEvent { return s.events }

// Err implements converse.EventStream.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalErr
}

// Close implements converse.EventStream.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.done)
	})
	return nil
}

// Closed reports whether Close was called.
func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
