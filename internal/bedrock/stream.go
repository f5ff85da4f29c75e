package bedrock

import (
	"context"
	"sync"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
)

// eventStream adapts an SDK event stream to converse.EventStream. A single
// producer goroutine (pump) reads SDK events, converts them and hands them to
// the consumer over an unbuffered channel, so events keep arrival order and
// the producer never runs ahead of the client.
type eventStream struct {
	src    eventSource
	events chan converse.StreamEvent
	cancel context.CancelFunc

	// err is written by pump before events is closed.
	err error

	closeOnce sync.Once
	closeErr  error
}

func newEventStream(src eventSource, cancel context.CancelFunc) *eventStream {
	return &eventStream{
		src:    src,
		events: make(chan converse.StreamEvent),
		cancel: cancel,
	}
}

func (s *eventStream) pump(ctx context.Context) {
	defer close(s.events)
	defer s.closeSource()

	in := s.src.Events()
	for {
		select {
		case <-ctx.Done():
			s.err = ctx.Err()
			return
		case ev, ok := <-in:
			if !ok {
				s.err = toFailure(s.src.Err())
				return
			}
			select {
			case s.events <- fromStreamEvent(ev):
			case <-ctx.Done():
				s.err = ctx.Err()
				return
			}
		}
	}
}

func (s *eventStream) closeSource() {
	s.closeOnce.Do(func() {
		s.closeErr = s.src.Close()
	})
}

// Events implements converse.EventStream.
func (s *eventStream) Events() <-chan converse.StreamEvent {
	return s.events
}

// Err implements converse.EventStream. Only valid after Events is closed.
func (s *eventStream) Err() error {
	return s.err
}

// Close implements converse.EventStream.
func (s *eventStream) Close() error {
	s.cancel()
	s.closeSource()
	return s.closeErr
}
