package converse

import "context"

// Gateway executes canonical requests against the inference backend.
//
// Each call makes exactly one backend attempt. Errors returned by a Gateway
// should be, or wrap, a *Failure so that Classify can map them.
type Gateway interface {
	// Invoke performs a non-streaming call.
	Invoke(ctx context.Context, req *Request) (*Response, error)

	// InvokeStreaming opens a streaming call. Handshake failures are returned
	// directly; failures after the stream is open are reported by EventStream.Err.
	InvokeStreaming(ctx context.Context, req *Request) (EventStream, error)
}
