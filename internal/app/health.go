package app

import (
	"sync/atomic"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/proxy"
)

// Health tracks readiness for the health endpoints. It is safe for concurrent use.
type Health struct {
	ready atomic.Bool
}

var _ proxy.ReadinessChecker = (*Health)(nil)

// NewHealth returns a Health that is not ready.
func NewHealth() *Health {
	return &Health{}
}

// SetReady updates readiness.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports readiness.
func (h *Health) IsReady() bool {
	return h.ready.Load()
}
