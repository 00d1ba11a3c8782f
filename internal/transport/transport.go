// Package transport delivers composed notification messages to their
// recipients. Each implementation covers one outbound channel.
package transport

import (
	"context"
	"sync"

	apperrors "github.com/rxguard/rxguard/internal/errors"
)

// Transport sends a message body to a recipient address. Implementations
// must respect context cancellation; the dispatcher bounds every call with a
// timeout.
type Transport interface {
	Name() string
	Send(ctx context.Context, recipient, body string) error
}

// SentMessage records one delivery through the memory transport.
type SentMessage struct {
	Recipient string
	Body      string
}

// Memory is an in-process transport for tests and dry runs.
type Memory struct {
	mu       sync.Mutex
	sent     []SentMessage
	failNext bool
}

// NewMemory creates an in-memory transport.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Name() string {
	return "memory"
}

func (m *Memory) Send(ctx context.Context, recipient, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext {
		m.failNext = false
		return apperrors.ErrTransportFailure
	}

	m.sent = append(m.sent, SentMessage{Recipient: recipient, Body: body})
	return nil
}

// FailNext makes the next Send return a transport failure.
func (m *Memory) FailNext() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = true
}

// Sent returns a copy of everything delivered so far.
func (m *Memory) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}
