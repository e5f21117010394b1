package service

import (
	"context"
	"sync"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter — decouples the edit session from its observers
// ─────────────────────────────────────────────────────────────

// Events published by DocumentStore.
const (
	EventDocumentLoaded   = "document:loaded"
	EventDocumentChanged  = "document:changed"
	EventSelectionChanged = "selection:changed"
)

// EventEmitter is an interface for publishing session events.
// The preview server and the MCP layer implement it to re-render and
// re-sync focus; tests use MockEmitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// Emitters fans a single emission out to several observers.
type Emitters []EventEmitter

func (e Emitters) Emit(ctx context.Context, event string, data any) {
	for _, em := range e {
		if em != nil {
			em.Emit(ctx, event, data)
		}
	}
}

// NoopEmitter discards every event.
type NoopEmitter struct{}

func (NoopEmitter) Emit(_ context.Context, _ string, _ any) {}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Names returns the recorded event names in order.
func (m *MockEmitter) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.Events))
	for i, e := range m.Events {
		names[i] = e.Event
	}
	return names
}
