// Package timesource provides the wall clock read by the chess clocks.
// In production it wraps time.Now(). Tests inject a Mock and advance it.
package timesource

import (
	"sync"
	"time"
)

// Source returns the current instant
type Source interface {
	Now() time.Time
}

// System reads the real clock
type System struct{}

// Now returns time.Now()
func (System) Now() time.Time {
	return time.Now()
}

// Mock is a Source with manually controlled time. Safe for concurrent use.
type Mock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewMock creates a mock set to the given instant
func NewMock(start time.Time) *Mock {
	return &Mock{current: start}
}

// Now returns the mock time
func (m *Mock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Advance moves the mock forward by d
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}

// Set jumps the mock to t
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}
