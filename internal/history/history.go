// Package history keeps bounded snapshot stacks for undo and redo.
//
// Snapshots are whole-state copies supplied by the caller. Record is
// debounced by comparing against the time of the last accepted snapshot,
// so bursts of mutations (a drag resize) collapse into one entry.
package history

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

const (
	DefaultLimit    = 20
	DefaultDebounce = 500 * time.Millisecond
)

// Entry is one recorded snapshot
type Entry[S any] struct {
	State     S
	Action    string
	Timestamp time.Time
}

// Option configures a Manager
type Option func(*options)

type options struct {
	limit    int
	debounce time.Duration
	now      func() time.Time
}

// WithLimit caps the undo stack; values below 1 are ignored
func WithLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithDebounce sets the minimum gap between accepted snapshots
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Manager holds the undo stack (oldest first) and the redo list
// (next redo first)
type Manager[S any] struct {
	mu      sync.Mutex
	opts    options
	past    []Entry[S]
	future  []Entry[S]
	lastRec time.Time
}

// New creates a history manager
func New[S any](opts ...Option) *Manager[S] {
	o := options{limit: DefaultLimit, debounce: DefaultDebounce, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager[S]{opts: o}
}

// Record pushes state labelled action. It returns false when the call
// landed inside the debounce window and was dropped. An accepted record
// clears the redo list.
func (m *Manager[S]) Record(action string, state S) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.now()
	if !m.lastRec.IsZero() && now.Sub(m.lastRec) < m.opts.debounce {
		return false
	}

	m.past = append(m.past, Entry[S]{State: state, Action: action, Timestamp: now})
	if over := len(m.past) - m.opts.limit; over > 0 {
		m.past = append([]Entry[S](nil), m.past[over:]...)
	}
	m.future = nil
	m.lastRec = now
	return true
}

// Undo pops the newest snapshot and parks current at the front of the
// redo list. The returned entry holds the state to restore.
func (m *Manager[S]) Undo(current S) (Entry[S], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.past) == 0 {
		return Entry[S]{}, ErrNothingToUndo
	}

	last := m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]

	parked := Entry[S]{State: current, Action: last.Action, Timestamp: m.opts.now()}
	m.future = append([]Entry[S]{parked}, m.future...)
	return last, nil
}

// Redo takes the front of the redo list and pushes current onto the undo
// stack
func (m *Manager[S]) Redo(current S) (Entry[S], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.future) == 0 {
		return Entry[S]{}, ErrNothingToRedo
	}

	next := m.future[0]
	m.future = m.future[1:]

	m.past = append(m.past, Entry[S]{State: current, Action: next.Action, Timestamp: m.opts.now()})
	if over := len(m.past) - m.opts.limit; over > 0 {
		m.past = append([]Entry[S](nil), m.past[over:]...)
	}
	return next, nil
}

// Len is the undo depth
func (m *Manager[S]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.past)
}

// RedoLen is the redo depth
func (m *Manager[S]) RedoLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.future)
}

// Actions lists undo labels, oldest first
func (m *Manager[S]) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.past))
	for i, e := range m.past {
		out[i] = e.Action
	}
	return out
}

// Reset drops both stacks and the debounce reference
func (m *Manager[S]) Reset() {
	m.mu.Lock()
	m.past = nil
	m.future = nil
	m.lastRec = time.Time{}
	m.mu.Unlock()
}
