// Package state holds the per-screen view state of the dashboard and the
// transitions applied to it by keystrokes and worker results.
package state

import (
	"time"

	"github.com/atomicstack/tuiporal/internal/backend"
)

// Issue enqueues a command and returns the sequence number assigned to it.
type Issue func(backend.Command) uint64

// Slot tracks which command owns a piece of state. Results older than the
// latest applied one are rejected; only the latest issued command clears the
// loading flag.
type Slot struct {
	Issued  uint64
	Applied uint64
}

// Issue records a new owning command.
func (s *Slot) Issue(seq uint64) {
	if seq > s.Issued {
		s.Issued = seq
	}
}

// Accept reports whether a result for seq may be applied and records it.
func (s *Slot) Accept(seq uint64) bool {
	if seq < s.Applied {
		return false
	}
	s.Applied = seq
	return true
}

// Owns reports whether seq answers the latest issued command.
func (s *Slot) Owns(seq uint64) bool {
	return seq >= s.Issued
}

// AutoRefresh is the per-list refresh timer.
type AutoRefresh struct {
	Enabled  bool
	Interval time.Duration
}

// List is the state shared by listing screens.
type List[T any] struct {
	Items           []T
	Cursor          int
	ViewportOffset  int
	Loading         bool
	Err             string
	LastRefreshedAt time.Time
	Auto            AutoRefresh

	slot Slot
}

// NewList returns an empty list with no selection.
func NewList[T any]() List[T] {
	return List[T]{Cursor: -1}
}

// Selected returns the item under the cursor.
func (l *List[T]) Selected() (T, bool) {
	var zero T
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return zero, false
	}
	return l.Items[l.Cursor], true
}

// HasSelection reports whether an item is selected.
func (l *List[T]) HasSelection() bool {
	return l.Cursor >= 0 && l.Cursor < len(l.Items)
}

// Begin marks the list as loading on behalf of seq.
func (l *List[T]) Begin(seq uint64) {
	l.slot.Issue(seq)
	l.Loading = true
}

// Replace installs a successful result. It reports false when the result is
// older than what is already shown.
func (l *List[T]) Replace(seq uint64, items []T, now time.Time) bool {
	if !l.slot.Accept(seq) {
		return false
	}
	l.Items = items
	l.Err = ""
	l.LastRefreshedAt = now
	if len(items) == 0 {
		l.Cursor = -1
	} else {
		l.Cursor = 0
	}
	l.ViewportOffset = 0
	if l.slot.Owns(seq) {
		l.Loading = false
	}
	return true
}

// Fail records a failed result; items are left untouched.
func (l *List[T]) Fail(seq uint64, message string) bool {
	if !l.slot.Accept(seq) {
		return false
	}
	l.Err = message
	if l.slot.Owns(seq) {
		l.Loading = false
	}
	return true
}

// Owns reports whether seq is the latest command issued for the list.
func (l *List[T]) Owns(seq uint64) bool {
	return l.slot.Owns(seq)
}

// RefreshDue reports whether the auto-refresh timer has fired.
func (l *List[T]) RefreshDue(now time.Time) bool {
	if !l.Auto.Enabled || l.Loading {
		return false
	}
	if l.LastRefreshedAt.IsZero() {
		return true
	}
	return now.Sub(l.LastRefreshedAt) >= l.Auto.Interval
}

// ToggleAutoRefresh flips the timer and returns the new setting.
func (l *List[T]) ToggleAutoRefresh() bool {
	l.Auto.Enabled = !l.Auto.Enabled
	return l.Auto.Enabled
}
