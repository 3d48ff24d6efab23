package command

import (
	"sync/atomic"

	"github.com/atomicstack/tuiporal/internal/backend"
	"github.com/atomicstack/tuiporal/internal/logging/events"
)

// Sink accepts stamped commands for the worker.
type Sink interface {
	Push(backend.Envelope) bool
}

// Bus stamps commands with a monotonic sequence number and hands them to the
// worker queue.
type Bus struct {
	sink Sink
	seq  atomic.Uint64
}

// New initialises a command bus writing to sink.
func New(sink Sink) *Bus {
	return &Bus{sink: sink}
}

// Issue enqueues cmd and returns its sequence number. A command offered to a
// closed queue is dropped; the number is still consumed so callers can treat
// it like any other in-flight request.
func (b *Bus) Issue(cmd backend.Command) uint64 {
	seq := b.seq.Add(1)
	label := cmd.Label()
	if b.sink == nil || !b.sink.Push(backend.Envelope{Seq: seq, Command: cmd}) {
		events.Command.Dropped(seq, label)
		return seq
	}
	events.Command.Queue(seq, label)
	return seq
}

// Last returns the most recently issued sequence number.
func (b *Bus) Last() uint64 {
	return b.seq.Load()
}
