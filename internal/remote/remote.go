// Package remote describes the capability the dashboard consumes from the
// workflow service, independent of the transport that implements it.
package remote

import (
	"context"
	"time"
)

// Capability is the set of calls the worker issues against the service. Each
// call blocks until the service answers or the context expires.
type Capability interface {
	ListPage(ctx context.Context, namespace string, pageSize int, token []byte, query string) ([]Workflow, []byte, error)
	GetDetail(ctx context.Context, namespace, workflowID, runID string, pageSize int, token []byte) ([]Event, []byte, error)
	FindOne(ctx context.Context, namespace, filter string) (Workflow, bool, error)
	ListNamespaces(ctx context.Context, pageSize int, token []byte) ([]Namespace, []byte, error)
	Mutate(ctx context.Context, namespace string, m Mutation) error
	Close() error
}

// Dialer opens a capability for a connection profile.
type Dialer func(ctx context.Context) (Capability, string, error)

// Workflow is one execution as shown in the list and detail screens.
type Workflow struct {
	ID            string
	RunID         string
	Type          string
	Status        Status
	TaskQueue     string
	StartTime     time.Time
	CloseTime     time.Time
	HistoryLength int64
}

// Placeholder returns a record carrying only identity, used when metadata
// could not be resolved.
func Placeholder(id, runID string) Workflow {
	return Workflow{ID: id, RunID: runID, Type: "-", Status: StatusUnknown}
}

// Event is a single history entry.
type Event struct {
	ID         int64
	Time       time.Time
	Type       string
	Attributes []Attribute
	Raw        string
}

// Attribute is one flattened key/value pair from an event's attributes.
type Attribute struct {
	Key   string
	Value string
}

// Namespace describes a registered namespace.
type Namespace struct {
	Name        string
	Description string
	State       NamespaceState
	OwnerEmail  string
	ID          string
}

// MutationKind enumerates the operator actions that change a workflow.
type MutationKind int

const (
	MutationTerminate MutationKind = iota
	MutationCancel
	MutationSignal
)

func (k MutationKind) String() string {
	switch k {
	case MutationTerminate:
		return "terminate"
	case MutationCancel:
		return "cancel"
	case MutationSignal:
		return "signal"
	default:
		return "unknown"
	}
}

// Mutation is a single terminate/cancel/signal request.
type Mutation struct {
	Kind       MutationKind
	WorkflowID string
	RunID      string
	Reason     string
	SignalName string
}
