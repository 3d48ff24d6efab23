package backend

import (
	"errors"

	"github.com/atomicstack/tuiporal/internal/remote"
)

var errWorkerStopped = errors.New("worker stopped")

// Result answers exactly one command.
type Result interface {
	Sequence() uint64
}

// Ack carries the sequence number of the command a result answers.
type Ack struct {
	Seq uint64
}

// Sequence implements Result.
func (a Ack) Sequence() uint64 { return a.Seq }

type Connected struct {
	Ack
	Namespace string
}

type ConnectFailed struct {
	Ack
	Err error
}

type ListLoaded struct {
	Ack
	Query     string
	Token     []byte
	Direction Direction
	Workflows []remote.Workflow
	NextToken []byte
}

type ListFailed struct {
	Ack
	Query     string
	Direction Direction
	Err       error
}

// DetailLoaded carries metadata and the first history page. MetadataMissing is
// set when Workflow is a placeholder because the lookup failed.
type DetailLoaded struct {
	Ack
	Workflow        remote.Workflow
	Events          []remote.Event
	NextToken       []byte
	MetadataMissing bool
}

type DetailFailed struct {
	Ack
	WorkflowID string
	Err        error
}

type EventsAppended struct {
	Ack
	WorkflowID string
	Events     []remote.Event
	NextToken  []byte
}

type EventsFailed struct {
	Ack
	WorkflowID string
	Err        error
}

type NamespacesLoaded struct {
	Ack
	Namespaces []remote.Namespace
}

type NamespacesFailed struct {
	Ack
	Err error
}

type NamespaceSwitched struct {
	Ack
	Name string
}

type NamespaceSwitchFailed struct {
	Ack
	Name string
	Err  error
}

type MutationSucceeded struct {
	Ack
	Mutation remote.Mutation
}

type MutationFailed struct {
	Ack
	Mutation remote.Mutation
	Err      error
}

// Failure builds the typed failure result matching env's command.
func Failure(env Envelope, err error) Result {
	ack := Ack{Seq: env.Seq}
	switch cmd := env.Command.(type) {
	case Connect:
		return ConnectFailed{Ack: ack, Err: err}
	case RefreshList:
		return ListFailed{Ack: ack, Query: cmd.Query, Direction: Reload, Err: err}
	case LoadPage:
		return ListFailed{Ack: ack, Query: cmd.Query, Direction: cmd.Direction, Err: err}
	case ViewDetail:
		return DetailFailed{Ack: ack, WorkflowID: cmd.WorkflowID, Err: err}
	case LoadMoreEvents:
		return EventsFailed{Ack: ack, WorkflowID: cmd.WorkflowID, Err: err}
	case RefreshNamespaces:
		return NamespacesFailed{Ack: ack, Err: err}
	case SwitchNamespace:
		return NamespaceSwitchFailed{Ack: ack, Name: cmd.Name, Err: err}
	case Mutate:
		return MutationFailed{Ack: ack, Mutation: cmd.Mutation, Err: err}
	default:
		return ConnectFailed{Ack: ack, Err: err}
	}
}

// ErrorOf returns the failure cause carried by r, or nil for success results.
func ErrorOf(r Result) error {
	switch res := r.(type) {
	case ConnectFailed:
		return res.Err
	case ListFailed:
		return res.Err
	case DetailFailed:
		return res.Err
	case EventsFailed:
		return res.Err
	case NamespacesFailed:
		return res.Err
	case NamespaceSwitchFailed:
		return res.Err
	case MutationFailed:
		return res.Err
	default:
		return nil
	}
}
