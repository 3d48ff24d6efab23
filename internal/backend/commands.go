package backend

import (
	"fmt"

	"github.com/atomicstack/tuiporal/internal/remote"
)

// Direction tells the list which way a page load moves.
type Direction int

const (
	Forward Direction = iota
	Backward
	Reload
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "reload"
	}
}

// Command is a request for the worker. Commands are immutable values.
type Command interface {
	Label() string
	command()
}

// Connect dials the active profile and replaces the current connection.
type Connect struct{}

// RefreshList loads the first page of workflows matching Query.
type RefreshList struct {
	Query string
}

// LoadPage loads the page identified by Token.
type LoadPage struct {
	Query     string
	Token     []byte
	Direction Direction
}

// ViewDetail loads metadata and the first page of history for a workflow.
type ViewDetail struct {
	WorkflowID string
	RunID      string
}

// LoadMoreEvents loads the next page of history for a workflow.
type LoadMoreEvents struct {
	WorkflowID string
	RunID      string
	Token      []byte
}

// RefreshNamespaces loads the namespace list.
type RefreshNamespaces struct{}

// SwitchNamespace makes Name the namespace for subsequent calls.
type SwitchNamespace struct {
	Name string
}

// Mutate terminates, cancels or signals a workflow.
type Mutate struct {
	Mutation remote.Mutation
}

func (Connect) command()           {}
func (RefreshList) command()       {}
func (LoadPage) command()          {}
func (ViewDetail) command()        {}
func (LoadMoreEvents) command()    {}
func (RefreshNamespaces) command() {}
func (SwitchNamespace) command()   {}
func (Mutate) command()            {}

func (Connect) Label() string { return "connect" }

func (c RefreshList) Label() string { return fmt.Sprintf("refresh-list %q", c.Query) }

func (c LoadPage) Label() string { return fmt.Sprintf("load-page %s %q", c.Direction, c.Query) }

func (c ViewDetail) Label() string { return "view-detail " + c.WorkflowID }

func (c LoadMoreEvents) Label() string { return "load-more-events " + c.WorkflowID }

func (RefreshNamespaces) Label() string { return "refresh-namespaces" }

func (c SwitchNamespace) Label() string { return "switch-namespace " + c.Name }

func (c Mutate) Label() string {
	return fmt.Sprintf("mutate %s %s", c.Mutation.Kind, c.Mutation.WorkflowID)
}

// Envelope pairs a command with the sequence number the bus assigned to it.
type Envelope struct {
	Seq     uint64
	Command Command
}
