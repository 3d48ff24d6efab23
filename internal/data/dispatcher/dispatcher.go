// Package dispatcher applies worker results to the dashboard session and the
// per-screen view state.
package dispatcher

import (
	"fmt"
	"reflect"
	"time"

	"github.com/atomicstack/tuiporal/internal/backend"
	"github.com/atomicstack/tuiporal/internal/logging/events"
	"github.com/atomicstack/tuiporal/internal/remote"
	"github.com/atomicstack/tuiporal/internal/state"
	uistate "github.com/atomicstack/tuiporal/internal/ui/state"
)

// Views groups the state a result may touch.
type Views struct {
	Session    *state.Session
	Workflows  *uistate.WorkflowList
	Namespaces *uistate.NamespaceList
	Detail     *uistate.DetailView
}

// Outcome summarises how a result was applied.
type Outcome struct {
	Applied bool
	Info    string
	Err     string
}

type handler func(backend.Result) Outcome

// Dispatcher routes results to their handlers.
type Dispatcher struct {
	views    Views
	issue    uistate.Issue
	now      func() time.Time
	handlers map[reflect.Type]handler
}

// New creates a dispatcher. issue is used for follow-up commands such as the
// list reload after a namespace switch.
func New(views Views, issue uistate.Issue, now func() time.Time) *Dispatcher {
	if now == nil {
		now = time.Now
	}
	d := &Dispatcher{views: views, issue: issue, now: now}
	d.handlers = map[reflect.Type]handler{
		reflect.TypeOf(backend.Connected{}):             d.connected,
		reflect.TypeOf(backend.ConnectFailed{}):         d.connectFailed,
		reflect.TypeOf(backend.ListLoaded{}):            d.listLoaded,
		reflect.TypeOf(backend.ListFailed{}):            d.listFailed,
		reflect.TypeOf(backend.DetailLoaded{}):          d.detailLoaded,
		reflect.TypeOf(backend.DetailFailed{}):          d.detailFailed,
		reflect.TypeOf(backend.EventsAppended{}):        d.eventsAppended,
		reflect.TypeOf(backend.EventsFailed{}):          d.eventsFailed,
		reflect.TypeOf(backend.NamespacesLoaded{}):      d.namespacesLoaded,
		reflect.TypeOf(backend.NamespacesFailed{}):      d.namespacesFailed,
		reflect.TypeOf(backend.NamespaceSwitched{}):     d.namespaceSwitched,
		reflect.TypeOf(backend.NamespaceSwitchFailed{}): d.namespaceSwitchFailed,
		reflect.TypeOf(backend.MutationSucceeded{}):     d.mutation,
		reflect.TypeOf(backend.MutationFailed{}):        d.mutation,
	}
	return d
}

// Handle applies res and reports the outcome.
func (d *Dispatcher) Handle(res backend.Result) Outcome {
	if res == nil {
		return Outcome{}
	}
	msgType := fmt.Sprintf("%T", res)
	h, ok := d.handlers[reflect.TypeOf(res)]
	if !ok {
		events.Command.Result(res.Sequence(), msgType)
		return Outcome{}
	}
	out := h(res)
	if out.Applied {
		events.Command.Result(res.Sequence(), msgType)
	} else {
		events.Command.Stale(res.Sequence(), msgType)
	}
	return out
}

func (d *Dispatcher) connected(r backend.Result) Outcome {
	res := r.(backend.Connected)
	s := d.views.Session
	if err := s.Transition(state.Connected, ""); err != nil {
		return Outcome{Err: err.Error()}
	}
	if res.Namespace != "" {
		s.Namespace = res.Namespace
	}
	return Outcome{Applied: true, Info: fmt.Sprintf("Connected to %s", s.Address)}
}

func (d *Dispatcher) connectFailed(r backend.Result) Outcome {
	res := r.(backend.ConnectFailed)
	if err := d.views.Session.Transition(state.Errored, remote.Cause(res.Err)); err != nil {
		return Outcome{Err: err.Error()}
	}
	return Outcome{Applied: true, Err: fmt.Sprintf("Connection failed: %s", remote.Cause(res.Err))}
}

func (d *Dispatcher) listLoaded(r backend.Result) Outcome {
	res := r.(backend.ListLoaded)
	return Outcome{Applied: d.views.Workflows.ApplyLoaded(res, d.now())}
}

func (d *Dispatcher) listFailed(r backend.Result) Outcome {
	res := r.(backend.ListFailed)
	msg := fmt.Sprintf("Failed to load workflows: %s", remote.Cause(res.Err))
	return Outcome{Applied: d.views.Workflows.ApplyFailed(res, msg)}
}

func (d *Dispatcher) detailLoaded(r backend.Result) Outcome {
	res := r.(backend.DetailLoaded)
	out := Outcome{Applied: d.views.Detail.ApplyLoaded(res, d.now())}
	if out.Applied && res.MetadataMissing {
		out.Info = "Workflow metadata unavailable; showing history only"
	}
	return out
}

func (d *Dispatcher) detailFailed(r backend.Result) Outcome {
	res := r.(backend.DetailFailed)
	msg := fmt.Sprintf("Failed to load workflow details: %s", remote.Cause(res.Err))
	return Outcome{Applied: d.views.Detail.ApplyFailed(res, msg)}
}

func (d *Dispatcher) eventsAppended(r backend.Result) Outcome {
	res := r.(backend.EventsAppended)
	return Outcome{Applied: d.views.Detail.ApplyEventsAppended(res)}
}

func (d *Dispatcher) eventsFailed(r backend.Result) Outcome {
	res := r.(backend.EventsFailed)
	msg := fmt.Sprintf("Failed to load more events: %s", remote.Cause(res.Err))
	return Outcome{Applied: d.views.Detail.ApplyEventsFailed(res, msg)}
}

func (d *Dispatcher) namespacesLoaded(r backend.Result) Outcome {
	res := r.(backend.NamespacesLoaded)
	return Outcome{Applied: d.views.Namespaces.ApplyLoaded(res, d.views.Session.Namespace, d.now())}
}

func (d *Dispatcher) namespacesFailed(r backend.Result) Outcome {
	res := r.(backend.NamespacesFailed)
	msg := fmt.Sprintf("Failed to load namespaces: %s", remote.Cause(res.Err))
	return Outcome{Applied: d.views.Namespaces.ApplyFailed(res, msg)}
}

func (d *Dispatcher) namespaceSwitched(r backend.Result) Outcome {
	res := r.(backend.NamespaceSwitched)
	s := d.views.Session
	s.Namespace = res.Name
	s.SetScreen(state.ScreenWorkflows)
	d.views.Workflows.Reset(d.issue)
	return Outcome{Applied: true, Info: fmt.Sprintf("Switched to namespace %s", res.Name)}
}

func (d *Dispatcher) namespaceSwitchFailed(r backend.Result) Outcome {
	res := r.(backend.NamespaceSwitchFailed)
	return Outcome{Applied: true, Err: fmt.Sprintf("Failed to switch namespace: %s", remote.Cause(res.Err))}
}

func (d *Dispatcher) mutation(r backend.Result) Outcome {
	text, isErr, _ := uistate.MutationMessage(r)
	var m remote.Mutation
	switch res := r.(type) {
	case backend.MutationSucceeded:
		m = res.Mutation
		events.Action.Success(text)
	case backend.MutationFailed:
		m = res.Mutation
		events.Action.Error(res.Err)
	}
	if d.views.Detail.WorkflowID == m.WorkflowID && d.views.Session.Screen == state.ScreenDetail {
		d.views.Detail.ApplyMutation(r)
		return Outcome{Applied: true}
	}
	if isErr {
		return Outcome{Applied: true, Err: text}
	}
	return Outcome{Applied: true, Info: text}
}
