// Package testutil provides an in-memory remote capability for tests.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/atomicstack/tuiporal/internal/remote"
)

// Call records one invocation against the fake.
type Call struct {
	Op         string
	Namespace  string
	Query      string
	Token      string
	WorkflowID string
	RunID      string
	Mutation   remote.Mutation
}

// Page is a scripted list response keyed by query and token.
type Page struct {
	Workflows []remote.Workflow
	Next      string
	Err       error
}

// Remote is a scripted remote.Capability. Unscripted calls succeed with empty
// payloads. Gate, when set, is received from before every call returns so
// tests can hold the worker inside a call.
type Remote struct {
	mu sync.Mutex

	Pages      map[string]Page
	Lookups    map[string]remote.Workflow
	LookupErr  error
	History    map[string][]remote.Event
	HistoryErr error
	Namespaces []remote.Namespace
	NSErr      error
	MutateErr  error
	Gate       chan struct{}

	calls    []Call
	inFlight int
	maxSeen  int
	closed   bool
}

// NewRemote returns an empty fake.
func NewRemote() *Remote {
	return &Remote{
		Pages:   map[string]Page{},
		Lookups: map[string]remote.Workflow{},
		History: map[string][]remote.Event{},
	}
}

// PageKey builds the Pages key for a query and token.
func PageKey(query, token string) string {
	return query + "|" + token
}

// Dialer returns a dialer that hands out the fake with namespace.
func (r *Remote) Dialer(namespace string, err error) remote.Dialer {
	return func(ctx context.Context) (remote.Capability, string, error) {
		if err != nil {
			return nil, "", err
		}
		return r, namespace, nil
	}
}

// Calls returns a copy of the recorded calls.
func (r *Remote) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// MaxConcurrent reports the highest number of simultaneous calls observed.
func (r *Remote) MaxConcurrent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxSeen
}

// Closed reports whether Close was called.
func (r *Remote) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Remote) enter(ctx context.Context, call Call) error {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.inFlight++
	if r.inFlight > r.maxSeen {
		r.maxSeen = r.inFlight
	}
	gate := r.Gate
	r.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Remote) leave() {
	r.mu.Lock()
	r.inFlight--
	r.mu.Unlock()
}

func (r *Remote) ListPage(ctx context.Context, namespace string, pageSize int, token []byte, query string) ([]remote.Workflow, []byte, error) {
	defer r.leave()
	if err := r.enter(ctx, Call{Op: "ListPage", Namespace: namespace, Query: query, Token: string(token)}); err != nil {
		return nil, nil, err
	}
	r.mu.Lock()
	page, ok := r.Pages[PageKey(query, string(token))]
	r.mu.Unlock()
	if !ok {
		return nil, nil, nil
	}
	if page.Err != nil {
		return nil, nil, page.Err
	}
	var next []byte
	if page.Next != "" {
		next = []byte(page.Next)
	}
	return page.Workflows, next, nil
}

func (r *Remote) GetDetail(ctx context.Context, namespace, workflowID, runID string, pageSize int, token []byte) ([]remote.Event, []byte, error) {
	defer r.leave()
	if err := r.enter(ctx, Call{Op: "GetDetail", Namespace: namespace, WorkflowID: workflowID, RunID: runID, Token: string(token)}); err != nil {
		return nil, nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.HistoryErr != nil {
		return nil, nil, r.HistoryErr
	}
	return r.History[workflowID+"|"+string(token)], nil, nil
}

func (r *Remote) FindOne(ctx context.Context, namespace, filter string) (remote.Workflow, bool, error) {
	defer r.leave()
	if err := r.enter(ctx, Call{Op: "FindOne", Namespace: namespace, Query: filter}); err != nil {
		return remote.Workflow{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.LookupErr != nil {
		return remote.Workflow{}, false, r.LookupErr
	}
	wf, ok := r.Lookups[filter]
	return wf, ok, nil
}

func (r *Remote) ListNamespaces(ctx context.Context, pageSize int, token []byte) ([]remote.Namespace, []byte, error) {
	defer r.leave()
	if err := r.enter(ctx, Call{Op: "ListNamespaces", Token: string(token)}); err != nil {
		return nil, nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.NSErr != nil {
		return nil, nil, r.NSErr
	}
	return r.Namespaces, nil, nil
}

func (r *Remote) Mutate(ctx context.Context, namespace string, m remote.Mutation) error {
	defer r.leave()
	if err := r.enter(ctx, Call{Op: "Mutate", Namespace: namespace, WorkflowID: m.WorkflowID, RunID: m.RunID, Mutation: m}); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.MutateErr
}

func (r *Remote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Workflows builds n running workflows with ids prefix-0..prefix-(n-1).
func Workflows(prefix string, n int) []remote.Workflow {
	out := make([]remote.Workflow, n)
	for i := range out {
		out[i] = remote.Workflow{
			ID:     fmt.Sprintf("%s-%d", prefix, i),
			RunID:  fmt.Sprintf("run-%s-%d", prefix, i),
			Type:   "Order",
			Status: remote.StatusRunning,
		}
	}
	return out
}
