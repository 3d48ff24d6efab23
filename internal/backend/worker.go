package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/tuiporal/internal/audit"
	"github.com/atomicstack/tuiporal/internal/logging"
	"github.com/atomicstack/tuiporal/internal/logging/events"
	"github.com/atomicstack/tuiporal/internal/remote"
)

const (
	DefaultPageSize        = 50
	DefaultHistoryPageSize = 100
	namespacePageSize      = 100
)

// Auditor records operator mutations.
type Auditor interface {
	RecordMutation(ctx context.Context, entry audit.Entry) error
}

// Options tunes a Worker.
type Options struct {
	PageSize        int
	HistoryPageSize int
	MinCallInterval time.Duration
	Profile         string
	Auditor         Auditor
}

// Worker executes commands one at a time against the remote capability and
// publishes exactly one result per command.
type Worker struct {
	commands *Queue[Envelope]
	results  *Queue[Result]
	dial     remote.Dialer
	opts     Options
	pacer    *throttle

	// Owned by the run goroutine.
	capability remote.Capability
	namespace  string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewWorker creates a stopped worker reading commands and writing results.
func NewWorker(commands *Queue[Envelope], results *Queue[Result], dial remote.Dialer, opts Options) *Worker {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.HistoryPageSize <= 0 {
		opts.HistoryPageSize = DefaultHistoryPageSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		commands: commands,
		results:  results,
		dial:     dial,
		opts:     opts,
		pacer:    newThrottle(opts.MinCallInterval),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the worker goroutine. Subsequent calls are no-ops.
func (w *Worker) Start() {
	w.once.Do(func() {
		w.wg.Add(1)
		go w.run()
	})
}

// Stop cancels the worker. The in-flight call is abandoned through its
// context; queued commands are answered with failures.
func (w *Worker) Stop() {
	w.cancel()
}

// Wait blocks until the worker goroutine has exited.
func (w *Worker) Wait() {
	w.wg.Wait()
}

// Run executes the worker on the calling goroutine until ctx ends or the
// command queue closes.
func (w *Worker) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, w.cancel)
	defer stop()
	w.Start()
	w.Wait()
	return nil
}

func (w *Worker) run() {
	defer w.wg.Done()
	events.Worker.Start(w.opts.Profile)
	defer func() {
		w.drain()
		if w.capability != nil {
			if err := w.capability.Close(); err != nil {
				logging.Error(fmt.Errorf("close connection: %w", err))
			}
			w.capability = nil
		}
		events.Worker.Stop()
	}()

	for {
		env, err := w.commands.Pop(w.ctx)
		if err != nil {
			return
		}
		if w.ctx.Err() != nil {
			w.results.Push(Failure(env, errWorkerStopped))
			return
		}
		w.results.Push(w.execute(env))
	}
}

// drain answers every command left after shutdown so none is dropped
// silently.
func (w *Worker) drain() {
	for _, env := range w.commands.Drain() {
		w.results.Push(Failure(env, errWorkerStopped))
	}
}

func (w *Worker) execute(env Envelope) (res Result) {
	started := time.Now()
	label := env.Command.Label()
	events.Worker.Call(env.Seq, label)
	defer func() {
		if r := recover(); r != nil {
			res = Failure(env, fmt.Errorf("internal error: %v", r))
		}
		err := ErrorOf(res)
		if err != nil {
			logging.Error(fmt.Errorf("%s: %w", label, err))
		}
		events.Worker.Done(env.Seq, label, time.Since(started), err)
	}()

	if err := w.pacer.wait(w.ctx); err != nil {
		return Failure(env, errWorkerStopped)
	}

	if _, ok := env.Command.(Connect); ok {
		return w.connect(env)
	}
	if w.capability == nil {
		return Failure(env, &remote.RequestError{Op: opName(env.Command), Target: target(env.Command), Err: remote.ErrNotConnected})
	}

	ack := Ack{Seq: env.Seq}
	switch cmd := env.Command.(type) {
	case RefreshList:
		return w.loadList(ack, cmd.Query, nil, Reload)
	case LoadPage:
		return w.loadList(ack, cmd.Query, cmd.Token, cmd.Direction)
	case ViewDetail:
		return w.viewDetail(ack, cmd)
	case LoadMoreEvents:
		return w.loadMoreEvents(ack, cmd)
	case RefreshNamespaces:
		return w.refreshNamespaces(ack)
	case SwitchNamespace:
		return w.switchNamespace(ack, cmd)
	case Mutate:
		return w.mutate(ack, cmd)
	default:
		return Failure(env, fmt.Errorf("unsupported command %T", env.Command))
	}
}

func (w *Worker) connect(env Envelope) Result {
	capability, namespace, err := w.dial(w.ctx)
	if err != nil {
		return ConnectFailed{Ack: Ack{Seq: env.Seq}, Err: err}
	}
	if w.capability != nil {
		if cerr := w.capability.Close(); cerr != nil {
			logging.Error(fmt.Errorf("close previous connection: %w", cerr))
		}
	}
	w.capability = capability
	if w.namespace == "" {
		w.namespace = namespace
	}
	return Connected{Ack: Ack{Seq: env.Seq}, Namespace: w.namespace}
}

func (w *Worker) loadList(ack Ack, query string, token []byte, dir Direction) Result {
	workflows, next, err := w.capability.ListPage(w.ctx, w.namespace, w.opts.PageSize, token, query)
	if err != nil {
		return ListFailed{Ack: ack, Query: query, Direction: dir, Err: &remote.RequestError{Op: "list workflows", Target: w.namespace, Err: err}}
	}
	return ListLoaded{Ack: ack, Query: query, Token: token, Direction: dir, Workflows: workflows, NextToken: next}
}

func (w *Worker) viewDetail(ack Ack, cmd ViewDetail) Result {
	workflow, found, lookupErr := w.capability.FindOne(w.ctx, w.namespace, workflowFilter(cmd.WorkflowID, cmd.RunID))
	if lookupErr != nil {
		logging.Error(&remote.RequestError{Op: "describe workflow", Target: cmd.WorkflowID, Err: lookupErr})
	}
	runID := cmd.RunID
	if found && runID == "" {
		runID = workflow.RunID
	}
	evts, next, err := w.capability.GetDetail(w.ctx, w.namespace, cmd.WorkflowID, runID, w.opts.HistoryPageSize, nil)
	if err != nil {
		return DetailFailed{Ack: ack, WorkflowID: cmd.WorkflowID, Err: &remote.RequestError{Op: "get history", Target: cmd.WorkflowID, Err: err}}
	}
	res := DetailLoaded{Ack: ack, Workflow: workflow, Events: evts, NextToken: next}
	if lookupErr != nil || !found {
		res.Workflow = remote.Placeholder(cmd.WorkflowID, cmd.RunID)
		res.MetadataMissing = true
	}
	return res
}

func (w *Worker) loadMoreEvents(ack Ack, cmd LoadMoreEvents) Result {
	evts, next, err := w.capability.GetDetail(w.ctx, w.namespace, cmd.WorkflowID, cmd.RunID, w.opts.HistoryPageSize, cmd.Token)
	if err != nil {
		return EventsFailed{Ack: ack, WorkflowID: cmd.WorkflowID, Err: &remote.RequestError{Op: "get history", Target: cmd.WorkflowID, Err: err}}
	}
	return EventsAppended{Ack: ack, WorkflowID: cmd.WorkflowID, Events: evts, NextToken: next}
}

func (w *Worker) refreshNamespaces(ack Ack) Result {
	namespaces, _, err := w.capability.ListNamespaces(w.ctx, namespacePageSize, nil)
	if err != nil {
		return NamespacesFailed{Ack: ack, Err: &remote.RequestError{Op: "list namespaces", Err: err}}
	}
	return NamespacesLoaded{Ack: ack, Namespaces: namespaces}
}

func (w *Worker) switchNamespace(ack Ack, cmd SwitchNamespace) Result {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return NamespaceSwitchFailed{Ack: ack, Name: cmd.Name, Err: &remote.ValidationError{Field: "namespace", Message: "namespace cannot be empty"}}
	}
	w.namespace = name
	return NamespaceSwitched{Ack: ack, Name: name}
}

func (w *Worker) mutate(ack Ack, cmd Mutate) Result {
	err := w.capability.Mutate(w.ctx, w.namespace, cmd.Mutation)
	w.recordMutation(cmd.Mutation, err)
	if err != nil {
		return MutationFailed{Ack: ack, Mutation: cmd.Mutation, Err: &remote.RequestError{Op: cmd.Mutation.Kind.String(), Target: cmd.Mutation.WorkflowID, Err: err}}
	}
	return MutationSucceeded{Ack: ack, Mutation: cmd.Mutation}
}

func (w *Worker) recordMutation(m remote.Mutation, err error) {
	if w.opts.Auditor == nil {
		return
	}
	entry := audit.Entry{
		Time:       time.Now(),
		Profile:    w.opts.Profile,
		Namespace:  w.namespace,
		Action:     m.Kind.String(),
		WorkflowID: m.WorkflowID,
		RunID:      m.RunID,
		Detail:     mutationDetail(m),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if aerr := w.opts.Auditor.RecordMutation(ctx, entry); aerr != nil && !errors.Is(aerr, context.Canceled) {
		logging.Error(fmt.Errorf("record audit entry: %w", aerr))
	}
}

func mutationDetail(m remote.Mutation) string {
	switch m.Kind {
	case remote.MutationTerminate:
		return m.Reason
	case remote.MutationSignal:
		return m.SignalName
	default:
		return ""
	}
}

func workflowFilter(id, runID string) string {
	filter := fmt.Sprintf("WorkflowId = '%s'", escapeQuery(id))
	if runID != "" {
		filter += fmt.Sprintf(" AND RunId = '%s'", escapeQuery(runID))
	}
	return filter
}

func escapeQuery(value string) string {
	return strings.ReplaceAll(value, "'", "\\'")
}

func opName(cmd Command) string {
	switch c := cmd.(type) {
	case RefreshList, LoadPage:
		return "list workflows"
	case ViewDetail, LoadMoreEvents:
		return "get history"
	case RefreshNamespaces:
		return "list namespaces"
	case SwitchNamespace:
		return "switch namespace"
	case Mutate:
		return c.Mutation.Kind.String()
	default:
		return cmd.Label()
	}
}

func target(cmd Command) string {
	switch c := cmd.(type) {
	case ViewDetail:
		return c.WorkflowID
	case LoadMoreEvents:
		return c.WorkflowID
	case SwitchNamespace:
		return c.Name
	case Mutate:
		return c.Mutation.WorkflowID
	default:
		return ""
	}
}
