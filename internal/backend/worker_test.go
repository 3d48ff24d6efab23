package backend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/tuiporal/internal/audit"
	"github.com/atomicstack/tuiporal/internal/remote"
	"github.com/atomicstack/tuiporal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAuditor struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordingAuditor) RecordMutation(ctx context.Context, e audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

type harness struct {
	commands *Queue[Envelope]
	results  *Queue[Result]
	worker   *Worker
	fake     *testutil.Remote
	seq      uint64
}

func newHarness(t *testing.T, fake *testutil.Remote, dialErr error, opts Options) *harness {
	t.Helper()
	h := &harness{
		commands: NewQueue[Envelope](),
		results:  NewQueue[Result](),
		fake:     fake,
	}
	h.worker = NewWorker(h.commands, h.results, fake.Dialer("default", dialErr), opts)
	h.worker.Start()
	t.Cleanup(func() {
		h.worker.Stop()
		h.worker.Wait()
	})
	return h
}

func (h *harness) send(cmds ...Command) {
	for _, cmd := range cmds {
		h.seq++
		h.commands.Push(Envelope{Seq: h.seq, Command: cmd})
	}
}

func (h *harness) next(t *testing.T) Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := h.results.Pop(ctx)
	require.NoError(t, err)
	return res
}

func TestWorkerAnswersEveryCommandInOrder(t *testing.T) {
	fake := testutil.NewRemote()
	fake.Pages[testutil.PageKey("", "")] = testutil.Page{Workflows: testutil.Workflows("wf", 3), Next: "p2"}
	fake.Namespaces = []remote.Namespace{{Name: "default"}, {Name: "orders"}}
	h := newHarness(t, fake, nil, Options{})

	h.send(Connect{}, RefreshList{}, RefreshNamespaces{}, SwitchNamespace{Name: "orders"}, RefreshList{Query: "x"})

	connected, ok := h.next(t).(Connected)
	require.True(t, ok)
	assert.Equal(t, uint64(1), connected.Seq)
	assert.Equal(t, "default", connected.Namespace)

	list, ok := h.next(t).(ListLoaded)
	require.True(t, ok)
	assert.Equal(t, uint64(2), list.Seq)
	assert.Len(t, list.Workflows, 3)
	assert.Equal(t, []byte("p2"), list.NextToken)

	ns, ok := h.next(t).(NamespacesLoaded)
	require.True(t, ok)
	assert.Len(t, ns.Namespaces, 2)

	switched, ok := h.next(t).(NamespaceSwitched)
	require.True(t, ok)
	assert.Equal(t, "orders", switched.Name)

	_, ok = h.next(t).(ListLoaded)
	require.True(t, ok)

	calls := fake.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "default", calls[0].Namespace)
	assert.Equal(t, "orders", calls[2].Namespace)
	assert.Equal(t, "x", calls[2].Query)
}

func TestWorkerFailsCommandsBeforeConnect(t *testing.T) {
	h := newHarness(t, testutil.NewRemote(), nil, Options{})
	h.send(RefreshList{Query: "q"}, ViewDetail{WorkflowID: "wf-1"})

	failed, ok := h.next(t).(ListFailed)
	require.True(t, ok)
	assert.ErrorIs(t, failed.Err, remote.ErrNotConnected)
	assert.Equal(t, "q", failed.Query)

	detail, ok := h.next(t).(DetailFailed)
	require.True(t, ok)
	assert.Equal(t, "wf-1", detail.WorkflowID)
	assert.ErrorIs(t, detail.Err, remote.ErrNotConnected)
}

func TestWorkerConnectFailure(t *testing.T) {
	dialErr := &remote.ConnectionError{Address: "localhost:7233", Err: errors.New("refused")}
	h := newHarness(t, testutil.NewRemote(), dialErr, Options{})
	h.send(Connect{})

	failed, ok := h.next(t).(ConnectFailed)
	require.True(t, ok)
	var connErr *remote.ConnectionError
	assert.True(t, errors.As(failed.Err, &connErr))
}

func TestWorkerNeverRunsTwoCallsAtOnce(t *testing.T) {
	fake := testutil.NewRemote()
	fake.Gate = make(chan struct{})
	h := newHarness(t, fake, nil, Options{})
	h.send(Connect{})
	_, ok := h.next(t).(Connected)
	require.True(t, ok)

	h.send(RefreshList{Query: "a"}, RefreshList{Query: "b"}, RefreshNamespaces{})
	for i := 0; i < 3; i++ {
		time.Sleep(5 * time.Millisecond)
		fake.Gate <- struct{}{}
		h.next(t)
	}
	assert.Equal(t, 1, fake.MaxConcurrent())
}

func TestWorkerViewDetailUsesPlaceholderWhenLookupFails(t *testing.T) {
	fake := testutil.NewRemote()
	fake.LookupErr = errors.New("visibility unavailable")
	fake.History["wf-1|"] = []remote.Event{{ID: 1, Type: "WorkflowExecutionStarted"}}
	h := newHarness(t, fake, nil, Options{})
	h.send(Connect{}, ViewDetail{WorkflowID: "wf-1", RunID: "r1"})
	h.next(t)

	detail, ok := h.next(t).(DetailLoaded)
	require.True(t, ok)
	assert.True(t, detail.MetadataMissing)
	assert.Equal(t, "wf-1", detail.Workflow.ID)
	assert.Equal(t, "r1", detail.Workflow.RunID)
	assert.Equal(t, remote.StatusUnknown, detail.Workflow.Status)
	require.Len(t, detail.Events, 1)
}

func TestWorkerViewDetailResolvesRunFromLookup(t *testing.T) {
	fake := testutil.NewRemote()
	fake.Lookups["WorkflowId = 'wf-1'"] = remote.Workflow{ID: "wf-1", RunID: "r9", Status: remote.StatusCompleted}
	h := newHarness(t, fake, nil, Options{})
	h.send(Connect{}, ViewDetail{WorkflowID: "wf-1"})
	h.next(t)

	detail, ok := h.next(t).(DetailLoaded)
	require.True(t, ok)
	assert.False(t, detail.MetadataMissing)
	assert.Equal(t, remote.StatusCompleted, detail.Workflow.Status)

	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "GetDetail", calls[1].Op)
	assert.Equal(t, "r9", calls[1].RunID)
}

func TestWorkerViewDetailHistoryFailure(t *testing.T) {
	fake := testutil.NewRemote()
	fake.HistoryErr = errors.New("not found")
	h := newHarness(t, fake, nil, Options{})
	h.send(Connect{}, ViewDetail{WorkflowID: "wf-1"})
	h.next(t)

	failed, ok := h.next(t).(DetailFailed)
	require.True(t, ok)
	assert.Equal(t, "not found", remote.Cause(failed.Err))
}

func TestWorkerMutationsAreAudited(t *testing.T) {
	fake := testutil.NewRemote()
	auditor := &recordingAuditor{}
	h := newHarness(t, fake, nil, Options{Auditor: auditor, Profile: "local"})
	m := remote.Mutation{Kind: remote.MutationSignal, WorkflowID: "wf-1", RunID: "r1", SignalName: "wake"}
	h.send(Connect{}, Mutate{Mutation: m})
	h.next(t)

	ok, isOK := h.next(t).(MutationSucceeded)
	require.True(t, isOK)
	assert.Equal(t, m, ok.Mutation)

	fake.MutateErr = errors.New("denied")
	h.send(Mutate{Mutation: m})
	failed, isFailed := h.next(t).(MutationFailed)
	require.True(t, isFailed)
	assert.Equal(t, "denied", remote.Cause(failed.Err))

	auditor.mu.Lock()
	defer auditor.mu.Unlock()
	require.Len(t, auditor.entries, 2)
	assert.Equal(t, "signal", auditor.entries[0].Action)
	assert.Equal(t, "wake", auditor.entries[0].Detail)
	assert.Equal(t, "local", auditor.entries[0].Profile)
	assert.Equal(t, "denied", auditor.entries[1].Error)
}

func TestWorkerStopAnswersQueuedCommands(t *testing.T) {
	fake := testutil.NewRemote()
	fake.Gate = make(chan struct{})
	h := newHarness(t, fake, nil, Options{})
	h.send(Connect{})
	h.next(t)

	h.send(RefreshList{}, RefreshNamespaces{}, ViewDetail{WorkflowID: "wf"})
	time.Sleep(10 * time.Millisecond)
	h.worker.Stop()
	h.worker.Wait()

	_, ok := h.next(t).(ListFailed)
	assert.True(t, ok)
	_, ok = h.next(t).(NamespacesFailed)
	assert.True(t, ok)
	_, ok = h.next(t).(DetailFailed)
	assert.True(t, ok)
	assert.True(t, fake.Closed())
}

func TestWorkerRunStopsWithContext(t *testing.T) {
	commands := NewQueue[Envelope]()
	results := NewQueue[Result]()
	w := NewWorker(commands, results, testutil.NewRemote().Dialer("default", nil), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestSwitchNamespaceRejectsEmptyName(t *testing.T) {
	h := newHarness(t, testutil.NewRemote(), nil, Options{})
	h.send(Connect{}, SwitchNamespace{Name: "  "})
	h.next(t)
	failed, ok := h.next(t).(NamespaceSwitchFailed)
	require.True(t, ok)
	var vErr *remote.ValidationError
	assert.True(t, errors.As(failed.Err, &vErr))
}

func TestThrottleWaitHonoursContext(t *testing.T) {
	th := newThrottle(time.Hour)
	require.NoError(t, th.wait(context.Background()))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, th.wait(ctx), context.DeadlineExceeded)
	assert.NoError(t, (*throttle)(nil).wait(context.Background()))
}
