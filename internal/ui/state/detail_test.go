package state

import (
	"errors"
	"testing"

	"github.com/atomicstack/tuiporal/internal/backend"
	"github.com/atomicstack/tuiporal/internal/remote"
)

func openDetail(t *testing.T, rec *recorder) *DetailView {
	t.Helper()
	d := NewDetailView()
	d.Open("wf-1", "", rec.issue)
	ok := d.ApplyLoaded(backend.DetailLoaded{
		Ack:       backend.Ack{Seq: rec.seq},
		Workflow:  remote.Workflow{ID: "wf-1", RunID: "run-1", Status: remote.StatusRunning},
		Events:    []remote.Event{{ID: 1, Type: "WorkflowExecutionStarted"}, {ID: 2, Type: "WorkflowTaskScheduled"}},
		NextToken: []byte("more"),
	}, testNow)
	if !ok {
		t.Fatalf("expected detail applied")
	}
	return d
}

func TestDetailOpenIssuesViewDetail(t *testing.T) {
	rec := &recorder{}
	d := NewDetailView()
	d.Open("wf-1", "run-1", rec.issue)
	cmd, ok := rec.last().(backend.ViewDetail)
	if !ok || cmd.WorkflowID != "wf-1" || cmd.RunID != "run-1" {
		t.Fatalf("unexpected command %#v", rec.last())
	}
	if !d.Loading() || d.Subject != nil {
		t.Fatalf("expected loading with no subject")
	}
}

func TestDetailDiscardsOtherWorkflow(t *testing.T) {
	rec := &recorder{}
	d := NewDetailView()
	d.Open("wf-1", "", rec.issue)
	first := rec.seq
	d.Open("wf-2", "", rec.issue)
	if d.ApplyLoaded(backend.DetailLoaded{Ack: backend.Ack{Seq: first}, Workflow: remote.Workflow{ID: "wf-1"}}, testNow) {
		t.Fatalf("expected result for previous workflow discarded")
	}
	if d.ApplyFailed(backend.DetailFailed{Ack: backend.Ack{Seq: first}, WorkflowID: "wf-1", Err: errors.New("x")}, "x") {
		t.Fatalf("expected failure for previous workflow discarded")
	}
	if !d.Loading() {
		t.Fatalf("expected still loading wf-2")
	}
}

func TestDetailPlaceholderMetadata(t *testing.T) {
	rec := &recorder{}
	d := NewDetailView()
	d.Open("wf-1", "r", rec.issue)
	d.ApplyLoaded(backend.DetailLoaded{
		Ack:             backend.Ack{Seq: rec.seq},
		Workflow:        remote.Placeholder("wf-1", "r"),
		Events:          []remote.Event{{ID: 1}},
		MetadataMissing: true,
	}, testNow)
	if d.Subject == nil || !d.MetadataMissing || len(d.Events.Items) != 1 {
		t.Fatalf("expected events with placeholder subject, got %#v", d)
	}
}

func TestDetailFailureClearsSubject(t *testing.T) {
	rec := &recorder{}
	d := openDetail(t, rec)
	d.Reload(rec.issue)
	d.ApplyFailed(backend.DetailFailed{Ack: backend.Ack{Seq: rec.seq}, WorkflowID: "wf-1", Err: errors.New("gone")}, "Failed to load workflow details: gone")
	if d.Subject != nil || d.Loading() || d.Events.Err == "" {
		t.Fatalf("unexpected state after failure: subject=%v loading=%v err=%q", d.Subject, d.Loading(), d.Events.Err)
	}
	if d.OpenDialog(remote.MutationTerminate) {
		t.Fatalf("dialog must not open without a subject")
	}
}

func TestDetailLoadMoreAppends(t *testing.T) {
	rec := &recorder{}
	d := openDetail(t, rec)
	d.Events.Cursor = 1
	if !d.LoadMore(rec.issue) {
		t.Fatalf("expected load more")
	}
	if d.LoadMore(rec.issue) {
		t.Fatalf("expected single load more in flight")
	}
	cmd, ok := rec.last().(backend.LoadMoreEvents)
	if !ok || string(cmd.Token) != "more" || cmd.RunID != "run-1" {
		t.Fatalf("unexpected command %#v", rec.last())
	}
	before := d.Events.Items
	d.ApplyEventsAppended(backend.EventsAppended{Ack: backend.Ack{Seq: rec.seq}, WorkflowID: "wf-1", Events: []remote.Event{{ID: 3}}})
	if len(d.Events.Items) != 3 || d.Events.Items[2].ID != 3 {
		t.Fatalf("expected appended event, got %#v", d.Events.Items)
	}
	if before[0].ID != 1 || len(before) != 2 {
		t.Fatalf("earlier events mutated")
	}
	if d.Events.Cursor != 1 || d.LoadingMore || len(d.NextToken) != 0 {
		t.Fatalf("unexpected state cursor=%d loadingMore=%v", d.Events.Cursor, d.LoadingMore)
	}
	if d.LoadMore(rec.issue) {
		t.Fatalf("expected no load more without token")
	}
}

func TestTerminateDialogDefaultReason(t *testing.T) {
	rec := &recorder{}
	d := openDetail(t, rec)
	if !d.OpenDialog(remote.MutationTerminate) {
		t.Fatalf("expected dialog")
	}
	if d.OpenDialog(remote.MutationCancel) {
		t.Fatalf("expected second dialog rejected")
	}
	if err := d.ConfirmDialog(rec.issue); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	cmd, ok := rec.last().(backend.Mutate)
	if !ok {
		t.Fatalf("expected mutate, got %#v", rec.last())
	}
	want := remote.Mutation{Kind: remote.MutationTerminate, WorkflowID: "wf-1", RunID: "run-1", Reason: "Terminated by user"}
	if cmd.Mutation != want {
		t.Fatalf("expected %#v, got %#v", want, cmd.Mutation)
	}
	if d.Dialog != nil {
		t.Fatalf("expected dialog closed on confirm")
	}
}

func TestEmptySignalNeverMutates(t *testing.T) {
	rec := &recorder{}
	d := openDetail(t, rec)
	before := len(rec.cmds)
	d.OpenDialog(remote.MutationSignal)
	d.Dialog.Input.Insert("   ")
	err := d.ConfirmDialog(rec.issue)
	var vErr *remote.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(rec.cmds) != before {
		t.Fatalf("expected no command, got %#v", rec.last())
	}
	if d.Dialog != nil || d.Banner == nil || !d.Banner.IsError || d.Banner.Text != "Signal name cannot be empty" {
		t.Fatalf("unexpected state dialog=%v banner=%v", d.Dialog, d.Banner)
	}
}

func TestSignalAndBanner(t *testing.T) {
	rec := &recorder{}
	d := openDetail(t, rec)
	d.OpenDialog(remote.MutationSignal)
	d.Dialog.Input.Insert("wake")
	if err := d.ConfirmDialog(rec.issue); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	cmd := rec.last().(backend.Mutate)
	d.ApplyMutation(backend.MutationSucceeded{Ack: backend.Ack{Seq: rec.seq}, Mutation: cmd.Mutation})
	if d.Banner == nil || d.Banner.Text != "Signal 'wake' sent to workflow wf-1 successfully" || d.Banner.IsError {
		t.Fatalf("unexpected banner %#v", d.Banner)
	}
	if !d.DismissBanner() || d.DismissBanner() {
		t.Fatalf("expected banner dismissed exactly once")
	}

	d.ApplyMutation(backend.MutationFailed{Mutation: remote.Mutation{Kind: remote.MutationCancel}, Err: &remote.RequestError{Op: "cancel", Err: errors.New("denied")}})
	if d.Banner == nil || d.Banner.Text != "Failed to cancel workflow: denied" || !d.Banner.IsError {
		t.Fatalf("unexpected banner %#v", d.Banner)
	}
}

func TestOverlayScroll(t *testing.T) {
	rec := &recorder{}
	d := openDetail(t, rec)
	d.Events.Cursor = 1
	if !d.OpenOverlay() {
		t.Fatalf("expected overlay")
	}
	if d.OpenDialog(remote.MutationCancel) {
		t.Fatalf("dialog must not open over the overlay")
	}
	evt, ok := d.OverlayEvent()
	if !ok || evt.ID != 2 {
		t.Fatalf("expected second event, got %#v", evt)
	}
	d.ScrollOverlay(10, 4)
	if d.Overlay.Scroll != 4 {
		t.Fatalf("expected clamp to 4, got %d", d.Overlay.Scroll)
	}
	d.ScrollOverlay(-10, 4)
	if d.Overlay.Scroll != 0 {
		t.Fatalf("expected clamp to 0, got %d", d.Overlay.Scroll)
	}
	d.CloseOverlay()
	if _, ok := d.OverlayEvent(); ok {
		t.Fatalf("expected overlay closed")
	}
}
