package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/tuiporal/internal/backend"
	"github.com/atomicstack/tuiporal/internal/logging/events"
	"github.com/atomicstack/tuiporal/internal/remote"
)

const defaultTerminateReason = "Terminated by user"

// Dialog is a pending confirmation on the detail screen.
type Dialog struct {
	Kind  remote.MutationKind
	Input LineEditor
}

// Prompt returns the text shown above the dialog input.
func (d *Dialog) Prompt() string {
	switch d.Kind {
	case remote.MutationTerminate:
		return "Enter termination reason (or leave empty):"
	case remote.MutationCancel:
		return "Are you sure you want to cancel this workflow?"
	case remote.MutationSignal:
		return "Enter signal name:"
	default:
		return ""
	}
}

// AcceptsInput reports whether the dialog has a text field.
func (d *Dialog) AcceptsInput() bool {
	return d.Kind != remote.MutationCancel
}

// Banner is a transient message on the detail screen.
type Banner struct {
	Text    string
	IsError bool
}

// Overlay is the event inspector layered over the detail screen.
type Overlay struct {
	EventIndex int
	Scroll     int
}

// DetailView is the state of the workflow detail screen.
type DetailView struct {
	WorkflowID      string
	RunID           string
	Subject         *remote.Workflow
	MetadataMissing bool
	Events          List[remote.Event]
	NextToken       []byte
	LoadingMore     bool
	Dialog          *Dialog
	Banner          *Banner
	Overlay         *Overlay

	more Slot
}

// NewDetailView returns an empty detail view.
func NewDetailView() *DetailView {
	return &DetailView{Events: NewList[remote.Event]()}
}

// Loading reports whether the metadata and first history page are pending.
func (d *DetailView) Loading() bool {
	return d.Events.Loading
}

// Open starts loading the given workflow, discarding the previous subject.
func (d *DetailView) Open(workflowID, runID string, issue Issue) {
	slot, more := d.Events.slot, d.more
	*d = DetailView{WorkflowID: workflowID, RunID: runID, Events: NewList[remote.Event]()}
	d.Events.slot = slot
	d.more = more
	d.Events.Begin(issue(backend.ViewDetail{WorkflowID: workflowID, RunID: runID}))
}

// Reload re-fetches the current workflow.
func (d *DetailView) Reload(issue Issue) bool {
	if d.WorkflowID == "" {
		return false
	}
	d.Open(d.WorkflowID, d.RunID, issue)
	return true
}

// LoadMore fetches the next page of history.
func (d *DetailView) LoadMore(issue Issue) bool {
	if d.Subject == nil || len(d.NextToken) == 0 || d.LoadingMore || d.Events.Loading {
		return false
	}
	runID := d.Subject.RunID
	if runID == "" {
		runID = d.RunID
	}
	seq := issue(backend.LoadMoreEvents{WorkflowID: d.WorkflowID, RunID: runID, Token: d.NextToken})
	d.more.Issue(seq)
	d.LoadingMore = true
	return true
}

// ApplyLoaded installs a detail result for the current workflow.
func (d *DetailView) ApplyLoaded(res backend.DetailLoaded, now time.Time) bool {
	if res.Workflow.ID != d.WorkflowID {
		return false
	}
	if !d.Events.Replace(res.Seq, res.Events, now) {
		return false
	}
	wf := res.Workflow
	d.Subject = &wf
	d.MetadataMissing = res.MetadataMissing
	d.NextToken = res.NextToken
	d.Banner = nil
	return true
}

// ApplyFailed records a failed detail load for the current workflow.
func (d *DetailView) ApplyFailed(res backend.DetailFailed, message string) bool {
	if res.WorkflowID != d.WorkflowID {
		return false
	}
	if !d.Events.Fail(res.Seq, message) {
		return false
	}
	d.Subject = nil
	return true
}

// ApplyEventsAppended appends a further history page.
func (d *DetailView) ApplyEventsAppended(res backend.EventsAppended) bool {
	if res.WorkflowID != d.WorkflowID || d.Subject == nil {
		return false
	}
	if !d.more.Accept(res.Seq) {
		return false
	}
	merged := make([]remote.Event, 0, len(d.Events.Items)+len(res.Events))
	merged = append(merged, d.Events.Items...)
	merged = append(merged, res.Events...)
	d.Events.Items = merged
	if d.Events.Cursor < 0 && len(merged) > 0 {
		d.Events.Cursor = 0
	}
	d.NextToken = res.NextToken
	if d.more.Owns(res.Seq) {
		d.LoadingMore = false
	}
	return true
}

// ApplyEventsFailed surfaces a failed history page as a banner.
func (d *DetailView) ApplyEventsFailed(res backend.EventsFailed, message string) bool {
	if res.WorkflowID != d.WorkflowID || !d.more.Accept(res.Seq) {
		return false
	}
	if d.more.Owns(res.Seq) {
		d.LoadingMore = false
	}
	d.Banner = &Banner{Text: message, IsError: true}
	return true
}

// OpenDialog opens a dialog of kind when no overlay is active and a subject
// is loaded.
func (d *DetailView) OpenDialog(kind remote.MutationKind) bool {
	if d.Subject == nil || d.Dialog != nil || d.Overlay != nil {
		return false
	}
	d.Dialog = &Dialog{Kind: kind}
	events.Dialog.Open(kind.String(), d.WorkflowID)
	return true
}

// CancelDialog closes the dialog without sending anything.
func (d *DetailView) CancelDialog() {
	if d.Dialog == nil {
		return
	}
	events.Dialog.Dismiss(d.Dialog.Kind.String())
	d.Dialog = nil
}

// ConfirmDialog closes the dialog and issues its mutation. A Signal dialog
// with an empty name issues nothing and returns a validation error, which is
// also shown as a banner.
func (d *DetailView) ConfirmDialog(issue Issue) error {
	dialog := d.Dialog
	if dialog == nil || d.Subject == nil {
		return nil
	}
	d.Dialog = nil
	input := strings.TrimSpace(dialog.Input.Text)
	m := remote.Mutation{Kind: dialog.Kind, WorkflowID: d.Subject.ID, RunID: d.Subject.RunID}
	switch dialog.Kind {
	case remote.MutationTerminate:
		m.Reason = input
		if m.Reason == "" {
			m.Reason = defaultTerminateReason
		}
	case remote.MutationSignal:
		if input == "" {
			err := &remote.ValidationError{Field: "signal", Message: "Signal name cannot be empty"}
			d.Banner = &Banner{Text: err.Message, IsError: true}
			events.Dialog.Invalid(dialog.Kind.String(), err.Message)
			return err
		}
		m.SignalName = input
	}
	events.Dialog.Confirm(dialog.Kind.String(), m.WorkflowID)
	issue(backend.Mutate{Mutation: m})
	return nil
}

// ApplyMutation shows the outcome of a mutation as a banner.
func (d *DetailView) ApplyMutation(res backend.Result) bool {
	text, isErr, ok := MutationMessage(res)
	if !ok {
		return false
	}
	d.Banner = &Banner{Text: text, IsError: isErr}
	return true
}

// DismissBanner clears the banner, reporting whether one was shown.
func (d *DetailView) DismissBanner() bool {
	if d.Banner == nil {
		return false
	}
	d.Banner = nil
	return true
}

// OpenOverlay shows the selected event in the inspector.
func (d *DetailView) OpenOverlay() bool {
	if d.Overlay != nil || d.Dialog != nil || !d.Events.HasSelection() {
		return false
	}
	d.Overlay = &Overlay{EventIndex: d.Events.Cursor}
	return true
}

// CloseOverlay hides the inspector.
func (d *DetailView) CloseOverlay() {
	d.Overlay = nil
}

// ScrollOverlay moves the inspector by delta lines, clamped to [0, max].
func (d *DetailView) ScrollOverlay(delta, max int) {
	if d.Overlay == nil {
		return
	}
	next := d.Overlay.Scroll + delta
	if next > max {
		next = max
	}
	if next < 0 {
		next = 0
	}
	d.Overlay.Scroll = next
}

// OverlayEvent returns the event shown in the inspector.
func (d *DetailView) OverlayEvent() (remote.Event, bool) {
	if d.Overlay == nil || d.Overlay.EventIndex < 0 || d.Overlay.EventIndex >= len(d.Events.Items) {
		return remote.Event{}, false
	}
	return d.Events.Items[d.Overlay.EventIndex], true
}

// MutationMessage renders a mutation result for display.
func MutationMessage(res backend.Result) (string, bool, bool) {
	switch r := res.(type) {
	case backend.MutationSucceeded:
		m := r.Mutation
		switch m.Kind {
		case remote.MutationTerminate:
			return fmt.Sprintf("Workflow %s terminated successfully", m.WorkflowID), false, true
		case remote.MutationCancel:
			return fmt.Sprintf("Workflow %s cancel requested successfully", m.WorkflowID), false, true
		default:
			return fmt.Sprintf("Signal '%s' sent to workflow %s successfully", m.SignalName, m.WorkflowID), false, true
		}
	case backend.MutationFailed:
		cause := remote.Cause(r.Err)
		switch r.Mutation.Kind {
		case remote.MutationTerminate:
			return fmt.Sprintf("Failed to terminate workflow: %s", cause), true, true
		case remote.MutationCancel:
			return fmt.Sprintf("Failed to cancel workflow: %s", cause), true, true
		default:
			return fmt.Sprintf("Failed to send signal: %s", cause), true, true
		}
	default:
		return "", false, false
	}
}
