package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/tuiporal/internal/backend"
	"github.com/atomicstack/tuiporal/internal/logging/events"
	"github.com/atomicstack/tuiporal/internal/remote"
	"github.com/atomicstack/tuiporal/internal/state"
	uistate "github.com/atomicstack/tuiporal/internal/ui/state"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const overlayPageStep = 10

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	events.UI.Key(m.session.Screen.String(), keyMsg.String())
	if key.Matches(keyMsg, m.keys.Workflows.ForceQuit) {
		return tea.Quit
	}
	switch m.session.Screen {
	case state.ScreenDetail:
		return m.handleDetailKey(keyMsg)
	case state.ScreenNamespaces:
		return m.handleNamespacesKey(keyMsg)
	case state.ScreenHelp:
		return m.handleHelpKey(keyMsg)
	default:
		return m.handleWorkflowsKey(keyMsg)
	}
}

// moveCursor applies move to l and keeps the cursor inside the viewport.
func moveCursor[T any](m *Model, screen state.Screen, l *uistate.List[T], move func() bool) {
	if move() {
		events.UI.Cursor(screen.String(), l.Cursor)
	}
	l.EnsureCursorVisible(m.listCapacity(screen))
}

func pageMove(move func(int) bool, capacity int) func() bool {
	return func() bool { return move(capacity) }
}

func (m *Model) handleGlobalKey(msg tea.KeyMsg, k globalKeys) bool {
	switch {
	case key.Matches(msg, k.Workflows):
		m.session.SetScreen(state.ScreenWorkflows)
	case key.Matches(msg, k.Namespaces):
		m.showNamespaces()
	case key.Matches(msg, k.Help):
		m.helpScroll = 0
		m.session.SetScreen(state.ScreenHelp)
	default:
		return false
	}
	return true
}

func (m *Model) showNamespaces() {
	m.session.SetScreen(state.ScreenNamespaces)
	m.namespaces.Refresh(m.issue)
}

func (m *Model) handleWorkflowsKey(msg tea.KeyMsg) tea.Cmd {
	if m.search.active {
		return m.handleSearchKey(msg)
	}
	k := m.keys.Workflows
	if m.handleGlobalKey(msg, k.globalKeys) {
		return nil
	}
	l := m.workflows
	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit
	case key.Matches(msg, k.Back):
		if l.Query == "" {
			return tea.Quit
		}
		m.errMsg = ""
		l.SetQuery("", m.issue)
	case key.Matches(msg, k.Up):
		moveCursor(m, state.ScreenWorkflows, &l.List, l.MovePrev)
	case key.Matches(msg, k.Down):
		moveCursor(m, state.ScreenWorkflows, &l.List, l.MoveNext)
	case key.Matches(msg, k.Top):
		moveCursor(m, state.ScreenWorkflows, &l.List, l.MoveHome)
	case key.Matches(msg, k.Bottom):
		moveCursor(m, state.ScreenWorkflows, &l.List, l.MoveEnd)
	case key.Matches(msg, k.PageUp):
		moveCursor(m, state.ScreenWorkflows, &l.List, pageMove(l.MovePageUp, m.listCapacity(state.ScreenWorkflows)))
	case key.Matches(msg, k.PageDown):
		moveCursor(m, state.ScreenWorkflows, &l.List, pageMove(l.MovePageDown, m.listCapacity(state.ScreenWorkflows)))
	case key.Matches(msg, k.Open):
		if wf, ok := l.Selected(); ok {
			m.detail.Open(wf.ID, wf.RunID, m.issue)
			m.session.SetScreen(state.ScreenDetail)
		}
	case key.Matches(msg, k.Search):
		return m.startSearch()
	case key.Matches(msg, k.Filter):
		m.errMsg = ""
		l.CycleFilter(m.issue)
	case key.Matches(msg, k.Clear):
		m.errMsg = ""
		l.ClearFilters(m.issue)
	case key.Matches(msg, k.Auto):
		enabled := l.ToggleAutoRefresh()
		events.List.AutoRefresh("workflows", enabled)
		if enabled {
			m.setInfo(fmt.Sprintf("Auto-refresh enabled (%s)", l.Auto.Interval))
		} else {
			m.setInfo("Auto-refresh disabled")
		}
	case key.Matches(msg, k.Refresh):
		m.errMsg = ""
		l.Reset(m.issue)
	case key.Matches(msg, k.Next):
		l.NextPage(m.issue)
	case key.Matches(msg, k.Prev):
		l.PrevPage(m.issue)
	case key.Matches(msg, k.Copy):
		if wf, ok := l.Selected(); ok {
			return copyCmd(m.copy, "workflow ID", wf.ID)
		}
	case key.Matches(msg, k.CopyRun):
		if wf, ok := l.Selected(); ok {
			return copyCmd(m.copy, "run ID", wf.RunID)
		}
	case key.Matches(msg, k.Retry):
		if m.session.Connection.Phase == state.Errored {
			m.errMsg = ""
			m.connect()
		}
	}
	return nil
}

func (m *Model) startSearch() tea.Cmd {
	m.search = searchState{active: true, index: -1}
	m.search.input.SetEnd(m.workflows.Query)
	m.inputCursorDirty = true
	return loadHistoryCmd(m.history, m.session.Namespace)
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys.Input
	switch {
	case key.Matches(msg, k.Confirm):
		query := strings.TrimSpace(m.search.input.Text)
		m.search.active = false
		m.errMsg = ""
		m.workflows.SetQuery(query, m.issue)
		return recordQueryCmd(m.history, m.session.Namespace, query)
	case key.Matches(msg, k.Cancel):
		m.search.active = false
	case key.Matches(msg, k.Previous):
		m.recallQuery(1)
	case key.Matches(msg, k.Next):
		m.recallQuery(-1)
	default:
		m.editLine(&m.search.input, msg)
	}
	return nil
}

func (m *Model) handleNamespacesKey(msg tea.KeyMsg) tea.Cmd {
	l := m.namespaces
	if l.Searching {
		return m.handleNamespaceSearchKey(msg)
	}
	k := m.keys.Namespaces
	if m.handleGlobalKey(msg, k.globalKeys) {
		return nil
	}
	switch {
	case key.Matches(msg, k.Back):
		if l.Search.Text != "" {
			l.ClearSearch()
			return nil
		}
		m.session.SetScreen(state.ScreenWorkflows)
	case key.Matches(msg, k.Up):
		moveCursor(m, state.ScreenNamespaces, &l.List, l.MovePrev)
	case key.Matches(msg, k.Down):
		moveCursor(m, state.ScreenNamespaces, &l.List, l.MoveNext)
	case key.Matches(msg, k.Top):
		moveCursor(m, state.ScreenNamespaces, &l.List, l.MoveHome)
	case key.Matches(msg, k.Bottom):
		moveCursor(m, state.ScreenNamespaces, &l.List, l.MoveEnd)
	case key.Matches(msg, k.PageUp):
		moveCursor(m, state.ScreenNamespaces, &l.List, pageMove(l.MovePageUp, m.listCapacity(state.ScreenNamespaces)))
	case key.Matches(msg, k.PageDown):
		moveCursor(m, state.ScreenNamespaces, &l.List, pageMove(l.MovePageDown, m.listCapacity(state.ScreenNamespaces)))
	case key.Matches(msg, k.Refresh):
		l.Refresh(m.issue)
	case key.Matches(msg, k.Search):
		l.Searching = true
		m.inputCursorDirty = true
	case key.Matches(msg, k.Switch):
		if ns, ok := l.Selected(); ok {
			m.issue(backend.SwitchNamespace{Name: ns.Name})
			m.setInfo(fmt.Sprintf("Switching to namespace %s…", ns.Name))
		}
	}
	return nil
}

func (m *Model) handleNamespaceSearchKey(msg tea.KeyMsg) tea.Cmd {
	l := m.namespaces
	switch {
	case key.Matches(msg, m.keys.Input.Confirm):
		l.Searching = false
	case key.Matches(msg, m.keys.Input.Cancel):
		l.ClearSearch()
	case msg.Type == tea.KeyUp:
		moveCursor(m, state.ScreenNamespaces, &l.List, l.MovePrev)
	case msg.Type == tea.KeyDown:
		moveCursor(m, state.ScreenNamespaces, &l.List, l.MoveNext)
	default:
		if l.EditSearch(func(e *uistate.LineEditor) bool { return m.editLine(e, msg) }) {
			l.EnsureCursorVisible(m.listCapacity(state.ScreenNamespaces))
		}
	}
	return nil
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	d := m.detail
	if d.Dialog != nil {
		return m.handleDialogKey(msg)
	}
	if d.Overlay != nil {
		return m.handleOverlayKey(msg)
	}
	if d.DismissBanner() {
		return nil
	}
	k := m.keys.Detail
	if m.handleGlobalKey(msg, k.globalKeys) {
		return nil
	}
	evs := &d.Events
	switch {
	case key.Matches(msg, k.Back):
		m.session.SetScreen(state.ScreenWorkflows)
	case key.Matches(msg, k.Up):
		moveCursor(m, state.ScreenDetail, evs, evs.MovePrev)
	case key.Matches(msg, k.Down):
		moveCursor(m, state.ScreenDetail, evs, evs.MoveNext)
	case key.Matches(msg, k.Top):
		moveCursor(m, state.ScreenDetail, evs, evs.MoveHome)
	case key.Matches(msg, k.Bottom):
		moveCursor(m, state.ScreenDetail, evs, evs.MoveEnd)
	case key.Matches(msg, k.PageUp):
		moveCursor(m, state.ScreenDetail, evs, pageMove(evs.MovePageUp, m.listCapacity(state.ScreenDetail)))
	case key.Matches(msg, k.PageDown):
		moveCursor(m, state.ScreenDetail, evs, pageMove(evs.MovePageDown, m.listCapacity(state.ScreenDetail)))
	case key.Matches(msg, k.Inspect):
		d.OpenOverlay()
	case key.Matches(msg, k.Terminate):
		m.openDialog(remote.MutationTerminate)
	case key.Matches(msg, k.Cancel):
		m.openDialog(remote.MutationCancel)
	case key.Matches(msg, k.Signal):
		m.openDialog(remote.MutationSignal)
	case key.Matches(msg, k.Reload):
		d.Reload(m.issue)
	case key.Matches(msg, k.More):
		if !d.LoadMore(m.issue) && d.Subject != nil && len(d.NextToken) == 0 {
			m.setInfo("No more events")
		}
	case key.Matches(msg, k.Copy):
		return copyCmd(m.copy, "workflow ID", d.WorkflowID)
	case key.Matches(msg, k.CopyRun):
		runID := d.RunID
		if d.Subject != nil && d.Subject.RunID != "" {
			runID = d.Subject.RunID
		}
		return copyCmd(m.copy, "run ID", runID)
	}
	return nil
}

func (m *Model) openDialog(kind remote.MutationKind) {
	if m.detail.OpenDialog(kind) {
		m.inputCursorDirty = true
	}
}

func (m *Model) handleDialogKey(msg tea.KeyMsg) tea.Cmd {
	d := m.detail
	switch {
	case key.Matches(msg, m.keys.Input.Confirm):
		// A validation failure is already shown as a banner.
		_ = d.ConfirmDialog(m.issue)
	case key.Matches(msg, m.keys.Input.Cancel):
		d.CancelDialog()
	default:
		if d.Dialog.AcceptsInput() {
			m.editLine(&d.Dialog.Input, msg)
		}
	}
	return nil
}

func (m *Model) handleOverlayKey(msg tea.KeyMsg) tea.Cmd {
	d := m.detail
	k := m.keys.Overlay
	limit := m.overlayMaxScroll()
	switch {
	case key.Matches(msg, k.Close):
		d.CloseOverlay()
	case key.Matches(msg, k.Up):
		d.ScrollOverlay(-1, limit)
	case key.Matches(msg, k.Down):
		d.ScrollOverlay(1, limit)
	case key.Matches(msg, k.PageUp):
		d.ScrollOverlay(-overlayPageStep, limit)
	case key.Matches(msg, k.PageDown):
		d.ScrollOverlay(overlayPageStep, limit)
	case key.Matches(msg, k.Copy):
		if ev, ok := d.OverlayEvent(); ok {
			return copyCmd(m.copy, "event JSON", eventJSON(ev))
		}
	}
	return nil
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys.HelpScreen
	switch {
	case key.Matches(msg, k.Close):
		back := m.session.Previous
		if back == state.ScreenHelp {
			back = state.ScreenWorkflows
		}
		m.session.SetScreen(back)
	case key.Matches(msg, k.Up):
		m.scrollHelp(-1)
	case key.Matches(msg, k.Down):
		m.scrollHelp(1)
	case key.Matches(msg, k.PageUp):
		m.scrollHelp(-overlayPageStep)
	case key.Matches(msg, k.PageDown):
		m.scrollHelp(overlayPageStep)
	}
	return nil
}

func (m *Model) scrollHelp(delta int) {
	next := m.helpScroll + delta
	if limit := m.helpMaxScroll(); next > limit {
		next = limit
	}
	if next < 0 {
		next = 0
	}
	m.helpScroll = next
}
