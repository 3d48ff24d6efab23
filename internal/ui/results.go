package ui

import (
	"context"
	"time"

	"github.com/atomicstack/tuiporal/internal/backend"
	"github.com/atomicstack/tuiporal/internal/state"
	tea "github.com/charmbracelet/bubbletea"
)

// resultsMsg carries every result that was available when the wait returned,
// in queue order.
type resultsMsg struct {
	results []backend.Result
}

type resultsClosedMsg struct{}

type tickMsg time.Time

// waitForResults blocks off the main loop until a result is available, then
// drains whatever else is already queued so a burst is applied in one update.
func waitForResults(src ResultSource) tea.Cmd {
	return func() tea.Msg {
		first, err := src.Pop(context.Background())
		if err != nil {
			return resultsClosedMsg{}
		}
		batch := []backend.Result{first}
		for {
			next, ok := src.TryPop()
			if !ok {
				break
			}
			batch = append(batch, next)
		}
		return resultsMsg{results: batch}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) handleResultsMsg(msg tea.Msg) tea.Cmd {
	batch, ok := msg.(resultsMsg)
	if !ok {
		return nil
	}
	for _, res := range batch.results {
		m.applyResult(res)
	}
	m.syncViewports()
	if m.results == nil {
		return nil
	}
	return waitForResults(m.results)
}

func (m *Model) applyResult(res backend.Result) {
	out := m.dispatcher.Handle(res)
	switch {
	case out.Err != "":
		m.errMsg = out.Err
		m.forceClearInfo()
	case out.Info != "":
		m.errMsg = ""
		m.setInfo(out.Info)
	}
}

func (m *Model) handleResultsClosedMsg(tea.Msg) tea.Cmd {
	m.results = nil
	return nil
}

func (m *Model) handleTickMsg(msg tea.Msg) tea.Cmd {
	m.spinner, _ = m.spinner.Update(m.spinner.Tick())
	m.expireInfo()
	if m.session.Screen == state.ScreenWorkflows && m.session.Connection.Phase == state.Connected {
		m.workflows.AutoRefresh(m.now(), m.issue)
	}
	return tickCmd()
}
