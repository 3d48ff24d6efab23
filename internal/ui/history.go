package ui

import (
	"context"

	"github.com/atomicstack/tuiporal/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
)

type historyLoadedMsg struct {
	namespace string
	queries   []string
}

type copiedMsg struct {
	what string
	err  error
}

func loadHistoryCmd(h QueryHistory, namespace string) tea.Cmd {
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		queries, err := h.RecentQueries(context.Background(), namespace, queryHistoryLimit)
		if err != nil {
			logging.Errorf("load query history for %s: %v", namespace, err)
		}
		return historyLoadedMsg{namespace: namespace, queries: queries}
	}
}

func recordQueryCmd(h QueryHistory, namespace, query string) tea.Cmd {
	if h == nil || query == "" {
		return nil
	}
	return func() tea.Msg {
		if err := h.RecordQuery(context.Background(), namespace, query); err != nil {
			logging.Errorf("record query for %s: %v", namespace, err)
		}
		return nil
	}
}

func (m *Model) handleHistoryLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(historyLoadedMsg)
	if !ok || loaded.namespace != m.session.Namespace {
		return nil
	}
	m.search.recall = loaded.queries
	m.search.index = -1
	return nil
}

// recallQuery steps through the loaded query history. delta 1 moves to an
// older query, -1 to a newer one; stepping past the newest restores the text
// typed before recall started.
func (m *Model) recallQuery(delta int) bool {
	if len(m.search.recall) == 0 {
		return false
	}
	next := m.search.index + delta
	if next >= len(m.search.recall) {
		next = len(m.search.recall) - 1
	}
	if next < -1 {
		next = -1
	}
	if next == m.search.index {
		return false
	}
	if m.search.index == -1 {
		m.search.draft = m.search.input.Text
	}
	m.search.index = next
	if next == -1 {
		m.search.input.SetEnd(m.search.draft)
	} else {
		m.search.input.SetEnd(m.search.recall[next])
	}
	m.inputCursorDirty = true
	return true
}

func copyCmd(copyFn func(string) error, what, text string) tea.Cmd {
	if text == "" {
		return nil
	}
	return func() tea.Msg {
		return copiedMsg{what: what, err: copyFn(text)}
	}
}

func (m *Model) handleCopiedMsg(msg tea.Msg) tea.Cmd {
	copied, ok := msg.(copiedMsg)
	if !ok {
		return nil
	}
	if copied.err != nil {
		logging.Errorf("copy %s: %v", copied.what, copied.err)
		m.errMsg = "Copy failed: " + copied.err.Error()
		return nil
	}
	m.setInfo("Copied " + copied.what)
	return nil
}
