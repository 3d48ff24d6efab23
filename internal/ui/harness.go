package ui

import (
	"github.com/atomicstack/tuiporal/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives the UI model programmatically for tests. Unlike a running
// program it never executes returned commands, since several of them block
// (ticks, result waits); tests feed results explicitly with Deliver.
type Harness struct {
	model *Model
	last  tea.Cmd
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	return &Harness{model: model}
}

// Send routes a message through the model and keeps the returned command.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.last = cmd
}

// Keys sends each key as a key press. Named keys such as "enter" or "esc"
// are mapped to their key types; anything else is sent as runes.
func (h *Harness) Keys(keys ...string) {
	for _, k := range keys {
		h.Send(KeyMsg(k))
	}
}

// Deliver applies worker results as if they had been drained from the queue.
func (h *Harness) Deliver(results ...backend.Result) {
	h.Send(resultsMsg{results: results})
}

// LastCmd returns the command produced by the most recent message.
func (h *Harness) LastCmd() tea.Cmd {
	return h.last
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"pgup":      tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"backspace": tea.KeyBackspace,
	"space":     tea.KeySpace,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+u":    tea.KeyCtrlU,
	"ctrl+w":    tea.KeyCtrlW,
}

// KeyMsg builds the key press for a key name.
func KeyMsg(k string) tea.KeyMsg {
	if t, ok := namedKeys[k]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}
