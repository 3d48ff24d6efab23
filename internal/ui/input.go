package ui

import (
	"unicode"

	uistate "github.com/atomicstack/tuiporal/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// editLine applies an editing key to e. It reports whether the key was
// consumed; keys it does not know are left to the caller.
func (m *Model) editLine(e *uistate.LineEditor, msg tea.KeyMsg) bool {
	before := e.Pos()
	var handled bool
	switch msg.String() {
	case "ctrl+u":
		handled = e.DeleteToStart()
	case "ctrl+w", "alt+backspace":
		handled = e.DeleteWordBackward()
	case "ctrl+a", "home":
		handled = e.MoveStart()
	case "ctrl+e", "end":
		handled = e.MoveEnd()
	case "alt+b":
		handled = e.MoveWordBackward()
	case "alt+f":
		handled = e.MoveWordForward()
	default:
		switch msg.Type {
		case tea.KeyBackspace, tea.KeyCtrlH:
			handled = e.DeleteBackward()
		case tea.KeyLeft:
			handled = e.MoveBackward()
		case tea.KeyRight:
			handled = e.MoveForward()
		case tea.KeySpace:
			handled = e.Insert(" ")
		case tea.KeyRunes:
			if msg.Alt || len(msg.Runes) == 0 {
				return false
			}
			for _, r := range msg.Runes {
				if unicode.IsControl(r) {
					return false
				}
			}
			handled = e.Insert(string(msg.Runes))
		}
	}
	if before != e.Pos() {
		m.inputCursorDirty = true
	}
	return handled
}

// inputLine renders prompt followed by the editor text with a block cursor.
func (m *Model) inputLine(prompt string, e *uistate.LineEditor, placeholder string) string {
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Cursor != nil {
		m.inputCursor.Style = *styles.Cursor
	}
	if styles.Filter != nil {
		m.inputCursor.TextStyle = *styles.Filter
	} else {
		m.inputCursor.TextStyle = lipgloss.Style{}
	}
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	if e.Text == "" {
		runes := []rune(placeholder)
		var caretRune, rest string
		if len(runes) > 0 {
			caretRune = string(runes[0])
			rest = string(runes[1:])
		}
		if styles.FilterPlaceholder != nil {
			m.inputCursor.TextStyle = *styles.FilterPlaceholder
		}
		return prompt + m.renderInputCursor(caretRune) + render(styles.FilterPlaceholder, rest)
	}
	runes := []rune(e.Text)
	pos := e.Pos()
	before := render(styles.Filter, string(runes[:pos]))
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + before + m.renderInputCursor(caretRune) + after
}

func (m *Model) renderInputCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.inputCursor.SetChar(char)

	base := m.inputCursor.TextStyle.Inline(true)
	if m.inputCursor.Blink {
		return base.Render(char)
	}
	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Inline(true)
		return base.Inherit(cursorStyle).Blink(false).Render(char)
	}
	return base.Reverse(true).Render(char)
}
