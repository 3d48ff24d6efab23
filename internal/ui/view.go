package ui

import (
	"strings"

	"github.com/atomicstack/tuiporal/internal/state"
	"github.com/atomicstack/tuiporal/internal/theme"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const (
	headerHeight = 2 // title + tabs
	footerHeight = 2 // status + key help

	workflowChrome  = 3 // title, query bar, column header
	namespaceChrome = 3
	detailChrome    = 12 // metadata block, blank, banner, title, column header
	overlayChrome   = 2  // title, blank
)

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

type tab struct {
	label  string
	screen state.Screen
}

var tabs = []tab{
	{label: "Workflows (1)", screen: state.ScreenWorkflows},
	{label: "Namespaces (2)", screen: state.ScreenNamespaces},
	{label: "Help (?)", screen: state.ScreenHelp},
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := make([]styledLine, 0, 32)
	lines = append(lines, m.headerLines()...)
	body := m.bodyLines()
	if h := m.bodyHeight(); h > 0 {
		body = limitHeight(body, h, m.width)
		for len(body) < h {
			body = append(body, styledLine{})
		}
	}
	lines = append(lines, body...)
	lines = append(lines, m.statusLine())
	lines = append(lines, styledLine{text: m.help.View(m.activeKeyMap()), raw: true})
	return renderLines(applyWidth(lines, m.width))
}

func (m *Model) bodyLines() []styledLine {
	switch m.session.Screen {
	case state.ScreenDetail:
		return m.detailLines()
	case state.ScreenNamespaces:
		return m.namespaceLines()
	case state.ScreenHelp:
		return m.helpLines()
	default:
		return m.workflowLines()
	}
}

func (m *Model) headerLines() []styledLine {
	s := m.session
	dot := theme.Connection(s.Connection.Phase.String()).Render("●")
	title := "Tuiporal"
	if styles.Header != nil {
		title = styles.Header.Render(title)
	}
	parts := []string{title + " " + dot, "ns: " + s.Namespace}
	if s.Profile != "" {
		parts = append(parts, "profile: "+s.Profile)
	}
	if s.Address != "" {
		parts = append(parts, s.Address)
	}
	rendered := make([]string, 0, len(tabs))
	for _, t := range tabs {
		active := t.screen == s.Screen || (t.screen == state.ScreenWorkflows && s.Screen == state.ScreenDetail)
		style := styles.Tab
		if active {
			style = styles.ActiveTab
		}
		if style != nil {
			rendered = append(rendered, style.Render(t.label))
		} else {
			rendered = append(rendered, t.label)
		}
	}
	return []styledLine{
		{text: strings.Join(parts, " | "), raw: true},
		{text: strings.Join(rendered, " "), raw: true},
	}
}

func (m *Model) statusLine() styledLine {
	if m.errMsg != "" {
		return styledLine{text: m.errMsg, style: styles.Error}
	}
	if err := m.screenError(); err != "" {
		return styledLine{text: err, style: styles.Error}
	}
	if m.infoMsg != "" {
		return styledLine{text: m.infoMsg, style: styles.Info}
	}
	return styledLine{}
}

// screenError returns the list error of the active screen when the body is
// still showing items and therefore has no room for it.
func (m *Model) screenError() string {
	switch m.session.Screen {
	case state.ScreenWorkflows:
		if len(m.workflows.Items) > 0 {
			return m.workflows.Err
		}
	case state.ScreenNamespaces:
		if len(m.namespaces.Items) > 0 {
			return m.namespaces.Err
		}
	case state.ScreenDetail:
		if m.detail.Subject != nil {
			return m.detail.Events.Err
		}
	}
	return ""
}

func (m *Model) activeKeyMap() help.KeyMap {
	switch m.session.Screen {
	case state.ScreenDetail:
		switch {
		case m.detail.Dialog != nil:
			return m.keys.Input
		case m.detail.Overlay != nil:
			return m.keys.Overlay
		}
		return m.keys.Detail
	case state.ScreenNamespaces:
		if m.namespaces.Searching {
			return m.keys.Input
		}
		return m.keys.Namespaces
	case state.ScreenHelp:
		return m.keys.HelpScreen
	default:
		if m.search.active {
			return m.keys.Input
		}
		return m.keys.Workflows
	}
}

// bodyHeight returns the rows available between header and footer, or -1
// when the terminal height is unknown.
func (m *Model) bodyHeight() int {
	if m.height <= 0 {
		return -1
	}
	h := m.height - headerHeight - footerHeight
	if h < 1 {
		return 1
	}
	return h
}

// listCapacity returns how many list rows fit on screen, or -1 when the
// height is unknown.
func (m *Model) listCapacity(screen state.Screen) int {
	body := m.bodyHeight()
	if body < 0 {
		return -1
	}
	chrome := workflowChrome
	switch screen {
	case state.ScreenNamespaces:
		chrome = namespaceChrome
	case state.ScreenDetail:
		chrome = detailChrome
	}
	if n := body - chrome; n > 0 {
		return n
	}
	return 1
}

func (m *Model) syncViewports() {
	m.workflows.EnsureCursorVisible(m.listCapacity(state.ScreenWorkflows))
	m.namespaces.EnsureCursorVisible(m.listCapacity(state.ScreenNamespaces))
	m.detail.Events.EnsureCursorVisible(m.listCapacity(state.ScreenDetail))
	if m.detail.Overlay != nil {
		m.detail.ScrollOverlay(0, m.overlayMaxScroll())
	}
	m.scrollHelp(0)
}

// window returns the [start, end) range of total rows that keeps offset in
// view.
func window(total, offset, capacity int) (int, int) {
	if capacity <= 0 || total <= capacity {
		return 0, total
	}
	if offset < 0 {
		offset = 0
	}
	if offset > total-capacity {
		offset = total - capacity
	}
	return offset, offset + capacity
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			text = ansi.Truncate(text, width, "…")
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line.raw || line.style == nil || line.text == "" {
			out[i] = line.text
			continue
		}
		out[i] = line.style.Render(line.text)
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, "…")
}
