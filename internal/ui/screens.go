package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/tuiporal/internal/format/table"
	"github.com/atomicstack/tuiporal/internal/remote"
	"github.com/atomicstack/tuiporal/internal/state"
	"github.com/atomicstack/tuiporal/internal/theme"
	uistate "github.com/atomicstack/tuiporal/internal/ui/state"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const timeLayout = "2006-01-02 15:04:05 UTC"

func render(style *lipgloss.Style, text string) string {
	if style == nil {
		return text
	}
	return style.Render(text)
}

func (m *Model) relTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, m.now(), "ago", "from now")
}

func (m *Model) loadingLine(text string) styledLine {
	return styledLine{text: m.spinner.View() + " " + render(styles.Loading, text), raw: true}
}

// rowLines turns formatted table rows into lines, highlighting the cursor row.
// plain holds the same rows without ANSI styling and is used for the cursor
// row so its highlight is not interrupted by embedded resets.
func rowLines(styled, plain []string, cursor, start int) []styledLine {
	lines := make([]styledLine, 0, len(styled))
	for i := range styled {
		if start+i == cursor {
			lines = append(lines, styledLine{text: plain[i], style: styles.SelectedItem})
			continue
		}
		lines = append(lines, styledLine{text: styled[i], raw: true})
	}
	return lines
}

func (m *Model) columnLimits(fractions ...int) []int {
	if m.width <= 0 {
		return nil
	}
	limits := make([]int, len(fractions))
	for i, f := range fractions {
		if f > 0 {
			limits[i] = m.width * f / 100
		}
	}
	return limits
}

func (m *Model) workflowLines() []styledLine {
	l := m.workflows
	lines := []styledLine{m.workflowTitle(), m.workflowBar()}
	if m.session.Connection.Phase != state.Connected && len(l.Items) == 0 {
		return append(lines, m.connectionLines()...)
	}
	if len(l.Items) == 0 {
		switch {
		case l.Loading:
			lines = append(lines, m.loadingLine("Loading workflows..."))
		case l.Err != "":
			lines = append(lines,
				styledLine{text: "⚠ " + l.Err, style: styles.Error},
				styledLine{text: "Press 'r' to retry", style: styles.Muted},
			)
		default:
			lines = append(lines,
				styledLine{text: "No workflows found", style: styles.Info},
				styledLine{text: "Press 'r' to refresh", style: styles.Muted},
			)
		}
		return lines
	}
	start, end := window(len(l.Items), l.ViewportOffset, m.listCapacity(state.ScreenWorkflows))
	header := []string{"WORKFLOW ID", "TYPE", "STATUS", "STARTED"}
	styledRows := [][]string{header}
	plainRows := [][]string{header}
	for i := start; i < end; i++ {
		wf := l.Items[i]
		status := wf.Status.String()
		cells := []string{wf.ID, wf.Type, status, m.relTime(wf.StartTime)}
		plainRows = append(plainRows, cells)
		colored := append([]string(nil), cells...)
		colored[2] = theme.Status(wf.Status).Render(status)
		styledRows = append(styledRows, colored)
	}
	limits := m.columnLimits(40, 25, 0, 0)
	styled := table.FormatWidths(styledRows, nil, limits)
	plain := table.FormatWidths(plainRows, nil, limits)
	lines = append(lines, styledLine{text: plain[0], style: styles.ColumnHeader})
	return append(lines, rowLines(styled[1:], plain[1:], l.Cursor, start)...)
}

func (m *Model) workflowTitle() styledLine {
	l := m.workflows
	title := fmt.Sprintf("Workflows (%d items)", len(l.Items))
	if l.Page > 1 || l.HasNext() {
		title += fmt.Sprintf(" - Page %d", l.Page)
		if l.HasNext() {
			title += " [→]"
		}
	}
	if l.Auto.Enabled {
		title += fmt.Sprintf(" [Auto: %s]", l.Auto.Interval)
	}
	title = render(styles.Title, title)
	if l.Loading && len(l.Items) > 0 {
		title = m.spinner.View() + " " + title
	}
	return styledLine{text: title, raw: true}
}

func (m *Model) workflowBar() styledLine {
	l := m.workflows
	if m.search.active {
		return styledLine{text: m.inputLine("Search: ", &m.search.input, "visibility query, e.g. WorkflowType='Order'"), raw: true}
	}
	parts := make([]string, 0, 2)
	if l.Filter != uistate.FilterNone {
		parts = append(parts, render(styles.Label, "Filter: ")+l.Filter.String())
	}
	if l.Query != "" {
		parts = append(parts, render(styles.Label, "Query: ")+l.Query)
	}
	if len(parts) == 0 {
		return styledLine{text: "Press / to search, f to filter by status", style: styles.Muted}
	}
	return styledLine{text: strings.Join(parts, " | "), raw: true}
}

func (m *Model) connectionLines() []styledLine {
	conn := m.session.Connection
	switch conn.Phase {
	case state.Connecting:
		return []styledLine{m.loadingLine("Connecting to Temporal...")}
	case state.Errored:
		return []styledLine{
			{text: "Connection error: " + conn.Message, style: styles.Error},
			{text: "Press 'R' to reconnect", style: styles.Muted},
		}
	default:
		return []styledLine{{text: "Not connected to Temporal", style: styles.Error}}
	}
}

func (m *Model) namespaceLines() []styledLine {
	l := m.namespaces
	title := render(styles.Title, fmt.Sprintf("Namespaces (%d)", len(l.Items)))
	if l.Loading {
		title = m.spinner.View() + " " + title
	}
	lines := []styledLine{{text: title, raw: true}}
	switch {
	case l.Searching:
		lines = append(lines, styledLine{text: m.inputLine("Filter: ", &l.Search, "type to filter"), raw: true})
	case l.Search.Text != "":
		lines = append(lines, styledLine{text: render(styles.Label, "Filter: ") + l.Search.Text, raw: true})
	default:
		lines = append(lines, styledLine{text: "Current: " + m.session.Namespace, style: styles.Muted})
	}
	if len(l.Items) == 0 {
		switch {
		case l.Loading:
			lines = append(lines, m.loadingLine("Loading namespaces..."))
		case l.Err != "":
			lines = append(lines, styledLine{text: "⚠ " + l.Err, style: styles.Error})
		case l.Search.Text != "":
			lines = append(lines, styledLine{text: fmt.Sprintf("No matches for %q", l.Search.Text), style: styles.Info})
		default:
			lines = append(lines, styledLine{text: "No namespaces found", style: styles.Info})
		}
		return lines
	}
	start, end := window(len(l.Items), l.ViewportOffset, m.listCapacity(state.ScreenNamespaces))
	rows := [][]string{{"", "NAME", "STATE", "DESCRIPTION", "OWNER"}}
	for i := start; i < end; i++ {
		ns := l.Items[i]
		marker := " "
		if ns.Name == m.session.Namespace {
			marker = "●"
		}
		rows = append(rows, []string{marker, ns.Name, ns.State.String(), ns.Description, ns.OwnerEmail})
	}
	formatted := table.FormatWidths(rows, nil, m.columnLimits(0, 30, 0, 40, 0))
	lines = append(lines, styledLine{text: formatted[0], style: styles.ColumnHeader})
	return append(lines, rowLines(formatted[1:], formatted[1:], l.Cursor, start)...)
}

func (m *Model) detailLines() []styledLine {
	d := m.detail
	if d.Overlay != nil {
		return m.overlayLines()
	}
	if d.Subject == nil {
		switch {
		case d.Loading():
			return []styledLine{m.loadingLine("Loading workflow details...")}
		case d.Events.Err != "":
			return []styledLine{
				{text: "⚠ An error occurred:", style: styles.Error},
				{text: d.Events.Err},
				{text: "Press 'esc' to go back", style: styles.Muted},
			}
		default:
			return []styledLine{{text: "No workflow loaded", style: styles.Info}}
		}
	}
	lines := m.metadataLines()
	lines = append(lines, styledLine{}, m.bannerLine())
	if d.Dialog != nil {
		return append(lines, m.dialogLines()...)
	}
	title := render(styles.Title, fmt.Sprintf("Event History (%d events)", len(d.Events.Items)))
	if len(d.NextToken) > 0 {
		title += render(styles.Muted, " [m: more]")
	}
	if d.Loading() || d.LoadingMore {
		title = m.spinner.View() + " " + title
	}
	lines = append(lines, styledLine{text: title, raw: true})
	if len(d.Events.Items) == 0 {
		return append(lines, styledLine{text: "No history events found", style: styles.Info})
	}
	start, end := window(len(d.Events.Items), d.Events.ViewportOffset, m.listCapacity(state.ScreenDetail))
	rows := [][]string{{"ID", "TYPE", "TIME"}}
	for i := start; i < end; i++ {
		ev := d.Events.Items[i]
		rows = append(rows, []string{strconv.FormatInt(ev.ID, 10), ev.Type, formatTime(ev.Time, "-")})
	}
	formatted := table.Format(rows, []table.Alignment{table.AlignRight})
	lines = append(lines, styledLine{text: formatted[0], style: styles.ColumnHeader})
	return append(lines, rowLines(formatted[1:], formatted[1:], d.Events.Cursor, start)...)
}

func formatTime(t time.Time, empty string) string {
	if t.IsZero() {
		return empty
	}
	return t.UTC().Format(timeLayout)
}

func (m *Model) metadataLines() []styledLine {
	d := m.detail
	wf := d.Subject
	field := func(label, value string) styledLine {
		return styledLine{text: render(styles.Label, label+": ") + value, raw: true}
	}
	workflowType := wf.Type
	if d.MetadataMissing {
		workflowType += render(styles.Muted, " (metadata unavailable)")
	}
	started := formatTime(wf.StartTime, "Unknown")
	if !wf.StartTime.IsZero() {
		started += " (" + m.relTime(wf.StartTime) + ")"
	}
	history := "-"
	if wf.HistoryLength > 0 {
		history = humanize.Comma(wf.HistoryLength)
	}
	return []styledLine{
		field("Workflow ID", wf.ID),
		field("Run ID", orDash(wf.RunID)),
		field("Type", workflowType),
		field("Status", theme.Status(wf.Status).Render(wf.Status.String())),
		field("Task Queue", orDash(wf.TaskQueue)),
		field("Start Time", started),
		field("Close Time", formatTime(wf.CloseTime, "N/A")),
		field("History Length", history),
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (m *Model) bannerLine() styledLine {
	b := m.detail.Banner
	if b == nil {
		return styledLine{}
	}
	style := styles.Banner
	if b.IsError {
		style = styles.BannerError
	}
	return styledLine{text: render(style, b.Text) + render(styles.Muted, "  (press any key)"), raw: true}
}

func (m *Model) dialogLines() []styledLine {
	dialog := m.detail.Dialog
	body := []string{render(styles.Title, dialog.Prompt())}
	if dialog.AcceptsInput() {
		placeholder := "reason"
		if dialog.Kind == remote.MutationSignal {
			placeholder = "signal name"
		}
		body = append(body, m.inputLine("> ", &dialog.Input, placeholder))
	}
	body = append(body, render(styles.Muted, "enter confirm • esc cancel"))
	box := strings.Join(body, "\n")
	if styles.Dialog != nil {
		box = styles.Dialog.Render(box)
	}
	parts := strings.Split(box, "\n")
	lines := make([]styledLine, 0, len(parts))
	for _, p := range parts {
		lines = append(lines, styledLine{text: p, raw: true})
	}
	return lines
}

func (m *Model) helpLines() []styledLine {
	content := m.helpContent()
	start, end := window(len(content), m.helpScroll, m.bodyHeight())
	return content[start:end]
}

func (m *Model) helpMaxScroll() int {
	h := m.bodyHeight()
	if h <= 0 {
		return 0
	}
	if n := len(m.helpContent()) - h; n > 0 {
		return n
	}
	return 0
}

func (m *Model) helpContent() []styledLine {
	lines := []styledLine{
		{text: "Tuiporal - Temporal workflow dashboard", style: styles.Title},
		{},
	}
	add := func(title string, groups [][]key.Binding) {
		lines = append(lines, styledLine{text: title, style: styles.ColumnHeader})
		for _, group := range groups {
			for _, b := range group {
				h := b.Help()
				if h.Key == "" {
					continue
				}
				lines = append(lines, styledLine{
					text: "  " + render(styles.Label, fmt.Sprintf("%-10s", h.Key)) + " " + h.Desc,
					raw:  true,
				})
			}
		}
		lines = append(lines, styledLine{})
	}
	add("Workflows", m.keys.Workflows.FullHelp())
	add("Namespaces", m.keys.Namespaces.FullHelp())
	add("Workflow Detail", m.keys.Detail.FullHelp())
	add("Event Inspector", m.keys.Overlay.FullHelp())
	add("Search & Dialogs", m.keys.Input.FullHelp())
	lines = append(lines,
		styledLine{text: "Tips", style: styles.ColumnHeader},
		styledLine{text: "  Searches use Temporal visibility queries, e.g. WorkflowType='Order' AND StartTime > '2024-01-01T00:00:00Z'"},
		styledLine{text: "  The status filter is combined with the query using AND."},
		styledLine{text: "  Terminate, cancel and signal actions are recorded in the local audit log."},
	)
	return lines
}
