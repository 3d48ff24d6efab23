package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/atomicstack/tuiporal/internal/remote"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

type overlayCache struct {
	workflowID string
	eventID    int64
	lines      []string
}

// eventJSON returns the event's attribute JSON, rebuilding it from the
// flattened attributes when the raw form is unavailable.
func eventJSON(ev remote.Event) string {
	if ev.Raw != "" {
		return ev.Raw
	}
	attrs := make(map[string]string, len(ev.Attributes))
	for _, a := range ev.Attributes {
		attrs[a.Key] = a.Value
	}
	data, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// highlightJSON colours src for the terminal, falling back to the plain text
// when highlighting fails.
func highlightJSON(src string) []string {
	var b strings.Builder
	if err := quick.Highlight(&b, src, "json", highlightFormatter, highlightStyle); err != nil {
		return strings.Split(src, "\n")
	}
	return strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
}

// overlayContent returns the highlighted body of the inspected event. The
// result is cached per event since highlighting is comparatively slow.
func (m *Model) overlayContent() []string {
	ev, ok := m.detail.OverlayEvent()
	if !ok {
		return nil
	}
	if c := m.overlay; c != nil && c.workflowID == m.detail.WorkflowID && c.eventID == ev.ID {
		return c.lines
	}
	var lines []string
	if src := eventJSON(ev); src != "" && src != "{}" {
		lines = highlightJSON(src)
	} else {
		lines = []string{"(no attributes)"}
	}
	m.overlay = &overlayCache{workflowID: m.detail.WorkflowID, eventID: ev.ID, lines: lines}
	return lines
}

func (m *Model) overlayCapacity() int {
	h := m.bodyHeight()
	if h < 0 {
		return -1
	}
	if n := h - overlayChrome; n > 0 {
		return n
	}
	return 1
}

func (m *Model) overlayMaxScroll() int {
	capacity := m.overlayCapacity()
	if capacity <= 0 {
		return 0
	}
	if n := len(m.overlayContent()) - capacity; n > 0 {
		return n
	}
	return 0
}

func (m *Model) overlayLines() []styledLine {
	ev, ok := m.detail.OverlayEvent()
	if !ok {
		return []styledLine{{text: "Event no longer available", style: styles.Info}}
	}
	content := m.overlayContent()
	start, end := window(len(content), m.detail.Overlay.Scroll, m.overlayCapacity())
	title := fmt.Sprintf("Event %d · %s · %s", ev.ID, ev.Type, formatTime(ev.Time, "-"))
	if end-start < len(content) {
		title += fmt.Sprintf("  [%d-%d of %d]", start+1, end, len(content))
	}
	lines := []styledLine{{text: title, style: styles.Title}, {}}
	for _, line := range content[start:end] {
		lines = append(lines, styledLine{text: line, raw: true})
	}
	return lines
}
