package theme

import (
	"github.com/atomicstack/tuiporal/internal/remote"
	"github.com/charmbracelet/lipgloss"
)

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Loading           *lipgloss.Style
	Item              *lipgloss.Style
	SelectedItem      *lipgloss.Style
	Error             *lipgloss.Style
	Info              *lipgloss.Style
	Header            *lipgloss.Style
	Tab               *lipgloss.Style
	ActiveTab         *lipgloss.Style
	Title             *lipgloss.Style
	ColumnHeader      *lipgloss.Style
	Label             *lipgloss.Style
	Muted             *lipgloss.Style
	Filter            *lipgloss.Style
	FilterPrompt      *lipgloss.Style
	FilterPlaceholder *lipgloss.Style
	Cursor            *lipgloss.Style
	Banner            *lipgloss.Style
	BannerError       *lipgloss.Style
	Dialog            *lipgloss.Style
	Spinner           *lipgloss.Style
}

var defaultStyles = Styles{
	Loading: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Tab: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
	),
	ActiveTab: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Bold(true).Padding(0, 1),
	),
	Title: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	ColumnHeader: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	),
	Label: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("37")),
	),
	Muted: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Blink(true),
	),
	Banner: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	BannerError: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Dialog: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("220")).Padding(0, 1),
	),
	Spinner: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	),
}

var (
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	blue    = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	grey    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Status returns the colour used for a workflow execution status.
func Status(status remote.Status) lipgloss.Style {
	switch status {
	case remote.StatusRunning:
		return yellow
	case remote.StatusCompleted:
		return green
	case remote.StatusFailed, remote.StatusTerminated, remote.StatusTimedOut:
		return red
	case remote.StatusCanceled:
		return magenta
	case remote.StatusContinuedAsNew:
		return blue
	default:
		return grey
	}
}

// Connection returns the colour of the header's connection dot.
func Connection(phase string) lipgloss.Style {
	switch phase {
	case "connected":
		return green
	case "connecting":
		return yellow
	case "errored":
		return red
	default:
		return grey
	}
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
