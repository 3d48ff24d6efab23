// Package state holds the process-wide dashboard session: the active screen,
// the connection state machine and the current namespace.
package state

import (
	"fmt"

	"github.com/atomicstack/tuiporal/internal/logging/events"
)

// Screen identifies the screen that receives input and is rendered.
type Screen int

const (
	ScreenWorkflows Screen = iota
	ScreenDetail
	ScreenNamespaces
	ScreenHelp
)

func (s Screen) String() string {
	switch s {
	case ScreenWorkflows:
		return "workflows"
	case ScreenDetail:
		return "detail"
	case ScreenNamespaces:
		return "namespaces"
	case ScreenHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ConnectionPhase is the coarse state of the connection.
type ConnectionPhase int

const (
	Disconnected ConnectionPhase = iota
	Connecting
	Connected
	Errored
)

func (p ConnectionPhase) String() string {
	switch p {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

var allowedTransitions = map[ConnectionPhase][]ConnectionPhase{
	Disconnected: {Connecting, Errored},
	Connecting:   {Connected, Errored},
	Connected:    {Connecting, Errored},
	Errored:      {Connecting},
}

// Connection is the connection state with the message carried by Errored.
type Connection struct {
	Phase   ConnectionPhase
	Message string
}

// Session is the single dashboard session owned by the main loop.
type Session struct {
	Screen     Screen
	Previous   Screen
	Connection Connection
	Namespace  string
	Profile    string
	Address    string
}

// NewSession returns a disconnected session on the workflow list.
func NewSession(profile, address, namespace string) *Session {
	return &Session{
		Screen:    ScreenWorkflows,
		Previous:  ScreenWorkflows,
		Namespace: namespace,
		Profile:   profile,
		Address:   address,
	}
}

// SetScreen switches the active screen, remembering the previous one for
// screens that return to it.
func (s *Session) SetScreen(screen Screen) {
	if s.Screen == screen {
		return
	}
	events.UI.Screen(s.Screen.String(), screen.String())
	s.Previous = s.Screen
	s.Screen = screen
}

// Transition moves the connection to phase. Disallowed transitions return an
// error and leave the state unchanged.
func (s *Session) Transition(phase ConnectionPhase, message string) error {
	from := s.Connection.Phase
	if !canTransition(from, phase) {
		return fmt.Errorf("connection: invalid transition %s -> %s", from, phase)
	}
	events.Connection.Transition(from.String(), phase.String(), message)
	s.Connection = Connection{Phase: phase}
	if phase == Errored {
		s.Connection.Message = message
	}
	return nil
}

// CanRetry reports whether a manual reconnect is allowed.
func (s *Session) CanRetry() bool {
	return canTransition(s.Connection.Phase, Connecting)
}

func canTransition(from, to ConnectionPhase) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
