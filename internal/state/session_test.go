package state

import "testing"

func TestConnectionTransitions(t *testing.T) {
	s := NewSession("local", "localhost:7233", "default")
	if s.Connection.Phase != Disconnected {
		t.Fatalf("expected disconnected, got %s", s.Connection.Phase)
	}
	if err := s.Transition(Connected, ""); err == nil {
		t.Fatalf("expected disconnected -> connected to be rejected")
	}
	steps := []struct {
		phase ConnectionPhase
		msg   string
	}{
		{Connecting, ""},
		{Errored, "connection refused"},
		{Connecting, ""},
		{Connected, ""},
	}
	for _, step := range steps {
		if err := s.Transition(step.phase, step.msg); err != nil {
			t.Fatalf("transition to %s: %v", step.phase, err)
		}
	}
	if s.Connection.Phase != Connected || s.Connection.Message != "" {
		t.Fatalf("unexpected connection %+v", s.Connection)
	}
}

func TestErroredKeepsMessageAndRejectsForwardJump(t *testing.T) {
	s := NewSession("local", "localhost:7233", "default")
	_ = s.Transition(Errored, "no profile named prod")
	if s.Connection.Message != "no profile named prod" {
		t.Fatalf("expected message retained, got %q", s.Connection.Message)
	}
	if err := s.Transition(Connected, ""); err == nil {
		t.Fatalf("expected errored -> connected to be rejected")
	}
	if s.Connection.Phase != Errored {
		t.Fatalf("state changed on rejected transition: %s", s.Connection.Phase)
	}
	if !s.CanRetry() {
		t.Fatalf("expected retry allowed from errored")
	}
}

func TestSetScreenTracksPrevious(t *testing.T) {
	s := NewSession("local", "", "default")
	s.SetScreen(ScreenDetail)
	s.SetScreen(ScreenHelp)
	if s.Previous != ScreenDetail {
		t.Fatalf("expected previous detail, got %s", s.Previous)
	}
	s.SetScreen(ScreenHelp)
	if s.Previous != ScreenDetail {
		t.Fatalf("same-screen switch should not touch previous")
	}
}
