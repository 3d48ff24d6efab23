package main

import (
	"path/filepath"
	"testing"

	"github.com/atomicstack/tuiporal/internal/cli"
)

func testEnviron(t *testing.T) []string {
	dir := t.TempDir()
	return []string{
		"TUIPORAL_CONFIG=" + filepath.Join(dir, "config.yaml"),
		"TUIPORAL_AUDIT_DB=" + filepath.Join(dir, "audit.db"),
	}
}

func TestRunVersionExitsZero(t *testing.T) {
	if code := run([]string{"version"}, testEnviron(t)); code != cli.ExitOK {
		t.Fatalf("expected exit %d, got %d", cli.ExitOK, code)
	}
}

func TestRunUsageErrorsExitTwo(t *testing.T) {
	for _, args := range [][]string{
		{"--no-such-flag"},
		{"--page-size", "-3"},
		{"--history-page-size", "0"},
	} {
		if code := run(args, testEnviron(t)); code != cli.ExitUsage {
			t.Fatalf("%v: expected exit %d, got %d", args, cli.ExitUsage, code)
		}
	}
}
