package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/sokoban/game/config"
)

func writeLevel(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write level: %v", err)
	}
	return path
}

func TestRun_BuiltinLevelSolved(t *testing.T) {
	var out bytes.Buffer
	if err := run(&out, "", false, false, []string{"east,west", "south", "east"}); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if !strings.Contains(out.String(), "Level complete") {
		t.Errorf("Expected completion in output:\n%s", out.String())
	}
}

func TestRun_NotFinishedExitsNonZero(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, "", false, false, []string{"north"})

	var exitErr cli.ExitCoder
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		t.Fatalf("Expected exit code 1, got %v", err)
	}
}

func TestRun_YAMLLevelWithAnalysis(t *testing.T) {
	path := writeLevel(t, "corridor.yaml", `name: corridor
description: One push
layout:
  - "#####"
  - "#@$.#"
  - "#####"
`)

	var out bytes.Buffer
	if err := run(&out, path, true, false, []string{"e"}); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	text := out.String()
	for _, want := range []string{"=== Analyzing corridor ===", "Every box and goal is reachable", "Level: corridor", "# @*#"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
}

func TestRun_JSONOutput(t *testing.T) {
	path := writeLevel(t, "corridor.json", `{"name":"corridor","layout":["#####","#@$.#","#####"]}`)

	var out bytes.Buffer
	if err := run(&out, path, false, true, []string{"east"}); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	var report struct {
		Level    string `json:"level"`
		Finished bool   `json:"finished"`
		Pushes   int    `json:"pushes"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("Invalid JSON output: %v\n%s", err, out.String())
	}
	if report.Level != "corridor" || !report.Finished || report.Pushes != 1 {
		t.Errorf("Unexpected report: %+v", report)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		level string
		args  []string
		check func(error) bool
	}{
		{
			name:  "missing level file",
			level: filepath.Join(t.TempDir(), "missing.json"),
			check: func(err error) bool { return errors.Is(err, config.ErrLevelNotFound) },
		},
		{
			name:  "unknown command",
			args:  []string{"east", "jump"},
			check: func(err error) bool { return err != nil && strings.Contains(err.Error(), "command 2") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(&out, tt.level, false, false, tt.args)
			if !tt.check(err) {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestNewCommand(t *testing.T) {
	cmd := newCommand(&bytes.Buffer{})
	if cmd.Name != "replay" {
		t.Errorf("Expected command name replay, got %s", cmd.Name)
	}
	names := map[string]bool{}
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, want := range []string{"level", "l", "analyze", "json"} {
		if !names[want] {
			t.Errorf("Expected flag %q", want)
		}
	}
}
