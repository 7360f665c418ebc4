package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tiny-qlearn-go/internal/engine"
)

func TestRunRequiresSubcommand(t *testing.T) {
	if err := run(nil, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error without subcommand")
	}
	if err := run([]string{"evaluate"}, &bytes.Buffer{}); err == nil || !strings.Contains(err.Error(), "unknown subcommand") {
		t.Fatalf("expected unknown subcommand error, got %v", err)
	}
}

func TestTrainWritesReports(t *testing.T) {
	dir := t.TempDir()
	chart := filepath.Join(dir, "curves.html")
	xlsx := filepath.Join(dir, "metrics.xlsx")
	var out bytes.Buffer
	args := []string{"train", "-episodes", "15", "-seed", "3", "-no-color", "-render-every", "5", "-chart", chart, "-xlsx", xlsx}
	if err := run(args, &out); err != nil {
		t.Fatalf("train: %v", err)
	}
	text := out.String()
	for _, want := range []string{"train config => run=", "episode 15:", "path (episode 10,", "summary: episodes=15", "value table:", "chart written to", "workbook written to"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, text)
		}
	}
	for _, p := range []string{chart, xlsx} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s to exist: %v", p, err)
		}
	}
}

func TestTrainQuietSkipsEpisodeLines(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"train", "-episodes", "3", "-quiet", "-no-color"}, &out); err != nil {
		t.Fatalf("train: %v", err)
	}
	if strings.Contains(out.String(), "episode 1:") {
		t.Fatalf("expected quiet run to omit episode lines")
	}
}

func TestTrainRejectsInvalidHyperparameters(t *testing.T) {
	for _, args := range [][]string{
		{"train", "-alpha", "0"},
		{"train", "-epsilon", "1.5"},
		{"train", "-gamma", "-1"},
		{"train", "-episodes", "0"},
	} {
		err := run(args, &bytes.Buffer{})
		if !errors.Is(err, engine.ErrInvalidConfig) {
			t.Fatalf("%v: expected ErrInvalidConfig, got %v", args, err)
		}
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(path, []byte(`{"episodes": 7, "epsilon": 0.3, "grid": {"rows": 4, "cols": 4, "start": {"row": 0, "col": 0}, "goal": {"row": 3, "col": 3}, "goalReward": 1, "stepPenalty": 0.01}}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, cfg, err := parseTrainFlags([]string{"-config", path, "-episodes", "12"})
	if err != nil {
		t.Fatalf("parseTrainFlags: %v", err)
	}
	if cfg.Episodes != 12 {
		t.Fatalf("expected flag to override episodes, got %d", cfg.Episodes)
	}
	if cfg.Epsilon != 0.3 {
		t.Fatalf("expected config file epsilon 0.3 to survive unset flag, got %v", cfg.Epsilon)
	}
	if cfg.Grid.Rows != 4 || cfg.Grid.Goal != (engine.Position{Row: 3, Col: 3}) {
		t.Fatalf("expected grid from config file, got %+v", cfg.Grid)
	}
}
