package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Episodes = 0
	cfg.Alpha = 0
	cfg.Epsilon = 3
	cfg.Grid.Goal = Position{Row: 10, Col: 10}
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	for _, want := range []string{"episodes", "alpha", "epsilon", "goal"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %q, got %v", want, err)
		}
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gamma = 1.5
	if _, err := cfg.Build(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	body := `{
		"episodes": 40,
		"alpha": 0.25,
		"maxEpisodeSteps": 300,
		"grid": {"rows": 4, "cols": 6, "start": {"row": 3, "col": 0}, "goal": {"row": 0, "col": 5}, "goalReward": 2, "stepPenalty": 0.05, "walls": [{"row": 1, "col": 1}]}
	}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Episodes != 40 || cfg.Alpha != 0.25 || cfg.MaxEpisodeSteps != 300 {
		t.Fatalf("expected overrides to apply, got %+v", cfg)
	}
	if cfg.Gamma != 0.9 || cfg.Epsilon != 0.1 || cfg.Seed != 1 {
		t.Fatalf("expected defaults to survive, got %+v", cfg)
	}
	if cfg.Grid.Rows != 4 || cfg.Grid.Cols != 6 || cfg.Grid.Goal != (Position{Row: 0, Col: 5}) || len(cfg.Grid.Walls) != 1 {
		t.Fatalf("expected grid overrides, got %+v", cfg.Grid)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected loaded config to validate, got %v", err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNormalizeSeed(t *testing.T) {
	if normalizeSeed(0) != 1 {
		t.Fatalf("expected seed 0 to map to 1")
	}
	if normalizeSeed(17) != 17 {
		t.Fatalf("expected non-zero seed to pass through")
	}
}
