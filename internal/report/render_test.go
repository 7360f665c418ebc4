package report

import (
	"bytes"
	"strings"
	"testing"

	"tiny-qlearn-go/internal/engine"
)

func testGrid(t *testing.T) *engine.GridWorld {
	t.Helper()
	cfg := engine.GridConfig{
		Rows:        3,
		Cols:        3,
		Start:       engine.Position{Row: 0, Col: 0},
		Goal:        engine.Position{Row: 2, Col: 2},
		GoalReward:  1,
		StepPenalty: 0.01,
		Walls:       []engine.Position{{Row: 1, Col: 1}},
	}
	g, err := engine.NewGridWorld(cfg, nil)
	if err != nil {
		t.Fatalf("NewGridWorld: %v", err)
	}
	return g
}

func TestPathRendererDrawsTrajectory(t *testing.T) {
	var buf bytes.Buffer
	r := NewPathRenderer(&buf, testGrid(t), 1, false)
	r.ObserveEpisode(engine.Episode[engine.Position]{
		Index: 1,
		Trajectory: []engine.Position{
			{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 1, Col: 2}, {Row: 2, Col: 2},
		},
		Steps:   5,
		Reward:  0.96,
		Reached: true,
	})
	want := strings.Join([]string{
		"path (episode 1, goal, steps=5, reward=0.96)",
		"  1   2   1 ",
		"  .   #   1 ",
		"  .   .   G ",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("expected\n%s\ngot\n%s", want, got)
	}
}

func TestPathRendererSkipsEpisodes(t *testing.T) {
	var buf bytes.Buffer
	r := NewPathRenderer(&buf, testGrid(t), 5, false)
	for i := 1; i <= 9; i++ {
		r.ObserveEpisode(engine.Episode[engine.Position]{Index: i, Trajectory: []engine.Position{{}}, Truncated: true})
	}
	if got := strings.Count(buf.String(), "path (episode"); got != 1 {
		t.Fatalf("expected 1 rendered episode, got %d", got)
	}
	if !strings.Contains(buf.String(), "episode 5, truncated") {
		t.Fatalf("expected episode 5 marked truncated, got %q", buf.String())
	}
}

func TestRenderValueMap(t *testing.T) {
	g := testGrid(t)
	agent, err := engine.NewAgent[engine.Position](g.Actions(), engine.Hyperparameters{Alpha: 1, Gamma: 0, Epsilon: 0}, nil)
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	agent.Update(engine.Position{Row: 0, Col: 0}, engine.ActionRight, 0.5, engine.Position{Row: 0, Col: 1})
	agent.Update(engine.Position{Row: 1, Col: 0}, engine.ActionUp, -0.25, engine.Position{Row: 0, Col: 0})

	var buf bytes.Buffer
	RenderValueMap(&buf, g, agent.Q(), false)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[1], "  0.50 > ") {
		t.Fatalf("expected (0,0) to show 0.50 >, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "#") {
		t.Fatalf("expected wall marker on row 1, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "G") {
		t.Fatalf("expected goal marker on row 2, got %q", lines[3])
	}
}
