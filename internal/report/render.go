package report

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"

	"tiny-qlearn-go/internal/engine"
)

// PathRenderer prints a visit heatmap of an episode's trajectory over the
// grid. It satisfies engine.EpisodeObserver.
type PathRenderer struct {
	w     io.Writer
	env   *engine.GridWorld
	au    aurora.Aurora
	every int
}

// NewPathRenderer renders every Nth episode (every <= 1 renders all of them).
func NewPathRenderer(w io.Writer, env *engine.GridWorld, every int, color bool) *PathRenderer {
	if every < 1 {
		every = 1
	}
	return &PathRenderer{w: w, env: env, au: aurora.NewAurora(color), every: every}
}

func (p *PathRenderer) ObserveEpisode(ep engine.Episode[engine.Position]) {
	if ep.Index%p.every != 0 {
		return
	}
	visits := make(map[engine.Position]int, len(ep.Trajectory))
	for _, s := range ep.Trajectory {
		visits[s]++
	}
	status := p.au.Green("goal")
	if !ep.Reached {
		status = p.au.Red("truncated")
	}
	fmt.Fprintf(p.w, "path (episode %d, %s, steps=%d, reward=%.2f)\n", ep.Index, status, ep.Steps, ep.Reward)
	for r := 0; r < p.env.Rows(); r++ {
		for c := 0; c < p.env.Cols(); c++ {
			pos := engine.Position{Row: r, Col: c}
			fmt.Fprint(p.w, p.cell(pos, visits[pos]))
		}
		fmt.Fprintln(p.w)
	}
}

func (p *PathRenderer) cell(pos engine.Position, count int) aurora.Value {
	switch {
	case p.env.IsWall(pos):
		return p.au.Faint("  # ")
	case pos == p.env.Goal():
		return p.au.Bold(p.au.Green(fmt.Sprintf("%3s ", "G")))
	case pos == p.env.Start():
		return p.au.Cyan(fmt.Sprintf("%3d ", count))
	case count == 0:
		return p.au.Faint("  . ")
	case count == 1:
		return p.au.Blue(fmt.Sprintf("%3d ", count))
	}
	return p.au.Yellow(fmt.Sprintf("%3d ", count))
}

var arrows = map[engine.Action]string{
	engine.ActionUp:    "^",
	engine.ActionDown:  "v",
	engine.ActionLeft:  "<",
	engine.ActionRight: ">",
}

// RenderValueMap prints max_a Q(s,a) and the greedy action for every cell.
// Unvisited cells show as dots.
func RenderValueMap(w io.Writer, env *engine.GridWorld, q *engine.QTable[engine.Position], color bool) {
	au := aurora.NewAurora(color)
	values := env.ValueMap(q)
	fmt.Fprintln(w, "value table:")
	for r := 0; r < env.Rows(); r++ {
		for c := 0; c < env.Cols(); c++ {
			pos := engine.Position{Row: r, Col: c}
			switch {
			case env.IsWall(pos):
				fmt.Fprint(w, au.Faint(fmt.Sprintf("%8s ", "#")))
			case pos == env.Goal():
				fmt.Fprint(w, au.Bold(au.Green(fmt.Sprintf("%8s ", "G"))))
			case !q.Has(pos):
				fmt.Fprint(w, au.Faint(fmt.Sprintf("%8s ", ".")))
			case values[r][c] < 0:
				fmt.Fprint(w, au.Red(fmt.Sprintf("%6.2f %s ", values[r][c], arrows[q.Greedy(pos)])))
			default:
				fmt.Fprint(w, au.Blue(fmt.Sprintf("%6.2f %s ", values[r][c], arrows[q.Greedy(pos)])))
			}
		}
		fmt.Fprintln(w)
	}
}
