package engine

import (
	"cmp"
	"errors"
	"fmt"
	"math/rand"
	"slices"
)

const (
	ActionUp Action = iota
	ActionDown
	ActionLeft
	ActionRight
)

var gridActions = []Action{ActionUp, ActionDown, ActionLeft, ActionRight}

func (a Action) String() string {
	switch a {
	case ActionUp:
		return "up"
	case ActionDown:
		return "down"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Position is a grid cell and the state type of GridWorld.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Compare orders positions row-major.
func (p Position) Compare(other Position) int {
	if c := cmp.Compare(p.Row, other.Row); c != 0 {
		return c
	}
	return cmp.Compare(p.Col, other.Col)
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// ComparePositions is Position.Compare as a plain function, for QTable.States.
func ComparePositions(a, b Position) int {
	return a.Compare(b)
}

// SlipTile makes the chosen action be replaced by a random one with the given
// probability while standing on it.
type SlipTile struct {
	Row         int     `json:"row"`
	Col         int     `json:"col"`
	Probability float64 `json:"probability"`
}

// GridConfig describes a rectangular grid world.
type GridConfig struct {
	Rows        int        `json:"rows"`
	Cols        int        `json:"cols"`
	Start       Position   `json:"start"`
	Goal        Position   `json:"goal"`
	GoalReward  float64    `json:"goalReward"`
	StepPenalty float64    `json:"stepPenalty"`
	Walls       []Position `json:"walls,omitempty"`
	SlipTiles   []SlipTile `json:"slipTiles,omitempty"`
}

type tileKind int

const (
	tileEmpty tileKind = iota
	tileWall
	tileSlip
)

type tile struct {
	kind     tileKind
	slipProb float64
}

// GridWorld moves one cell per step. Moves off the board or into a wall leave
// the position unchanged but still cost a step. Reaching the goal ends the
// episode with GoalReward; every other step yields -StepPenalty.
type GridWorld struct {
	rows, cols  int
	start       Position
	goal        Position
	goalReward  float64
	stepPenalty float64
	curr        Position
	tiles       map[Position]tile
	rng         *rand.Rand
}

// NewGridWorld validates cfg and returns a world positioned at its start.
// rng is only consulted on slip tiles and may be nil when there are none.
func NewGridWorld(cfg GridConfig, rng *rand.Rand) (*GridWorld, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(cfg.SlipTiles) > 0 && rng == nil {
		return nil, fmt.Errorf("%w: slip tiles need a random source", ErrInvalidConfig)
	}
	g := &GridWorld{
		rows:        cfg.Rows,
		cols:        cfg.Cols,
		start:       cfg.Start,
		goal:        cfg.Goal,
		goalReward:  cfg.GoalReward,
		stepPenalty: cfg.StepPenalty,
		curr:        cfg.Start,
		tiles:       make(map[Position]tile),
		rng:         rng,
	}
	for _, w := range cfg.Walls {
		g.tiles[w] = tile{kind: tileWall}
	}
	for _, s := range cfg.SlipTiles {
		g.tiles[Position{Row: s.Row, Col: s.Col}] = tile{kind: tileSlip, slipProb: s.Probability}
	}
	return g, nil
}

func (c GridConfig) validate() error {
	var errs []error
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("%w: grid must be at least 1x1 (got %dx%d)", ErrInvalidConfig, c.Rows, c.Cols)
	}
	inside := func(p Position) bool {
		return p.Row >= 0 && p.Row < c.Rows && p.Col >= 0 && p.Col < c.Cols
	}
	if !inside(c.Start) {
		errs = append(errs, fmt.Errorf("%w: start %v outside %dx%d grid", ErrInvalidConfig, c.Start, c.Rows, c.Cols))
	}
	if !inside(c.Goal) {
		errs = append(errs, fmt.Errorf("%w: goal %v outside %dx%d grid", ErrInvalidConfig, c.Goal, c.Rows, c.Cols))
	}
	if !(c.StepPenalty >= 0) {
		errs = append(errs, fmt.Errorf("%w: step penalty must not be negative (got %g)", ErrInvalidConfig, c.StepPenalty))
	}
	if c.Start == c.Goal {
		errs = append(errs, fmt.Errorf("%w: start and goal coincide at %v", ErrInvalidConfig, c.Start))
	}
	for _, w := range c.Walls {
		switch {
		case !inside(w):
			errs = append(errs, fmt.Errorf("%w: wall %v outside grid", ErrInvalidConfig, w))
		case w == c.Start || w == c.Goal:
			errs = append(errs, fmt.Errorf("%w: wall %v on start or goal", ErrInvalidConfig, w))
		}
	}
	for _, s := range c.SlipTiles {
		p := Position{Row: s.Row, Col: s.Col}
		if !inside(p) {
			errs = append(errs, fmt.Errorf("%w: slip tile %v outside grid", ErrInvalidConfig, p))
		}
		if s.Probability < 0 || s.Probability > 1 {
			errs = append(errs, fmt.Errorf("%w: slip probability %g at %v not in [0, 1]", ErrInvalidConfig, s.Probability, p))
		}
	}
	return errors.Join(errs...)
}

func (g *GridWorld) Reset() Position {
	g.curr = g.start
	return g.curr
}

func (g *GridWorld) State() Position {
	return g.curr
}

func (g *GridWorld) Actions() []Action {
	return slices.Clone(gridActions)
}

func (g *GridWorld) Step(action Action) (Position, float64, bool) {
	next := g.NextPosition(g.resolveAction(action))
	g.curr = next
	if next == g.goal {
		return next, g.goalReward, true
	}
	return next, -g.stepPenalty, false
}

// NextPosition returns where action would lead from the current position
// without moving.
func (g *GridWorld) NextPosition(action Action) Position {
	row, col := g.curr.Row, g.curr.Col
	switch action {
	case ActionUp:
		row--
	case ActionDown:
		row++
	case ActionLeft:
		col--
	case ActionRight:
		col++
	}
	if row < 0 {
		row = 0
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	if col < 0 {
		col = 0
	}
	if col >= g.cols {
		col = g.cols - 1
	}
	next := Position{Row: row, Col: col}
	if g.tileAt(next).kind == tileWall {
		return g.curr
	}
	return next
}

func (g *GridWorld) resolveAction(action Action) Action {
	t := g.tileAt(g.curr)
	if t.kind != tileSlip || t.slipProb <= 0 {
		return action
	}
	if t.slipProb >= 1 || g.rng.Float64() < t.slipProb {
		return gridActions[g.rng.Intn(len(gridActions))]
	}
	return action
}

func (g *GridWorld) tileAt(p Position) tile {
	if t, ok := g.tiles[p]; ok {
		return t
	}
	return tile{kind: tileEmpty}
}

func (g *GridWorld) Rows() int { return g.rows }
func (g *GridWorld) Cols() int { return g.cols }
func (g *GridWorld) Start() Position { return g.start }
func (g *GridWorld) Goal() Position { return g.goal }

// Contains reports whether p lies on the board.
func (g *GridWorld) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

func (g *GridWorld) IsWall(p Position) bool {
	return g.tileAt(p).kind == tileWall
}

// Walls lists wall cells in row-major order.
func (g *GridWorld) Walls() []Position {
	var walls []Position
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			p := Position{Row: r, Col: c}
			if g.IsWall(p) {
				walls = append(walls, p)
			}
		}
	}
	return walls
}

// ValueMap returns max_a Q(cell, a) for every cell, 0 for unvisited ones.
func (g *GridWorld) ValueMap(q *QTable[Position]) [][]float64 {
	values := make([][]float64, g.rows)
	for r := 0; r < g.rows; r++ {
		values[r] = make([]float64, g.cols)
		for c := 0; c < g.cols; c++ {
			values[r][c] = q.Max(Position{Row: r, Col: c})
		}
	}
	return values
}
