package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
)

// Config gathers everything needed to build a grid world training run.
type Config struct {
	Episodes        int   `json:"episodes"`
	Seed            int64 `json:"seed"`
	MaxEpisodeSteps int   `json:"maxEpisodeSteps"`
	Hyperparameters
	Grid GridConfig `json:"grid"`
}

// DefaultConfig is the 5x5 reference scenario.
func DefaultConfig() Config {
	return Config{
		Episodes: 100,
		Seed:     1,
		Hyperparameters: Hyperparameters{
			Alpha:   0.1,
			Gamma:   0.9,
			Epsilon: 0.1,
		},
		Grid: GridConfig{
			Rows:        5,
			Cols:        5,
			Start:       Position{Row: 0, Col: 0},
			Goal:        Position{Row: 4, Col: 4},
			GoalReward:  1.0,
			StepPenalty: 0.01,
		},
	}
}

// LoadConfig decodes a JSON file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: decode %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// Validate reports every problem found, each wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	if c.Episodes <= 0 {
		errs = append(errs, fmt.Errorf("%w: episodes must be positive (got %d)", ErrInvalidConfig, c.Episodes))
	}
	if c.MaxEpisodeSteps < 0 {
		errs = append(errs, fmt.Errorf("%w: maxEpisodeSteps must not be negative (got %d)", ErrInvalidConfig, c.MaxEpisodeSteps))
	}
	errs = append(errs, c.Hyperparameters.validate(), c.Grid.validate())
	return errors.Join(errs...)
}

// Run bundles the pieces Build wires together.
type Run struct {
	Config  Config
	Env     *GridWorld
	Agent   *Agent[Position]
	Trainer *Trainer[Position]
}

// Build validates c and wires a grid world, an agent and a trainer sharing
// one seeded random source.
func (c Config) Build(observers ...EpisodeObserver[Position]) (*Run, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(normalizeSeed(c.Seed)))
	env, err := NewGridWorld(c.Grid, rng)
	if err != nil {
		return nil, err
	}
	agent, err := NewAgent[Position](env.Actions(), c.Hyperparameters, rng)
	if err != nil {
		return nil, err
	}
	opts := []TrainerOption[Position]{WithMaxEpisodeSteps[Position](c.MaxEpisodeSteps)}
	for _, o := range observers {
		opts = append(opts, WithObserver(o))
	}
	return &Run{
		Config:  c,
		Env:     env,
		Agent:   agent,
		Trainer: NewTrainer[Position](env, agent, opts...),
	}, nil
}

func normalizeSeed(seed int64) int64 {
	if seed == 0 {
		return 1
	}
	return seed
}
