package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every construction-time validation failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrNoActions is returned when an environment declares an empty action set.
	ErrNoActions = errors.New("empty action set")
)

// Action identifies one member of an environment's action set.
type Action int

// Environment is the whole contract between the agent and the world it acts in.
// Actions must return the same ordered slice for the lifetime of the
// environment; the order decides greedy tie-breaks.
type Environment[S comparable] interface {
	Reset() S
	State() S
	Actions() []Action
	Step(action Action) (next S, reward float64, done bool)
}

func validateActions(actions []Action) error {
	if len(actions) == 0 {
		return ErrNoActions
	}
	seen := make(map[Action]struct{}, len(actions))
	for _, a := range actions {
		if _, ok := seen[a]; ok {
			return fmt.Errorf("%w: duplicate action %d", ErrInvalidConfig, a)
		}
		seen[a] = struct{}{}
	}
	return nil
}
