package engine

import (
	"errors"
	"fmt"
	"math/rand"
)

// Hyperparameters are fixed for the lifetime of an Agent.
type Hyperparameters struct {
	Alpha   float64 `json:"alpha"`
	Gamma   float64 `json:"gamma"`
	Epsilon float64 `json:"epsilon"`
}

func (p Hyperparameters) validate() error {
	var errs []error
	if !(p.Alpha > 0 && p.Alpha <= 1) {
		errs = append(errs, fmt.Errorf("%w: alpha must be in (0, 1] (got %g)", ErrInvalidConfig, p.Alpha))
	}
	if !(p.Gamma >= 0 && p.Gamma <= 1) {
		errs = append(errs, fmt.Errorf("%w: gamma must be in [0, 1] (got %g)", ErrInvalidConfig, p.Gamma))
	}
	if !(p.Epsilon >= 0 && p.Epsilon <= 1) {
		errs = append(errs, fmt.Errorf("%w: epsilon must be in [0, 1] (got %g)", ErrInvalidConfig, p.Epsilon))
	}
	return errors.Join(errs...)
}

// Agent is an epsilon-greedy tabular Q-learner.
type Agent[S comparable] struct {
	rng     *rand.Rand
	actions []Action
	params  Hyperparameters
	q       *QTable[S]
}

// NewAgent builds an agent for the given action set. A nil rng is replaced by
// one seeded with 1.
func NewAgent[S comparable](actions []Action, params Hyperparameters, rng *rand.Rand) (*Agent[S], error) {
	if err := validateActions(actions); err != nil {
		return nil, err
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	q := newQTable[S](actions)
	return &Agent[S]{rng: rng, actions: q.actions, params: params, q: q}, nil
}

// EnsureState initialises the row for state if needed.
func (a *Agent[S]) EnsureState(state S) {
	a.q.EnsureState(state)
}

// SelectAction explores uniformly with probability epsilon and otherwise
// takes the greedy action. The state is initialised as a side effect.
func (a *Agent[S]) SelectAction(state S) Action {
	a.q.EnsureState(state)
	if a.rng.Float64() < a.params.Epsilon {
		return a.actions[a.rng.Intn(len(a.actions))]
	}
	return a.q.Greedy(state)
}

// Update applies the one-step Q-learning rule
//
//	Q(s,a) += alpha * (r + gamma*max Q(s',.) - Q(s,a))
//
// next is bootstrapped even when it is terminal; its row stays at zero since
// no update ever originates from a terminal state.
func (a *Agent[S]) Update(state S, action Action, reward float64, next S) {
	a.q.EnsureState(state)
	a.q.EnsureState(next)
	current := a.q.Value(state, action)
	target := reward + a.params.Gamma*a.q.Max(next)
	a.q.set(state, action, current+a.params.Alpha*(target-current))
}

// Q exposes the value table for reading.
func (a *Agent[S]) Q() *QTable[S] {
	return a.q
}

func (a *Agent[S]) Hyperparameters() Hyperparameters {
	return a.params
}
