package engine

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Episode is what the trainer reports after each finished episode.
// Trajectory runs from the reset state to the last state reached, inclusive;
// Actions[i] moved Trajectory[i] to Trajectory[i+1].
type Episode[S comparable] struct {
	Index      int
	Trajectory []S
	Actions    []Action
	Reward     float64
	Steps      int
	Reached    bool
	Truncated  bool
}

// Cost is the negated total reward.
func (e Episode[S]) Cost() float64 {
	return -e.Reward
}

// EpisodeObserver receives every finished episode. The trajectory is not
// read again by the trainer once handed over.
type EpisodeObserver[S comparable] interface {
	ObserveEpisode(ep Episode[S])
}

// ObserverFunc adapts a function to EpisodeObserver.
type ObserverFunc[S comparable] func(ep Episode[S])

func (f ObserverFunc[S]) ObserveEpisode(ep Episode[S]) {
	f(ep)
}

// Metrics holds one entry per completed episode, in episode order.
type Metrics struct {
	Rewards   []float64 `json:"rewards"`
	Steps     []int     `json:"steps"`
	Costs     []float64 `json:"costs"`
	Successes int       `json:"successes"`
}

func (m *Metrics) append(reward float64, steps int, reached bool) {
	m.Rewards = append(m.Rewards, reward)
	m.Steps = append(m.Steps, steps)
	m.Costs = append(m.Costs, -reward)
	if reached {
		m.Successes++
	}
}

func (m Metrics) Len() int {
	return len(m.Rewards)
}

// StepsFloat returns the step counts as float64 for numeric helpers.
func (m Metrics) StepsFloat() []float64 {
	out := make([]float64, len(m.Steps))
	for i, s := range m.Steps {
		out[i] = float64(s)
	}
	return out
}

// TrainerOption configures a Trainer.
type TrainerOption[S comparable] func(*Trainer[S])

// WithMaxEpisodeSteps truncates episodes after n steps. n <= 0 leaves
// episodes unbounded.
func WithMaxEpisodeSteps[S comparable](n int) TrainerOption[S] {
	return func(t *Trainer[S]) {
		if n < 0 {
			n = 0
		}
		t.maxSteps = n
	}
}

// WithObserver registers an observer for finished episodes.
func WithObserver[S comparable](o EpisodeObserver[S]) TrainerOption[S] {
	return func(t *Trainer[S]) {
		if o != nil {
			t.observers = append(t.observers, o)
		}
	}
}

// Trainer drives an agent through episodes of an environment. The agent's
// table persists across episodes; only the environment is reset.
type Trainer[S comparable] struct {
	env       Environment[S]
	agent     *Agent[S]
	maxSteps  int
	observers []EpisodeObserver[S]
	episodes  int
	steps     int
}

func NewTrainer[S comparable](env Environment[S], agent *Agent[S], opts ...TrainerOption[S]) *Trainer[S] {
	t := &Trainer[S]{env: env, agent: agent}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Observe registers another observer; it sees episodes finished from now on.
func (t *Trainer[S]) Observe(o EpisodeObserver[S]) {
	WithObserver(o)(t)
}

// Train runs episodes one after another. Zero episodes yields empty metrics.
// On cancellation it returns the metrics of the episodes that completed
// together with ctx.Err().
func (t *Trainer[S]) Train(ctx context.Context, episodes int) (Metrics, error) {
	ctx, span := otel.Tracer("engine").Start(ctx, "engine.Train")
	defer span.End()
	span.SetAttributes(
		attribute.Int("episodes.requested", episodes),
		attribute.Int("episodes.max_steps", t.maxSteps),
	)

	var m Metrics
	if episodes < 0 {
		err := fmt.Errorf("%w: episodes must not be negative (got %d)", ErrInvalidConfig, episodes)
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid episode count")
		return m, err
	}
	m.Rewards = make([]float64, 0, episodes)
	m.Steps = make([]int, 0, episodes)
	m.Costs = make([]float64, 0, episodes)
	for i := 0; i < episodes; i++ {
		ep, err := t.runEpisode(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "training cancelled")
			span.SetAttributes(attribute.Int("episodes.completed", m.Len()))
			return m, err
		}
		m.append(ep.Reward, ep.Steps, ep.Reached)
		for _, o := range t.observers {
			o.ObserveEpisode(ep)
		}
	}
	span.SetAttributes(
		attribute.Int("episodes.completed", m.Len()),
		attribute.Int("episodes.successful", m.Successes),
		attribute.Int("steps.total", t.steps),
	)
	return m, nil
}

// runEpisode numbers episodes over the trainer's lifetime, starting at 1.
func (t *Trainer[S]) runEpisode(ctx context.Context) (Episode[S], error) {
	state := t.env.Reset()
	ep := Episode[S]{Index: t.episodes + 1, Trajectory: []S{state}}
	for {
		select {
		case <-ctx.Done():
			return ep, ctx.Err()
		default:
		}
		action := t.agent.SelectAction(state)
		next, reward, done := t.env.Step(action)
		t.agent.Update(state, action, reward, next)
		ep.Trajectory = append(ep.Trajectory, next)
		ep.Actions = append(ep.Actions, action)
		ep.Reward += reward
		ep.Steps++
		t.steps++
		state = next
		if done {
			ep.Reached = true
			break
		}
		if t.maxSteps > 0 && ep.Steps >= t.maxSteps {
			ep.Truncated = true
			break
		}
	}
	t.episodes++
	return ep, nil
}

// EpisodesCompleted counts episodes finished over the trainer's lifetime.
func (t *Trainer[S]) EpisodesCompleted() int {
	return t.episodes
}

// TotalSteps counts environment steps over the trainer's lifetime.
func (t *Trainer[S]) TotalSteps() int {
	return t.steps
}

func (t *Trainer[S]) Agent() *Agent[S] {
	return t.agent
}
