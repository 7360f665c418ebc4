// Package report turns training output into something a person can read:
// terminal renderings of episodes and value maps, HTML learning curves,
// spreadsheets and summary statistics.
package report

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"tiny-qlearn-go/internal/engine"
)

// MovingAverage returns the trailing mean over window entries. The first
// window-1 outputs average whatever is available so far.
func MovingAverage(xs []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(xs))
	var sum float64
	for i, x := range xs {
		sum += x
		if i >= window {
			sum -= xs[i-window]
		}
		n := min(i+1, window)
		out[i] = sum / float64(n)
	}
	return out
}

// TrendSlope fits ys against their index by least squares and returns the
// slope. Fewer than two points have no trend.
func TrendSlope(ys []float64) float64 {
	if len(ys) < 2 {
		return 0
	}
	xs := make([]float64, len(ys))
	floats.Span(xs, 0, float64(len(ys)-1))
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta
}

// WindowMean averages xs[from:to], clamping the bounds to the slice.
func WindowMean(xs []float64, from, to int) float64 {
	from = max(from, 0)
	to = min(to, len(xs))
	if from >= to {
		return 0
	}
	return stat.Mean(xs[from:to], nil)
}

type Summary struct {
	Episodes    int
	Successes   int
	SuccessRate float64
	MeanReward  float64
	MeanSteps   float64
	TotalSteps  int
	BestReward  float64
	RewardTrend float64
	StepsTrend  float64
}

// Summarize condenses metrics; window sets the smoothing applied before the
// reward trend is fitted.
func Summarize(m engine.Metrics, window int) Summary {
	s := Summary{Episodes: m.Len(), Successes: m.Successes}
	if s.Episodes == 0 {
		return s
	}
	steps := m.StepsFloat()
	s.SuccessRate = float64(m.Successes) / float64(s.Episodes)
	s.MeanReward = stat.Mean(m.Rewards, nil)
	s.MeanSteps = stat.Mean(steps, nil)
	s.TotalSteps = int(floats.Sum(steps))
	s.BestReward = floats.Max(m.Rewards)
	s.RewardTrend = TrendSlope(MovingAverage(m.Rewards, window))
	s.StepsTrend = TrendSlope(MovingAverage(steps, window))
	return s
}
