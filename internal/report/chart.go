package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"tiny-qlearn-go/internal/engine"
)

// WriteChart renders the learning curves (reward with its moving average,
// steps and cost per episode) as a standalone HTML page.
func WriteChart(w io.Writer, m engine.Metrics, window int) error {
	if m.Len() == 0 {
		return fmt.Errorf("no episodes to plot")
	}
	episodes := make([]string, m.Len())
	for i := range episodes {
		episodes[i] = fmt.Sprintf("%d", i+1)
	}

	rewards := newLine("Reward per episode", "reward", episodes)
	rewards.AddSeries("reward", lineData(m.Rewards))
	rewards.AddSeries(fmt.Sprintf("reward (%d-episode average)", window), lineData(MovingAverage(m.Rewards, window)))

	steps := newLine("Steps per episode", "steps", episodes)
	steps.AddSeries("steps", lineData(m.StepsFloat()))
	steps.AddSeries(fmt.Sprintf("steps (%d-episode average)", window), lineData(MovingAverage(m.StepsFloat(), window)))

	costs := newLine("Cost per episode", "cost", episodes)
	costs.AddSeries("cost", lineData(m.Costs))

	page := components.NewPage()
	page.PageTitle = "Q-learning training"
	page.AddCharts(rewards, steps, costs)
	return page.Render(w)
}

// WriteChartFile is WriteChart into path, creating parent directories.
func WriteChartFile(path string, m engine.Metrics, window int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := WriteChart(f, m, window); err != nil {
		f.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	return f.Close()
}

func newLine(title, yName string, xs []string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "episode"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	line.SetXAxis(xs)
	return line
}

func lineData(values []float64) []opts.LineData {
	items := make([]opts.LineData, 0, len(values))
	for _, v := range values {
		items = append(items, opts.LineData{Value: v})
	}
	return items
}
