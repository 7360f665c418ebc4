package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/google/uuid"

	"tiny-qlearn-go/internal/engine"
	"tiny-qlearn-go/internal/report"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "tinyq: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return errors.New("missing subcommand; try 'train'")
	}

	subcommand := args[0]
	switch subcommand {
	case "train":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return runTrain(ctx, args[1:], stdout)
	default:
		return fmt.Errorf("unknown subcommand %q", subcommand)
	}
}

type trainFlags struct {
	configPath  string
	episodes    int
	seed        int64
	alpha       float64
	gamma       float64
	epsilon     float64
	maxSteps    int
	renderEvery int
	noColor     bool
	chartPath   string
	xlsxPath    string
	window      int
	quiet       bool
}

func parseTrainFlags(args []string) (trainFlags, engine.Config, error) {
	def := engine.DefaultConfig()
	var tf trainFlags
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&tf.configPath, "config", "", "JSON config file (flags override it)")
	fs.IntVar(&tf.episodes, "episodes", def.Episodes, "number of training episodes")
	fs.Int64Var(&tf.seed, "seed", def.Seed, "deterministic seed (0 for default)")
	fs.Float64Var(&tf.alpha, "alpha", def.Alpha, "learning rate (0-1]")
	fs.Float64Var(&tf.gamma, "gamma", def.Gamma, "discount factor [0-1]")
	fs.Float64Var(&tf.epsilon, "epsilon", def.Epsilon, "exploration rate [0-1]")
	fs.IntVar(&tf.maxSteps, "max-steps", def.MaxEpisodeSteps, "truncate episodes after this many steps (0 = unbounded)")
	fs.IntVar(&tf.renderEvery, "render-every", 0, "print the path of every Nth episode (0 = never)")
	fs.BoolVar(&tf.noColor, "no-color", false, "disable coloured output")
	fs.StringVar(&tf.chartPath, "chart", "", "write learning curves to this HTML file")
	fs.StringVar(&tf.xlsxPath, "xlsx", "", "write per-episode metrics to this xlsx file")
	fs.IntVar(&tf.window, "window", 10, "moving average window for summaries and charts")
	fs.BoolVar(&tf.quiet, "quiet", false, "suppress per-episode lines")

	if err := fs.Parse(args); err != nil {
		return tf, def, err
	}

	cfg := def
	if tf.configPath != "" {
		loaded, err := engine.LoadConfig(tf.configPath)
		if err != nil {
			return tf, cfg, err
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "episodes":
			cfg.Episodes = tf.episodes
		case "seed":
			cfg.Seed = tf.seed
		case "alpha":
			cfg.Alpha = tf.alpha
		case "gamma":
			cfg.Gamma = tf.gamma
		case "epsilon":
			cfg.Epsilon = tf.epsilon
		case "max-steps":
			cfg.MaxEpisodeSteps = tf.maxSteps
		}
	})
	if tf.window < 1 {
		return tf, cfg, fmt.Errorf("window must be positive (got %d)", tf.window)
	}
	return tf, cfg, cfg.Validate()
}

func runTrain(ctx context.Context, args []string, stdout io.Writer) error {
	tf, cfg, err := parseTrainFlags(args)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	logger := log.New(stdout, "", 0)
	logger.Printf("train config => run=%s episodes=%d seed=%d alpha=%.2f gamma=%.2f epsilon=%.2f grid=%dx%d start=%v goal=%v max_steps=%d",
		runID, cfg.Episodes, cfg.Seed, cfg.Alpha, cfg.Gamma, cfg.Epsilon, cfg.Grid.Rows, cfg.Grid.Cols, cfg.Grid.Start, cfg.Grid.Goal, cfg.MaxEpisodeSteps)

	var observers []engine.EpisodeObserver[engine.Position]
	if !tf.quiet {
		observers = append(observers, engine.ObserverFunc[engine.Position](func(ep engine.Episode[engine.Position]) {
			logger.Printf("episode %d: reward=%.2f steps=%d cost=%.2f reached=%t", ep.Index, ep.Reward, ep.Steps, ep.Cost(), ep.Reached)
		}))
	}
	trainRun, err := cfg.Build(observers...)
	if err != nil {
		return err
	}
	if tf.renderEvery > 0 {
		trainRun.Trainer.Observe(report.NewPathRenderer(stdout, trainRun.Env, tf.renderEvery, !tf.noColor))
	}

	metrics, err := trainRun.Trainer.Train(ctx, cfg.Episodes)
	switch {
	case errors.Is(err, context.Canceled) && metrics.Len() > 0:
		logger.Printf("interrupted after %d episodes", metrics.Len())
	case err != nil:
		return err
	}

	s := report.Summarize(metrics, tf.window)
	logger.Printf("summary: episodes=%d avg_reward=%.2f avg_steps=%.2f success_rate=%.2f best_reward=%.2f reward_trend=%.4f",
		s.Episodes, s.MeanReward, s.MeanSteps, s.SuccessRate, s.BestReward, s.RewardTrend)
	report.RenderValueMap(stdout, trainRun.Env, trainRun.Agent.Q(), !tf.noColor)

	if tf.chartPath != "" {
		if err := report.WriteChartFile(tf.chartPath, metrics, tf.window); err != nil {
			return err
		}
		logger.Printf("chart written to %s", tf.chartPath)
	}
	if tf.xlsxPath != "" {
		if err := report.WriteWorkbook(tf.xlsxPath, runID, metrics, tf.window); err != nil {
			return err
		}
		logger.Printf("workbook written to %s", tf.xlsxPath)
	}
	return nil
}
