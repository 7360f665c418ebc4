package engine

import (
	"context"
	"testing"
)

func benchmarkEpisodes(b *testing.B, cfg Config) {
	for i := 0; i < b.N; i++ {
		run, err := cfg.Build()
		if err != nil {
			b.Fatalf("Build: %v", err)
		}
		if _, err := run.Trainer.Train(context.Background(), cfg.Episodes); err != nil {
			b.Fatalf("Train: %v", err)
		}
	}
}

func BenchmarkEpisodeQLearning(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Episodes = 1
	cfg.Seed = 99
	benchmarkEpisodes(b, cfg)
}

func BenchmarkTrainReference(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	benchmarkEpisodes(b, cfg)
}

func BenchmarkTrainLargeGrid(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	cfg.Episodes = 50
	cfg.Grid.Rows, cfg.Grid.Cols = 12, 12
	cfg.Grid.Goal = Position{Row: 11, Col: 11}
	benchmarkEpisodes(b, cfg)
}
