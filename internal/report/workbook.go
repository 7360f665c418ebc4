package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"tiny-qlearn-go/internal/engine"
)

const (
	episodesSheet = "Episodes"
	summarySheet  = "Summary"
)

// WriteWorkbook stores per-episode metrics and a summary in an xlsx file.
func WriteWorkbook(path, runID string, m engine.Metrics, window int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create workbook dir: %w", err)
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := fillEpisodes(f, m, window); err != nil {
		return err
	}
	if err := fillSummary(f, runID, Summarize(m, window)); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(episodesSheet); err == nil {
		f.SetActiveSheet(idx)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func fillEpisodes(f *excelize.File, m engine.Metrics, window int) error {
	if _, err := f.NewSheet(episodesSheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", episodesSheet, err)
	}
	header := []interface{}{"episode", "reward", "steps", "cost", fmt.Sprintf("reward_ma%d", window)}
	if err := f.SetSheetRow(episodesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	smoothed := MovingAverage(m.Rewards, window)
	for i := 0; i < m.Len(); i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{i + 1, m.Rewards[i], m.Steps[i], m.Costs[i], smoothed[i]}
		if err := f.SetSheetRow(episodesSheet, cell, &row); err != nil {
			return fmt.Errorf("write episode %d: %w", i+1, err)
		}
	}
	return nil
}

func fillSummary(f *excelize.File, runID string, s Summary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", summarySheet, err)
	}
	rows := [][]interface{}{
		{"run_id", runID},
		{"episodes", s.Episodes},
		{"successes", s.Successes},
		{"success_rate", s.SuccessRate},
		{"mean_reward", s.MeanReward},
		{"mean_steps", s.MeanSteps},
		{"total_steps", s.TotalSteps},
		{"best_reward", s.BestReward},
		{"reward_trend", s.RewardTrend},
		{"steps_trend", s.StepsTrend},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}
