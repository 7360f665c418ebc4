//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"syscall/js"

	"tiny-qlearn-go/internal/engine"
	"tiny-qlearn-go/internal/report"
)

var (
	startFnOnce sync.Once
	trainerMu   sync.Mutex
	currentCtx  context.CancelFunc
	onEpisode   js.Value
)

func main() {
	registerCallbacks()
	// Prevent the program from exiting.
	select {}
}

func registerCallbacks() {
	startFnOnce.Do(func() {
		js.Global().Set("tinyqRegisterEpisodeHandler", js.FuncOf(registerEpisodeHandler))
		js.Global().Set("tinyqStartTraining", js.FuncOf(startTraining))
		js.Global().Set("tinyqStopTraining", js.FuncOf(stopTraining))
	})
}

func registerEpisodeHandler(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 || args[0].Type() != js.TypeFunction {
		fmt.Println("registerEpisodeHandler requires a function argument")
		return nil
	}
	onEpisode = args[0]
	return nil
}

// startTraining takes a JSON engine.Config layered over the defaults.
func startTraining(this js.Value, args []js.Value) interface{} {
	cfg := engine.DefaultConfig()
	if len(args) > 0 && args[0].Type() == js.TypeString {
		if err := json.Unmarshal([]byte(args[0].String()), &cfg); err != nil {
			fmt.Printf("invalid config: %v\n", err)
			return nil
		}
	}
	if onEpisode.IsUndefined() || onEpisode.IsNull() {
		fmt.Println("episode handler not registered")
		return nil
	}

	trainerMu.Lock()
	if currentCtx != nil {
		currentCtx()
	}
	ctx, cancel := context.WithCancel(context.Background())
	currentCtx = cancel
	trainerMu.Unlock()

	var run *engine.Run
	run, err := cfg.Build(engine.ObserverFunc[engine.Position](func(ep engine.Episode[engine.Position]) {
		onEpisode.Invoke(episodeToJS(ep, run))
	}))
	if err != nil {
		fmt.Printf("invalid config: %v\n", err)
		return nil
	}
	go func() {
		metrics, err := run.Trainer.Train(ctx, cfg.Episodes)
		if err != nil {
			fmt.Printf("training stopped: %v\n", err)
		}
		s := report.Summarize(metrics, 10)
		onEpisode.Invoke(js.ValueOf(map[string]interface{}{
			"status":      "done",
			"episodes":    s.Episodes,
			"successRate": s.SuccessRate,
			"meanReward":  s.MeanReward,
			"meanSteps":   s.MeanSteps,
			"rewardTrend": s.RewardTrend,
		}))
	}()
	return nil
}

func stopTraining(this js.Value, args []js.Value) interface{} {
	trainerMu.Lock()
	if currentCtx != nil {
		currentCtx()
		currentCtx = nil
	}
	trainerMu.Unlock()
	return nil
}

func episodeToJS(ep engine.Episode[engine.Position], run *engine.Run) js.Value {
	path := make([]interface{}, len(ep.Trajectory))
	for i, p := range ep.Trajectory {
		path[i] = map[string]interface{}{"row": p.Row, "col": p.Col}
	}
	valueMap := run.Env.ValueMap(run.Agent.Q())
	rows := make([]interface{}, len(valueMap))
	for i, row := range valueMap {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		rows[i] = cells
	}
	payload := map[string]interface{}{
		"status":   "episode_complete",
		"episode":  ep.Index,
		"reward":   ep.Reward,
		"cost":     ep.Cost(),
		"steps":    ep.Steps,
		"reached":  ep.Reached,
		"path":     path,
		"valueMap": rows,
	}
	return js.ValueOf(payload)
}
