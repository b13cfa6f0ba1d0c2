// Package main tunes the level difficulty curve so that the headless
// autopilot wins at a target rate that falls from the first level to the last.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/level"
)

// EvalRecord is one row of balance_log.csv.
type EvalRecord struct {
	Eval         int     `csv:"eval"`
	Fitness      float64 `csv:"fitness"`
	CurveBase    float64 `csv:"curve_base"`
	CurveSlope   float64 `csv:"curve_slope"`
	AISpeedGain  float64 `csv:"ai_speed_gain"`
	AISeekFactor float64 `csv:"ai_seek_factor"`
	MeanWinRate  float64 `csv:"mean_win_rate"`
}

// formatDuration formats a duration as 1h02m03s or 2m03s.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// parseLevels parses a comma-separated list of level ids.
func parseLevels(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("level %q: %w", part, err)
		}
		if _, ok := level.ByID(id); !ok {
			return nil, fmt.Errorf("level %d out of range 1..%d", id, level.Count)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no levels given")
	}
	return ids, nil
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	levelList := flag.String("levels", "1,5,10,15,20", "Comma-separated level ids to evaluate")
	seeds := flag.Int("seeds", 8, "Races per level per evaluation")
	maxEvals := flag.Int("max-evals", 120, "Maximum number of evaluations")
	maxTicks := flag.Int("max-ticks", 20000, "Tick cap per race")
	skill := flag.Float64("skill", 0, "Autopilot skill (0 = use config)")
	targetEasy := flag.Float64("target-easy", 0.8, "Target win rate on level 1")
	targetHard := flag.Float64("target-hard", 0.25, "Target win rate on the last level")
	method := flag.String("method", "cmaes", "Optimizer: cmaes or neldermead")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	levels, err := parseLevels(*levelList)
	if err != nil {
		log.Fatalf("invalid -levels: %v", err)
	}

	autopilotSkill := baseCfg.AI.AutopilotSkill
	if *skill > 0 {
		autopilotSkill = *skill
	}

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	params := NewParamVector()
	target := Target{Easy: *targetEasy, Hard: *targetHard}
	evaluator := NewEvaluator(params, levels, evalSeeds, autopilotSkill, int32(*maxTicks), baseCfg, target)

	var optMethod optimize.Method
	switch *method {
	case "cmaes":
		optMethod = &optimize.CmaEsChol{InitStepSize: 0.3}
	case "neldermead":
		optMethod = &optimize.NelderMead{}
	default:
		log.Fatalf("unknown -method %q", *method)
	}

	logPath := filepath.Join(*outputDir, "balance_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}

			var meanWin float64
			stats := evaluator.LastStats()
			for _, s := range stats {
				meanWin += s.WinRate
			}
			if len(stats) > 0 {
				meanWin /= float64(len(stats))
			}

			row := []EvalRecord{{
				Eval:         evalCount,
				Fitness:      fitness,
				CurveBase:    raw[0],
				CurveSlope:   raw[1],
				AISpeedGain:  raw[2],
				AISeekFactor: raw[3],
				MeanWinRate:  meanWin,
			}}
			if evalCount == 1 {
				err = gocsv.Marshal(row, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(row, logFile)
			}
			if err != nil {
				log.Printf("failed to write log row: %v", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: fitness=%.4f win=%.2f (best=%.4f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, fitness, meanWin, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}

	fmt.Printf("Balancing %d levels x %d seeds with %s, max_evals=%d\n", len(levels), *seeds, *method, *maxEvals)

	initX := params.Normalize(params.DefaultVector())
	result, err := optimize.Minimize(problem, initX, settings, optMethod)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nBalancing complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.4f\n", bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg, _ := config.Load(*configPath)
	curve := params.Apply(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}

	if err := writeLevels(filepath.Join(*outputDir, "levels.csv"), curve); err != nil {
		log.Printf("failed to write level table: %v", err)
	}
}

// writeLevels writes the level table produced by curve.
func writeLevels(path string, curve level.Curve) error {
	defs := make([]level.Definition, 0, level.Count)
	for id := 1; id <= level.Count; id++ {
		def, _ := level.ByIDWithCurve(id, curve)
		defs = append(defs, def)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create level table: %w", err)
	}
	defer f.Close()
	if err := gocsv.Marshal(defs, f); err != nil {
		return fmt.Errorf("write level table: %w", err)
	}
	fmt.Printf("Level table saved to: %s\n", path)
	return nil
}
