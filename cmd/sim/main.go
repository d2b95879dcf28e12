package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"gridbattle/internal/battle"
	"gridbattle/internal/config"
	"gridbattle/internal/logging"
	"gridbattle/internal/trace"
)

type result struct {
	Seed      int64  `json:"seed"`
	Ticks     int    `json:"ticks"`
	Decided   bool   `json:"decided"`
	Winner    string `json:"winner,omitempty"`
	Survivors int    `json:"survivors"`
}

type summary struct {
	Runs         int                `json:"runs"`
	Undecided    int                `json:"undecided"`
	Wins         map[string]int     `json:"wins"`
	WinRate      map[string]float64 `json:"win_rate"`
	AvgTicks     float64            `json:"avg_ticks"`
	AvgSeconds   float64            `json:"avg_seconds"`
	AvgSurvivors float64            `json:"avg_survivors"`
	Single       *result            `json:"single,omitempty"`
}

// simulate plays one battle on a simulated clock that steps exactly one
// refresh interval per call, so every Tick is effective.
func simulate(opts battle.Options, maxTicks int, rec *trace.Recorder) result {
	b := battle.New(opts)
	b.Initialize()
	for i := 0; !b.Outcome().Over && (maxTicks <= 0 || b.Ticks() < maxTicks); i++ {
		b.Tick(time.Duration(i) * battle.RefreshRate)
		if rec != nil {
			rec.Record(b.Snapshot())
		}
	}
	res := result{Seed: opts.Seed, Ticks: b.Ticks()}
	if winner, over := b.Winner(); over {
		res.Decided = true
		res.Winner = winner.String()
		res.Survivors = b.Count(winner)
	}
	return res
}

func runBatch(base battle.Options, n, workers, maxTicks int) summary {
	st := summary{
		Runs:    n,
		Wins:    map[string]int{},
		WinRate: map[string]float64{},
	}
	for _, t := range battle.Teams {
		st.Wins[t.String()] = 0
	}

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		sumTicks  int
		survivors int
	)
	if workers <= 0 {
		workers = 1
	}
	jobs := make(chan int, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				opts := base
				opts.Seed = base.Seed + int64(i)
				res := simulate(opts, maxTicks, nil)

				mu.Lock()
				sumTicks += res.Ticks
				if res.Decided {
					st.Wins[res.Winner]++
					survivors += res.Survivors
				} else {
					st.Undecided++
				}
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if n > 0 {
		st.AvgTicks = float64(sumTicks) / float64(n)
		st.AvgSeconds = st.AvgTicks * battle.RefreshRate.Seconds()
		for team, wins := range st.Wins {
			st.WinRate[team] = float64(wins) / float64(n)
		}
	}
	if decided := n - st.Undecided; decided > 0 {
		st.AvgSurvivors = float64(survivors) / float64(decided)
	}
	return st
}

func main() {
	var cfgPath, out, tracePath string
	var seed int64
	var n, workers, maxTicks int
	flag.StringVar(&cfgPath, "config", "gridbattle.yaml", "config file")
	flag.StringVar(&out, "out", "sim.json", "summary output file")
	flag.StringVar(&tracePath, "trace", "", "parquet trajectory trace (only when n==1)")
	flag.Int64Var(&seed, "seed", 0, "base seed; 0 uses the config seed, or 1 if that is unset too")
	flag.IntVar(&n, "n", 1, "number of simulations")
	flag.IntVar(&workers, "workers", 8, "parallel workers")
	flag.IntVar(&maxTicks, "max-ticks", 10000, "give up on a match after this many ticks (0 = never)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logging.Fatal("load config", err, logging.Fields{"path": cfgPath})
	}
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	if seed == 0 {
		// batches must replay, so never fall back to the clock here
		seed = 1
	}
	base := battle.Options{
		Seed:     seed,
		MinUnits: cfg.Simulation.MinUnits,
		MaxUnits: cfg.Simulation.MaxUnits,
	}

	var st summary
	if n <= 1 {
		var rec *trace.Recorder
		if tracePath != "" {
			rec = trace.NewRecorder(uuid.NewString())
		}
		res := simulate(base, maxTicks, rec)
		st = summary{Runs: 1, Wins: map[string]int{}, WinRate: map[string]float64{}, Single: &res}
		st.AvgTicks = float64(res.Ticks)
		st.AvgSeconds = st.AvgTicks * battle.RefreshRate.Seconds()
		if res.Decided {
			st.Wins[res.Winner] = 1
			st.WinRate[res.Winner] = 1
			st.AvgSurvivors = float64(res.Survivors)
		} else {
			st.Undecided = 1
		}
		if rec != nil {
			if err := trace.WriteFile(tracePath, rec.Rows()); err != nil {
				logging.Fatal("write trace", err, logging.Fields{"path": tracePath})
			}
			logging.Info("trace written", logging.Fields{"path": tracePath, "rows": len(rec.Rows())})
		}
	} else {
		start := time.Now()
		st = runBatch(base, n, workers, maxTicks)
		logging.Info("batch finished", logging.Fields{
			"runs":    n,
			"workers": workers,
			"elapsed": time.Since(start).String(),
		})
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logging.Fatal("encode summary", err, nil)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		logging.Fatal("write summary", err, logging.Fields{"path": out})
	}
	fmt.Printf("Simulated %d match(es), %d undecided, avg %.1f ticks -> %s\n", st.Runs, st.Undecided, st.AvgTicks, out)
}
