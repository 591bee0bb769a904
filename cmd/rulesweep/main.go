// Command rulesweep runs every listed rule over several random seeds in
// parallel and reports how dense each rule leaves the board.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"ndlife/pkg/life"
)

type job struct {
	rule *life.Ruleset
	seed int64
}

type scenarioResult struct {
	rule       *life.Ruleset
	seed       int64
	initial    int
	final      int
	stableStep int
}

type ruleSummary struct {
	rule        *life.Ruleset
	runs        int
	meanDensity float64
	minFinal    int
	maxFinal    int
	extinct     int
	stable      int
}

func main() {
	rulesFlag := flag.String("rules", "B3/S23,B36/S23,B3678/S34678,B2/S,B1357/S1357", "comma separated rules in B/S notation")
	topoFlag := flag.String("topology", "wrap", "edge handling: wrap or bounded")
	seeds := flag.Int("seeds", 8, "random boards per rule")
	steps := flag.Int("steps", 200, "generations per board")
	width := flag.Int("w", 96, "grid width")
	height := flag.Int("h", 96, "grid height")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	flag.Parse()

	if err := sweep(*rulesFlag, *topoFlag, *seeds, *steps, *width, *height, *workers); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func sweep(rulesFlag, topoFlag string, seeds, steps, width, height, workers int) error {
	topo, err := life.ParseTopology(topoFlag)
	if err != nil {
		return err
	}
	var rules []*life.Ruleset
	for _, spec := range strings.Split(rulesFlag, ",") {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		r, err := life.ParseRule(spec, topo)
		if err != nil {
			return err
		}
		rules = append(rules, r)
	}
	if len(rules) == 0 || seeds <= 0 || steps < 0 || workers <= 0 {
		return fmt.Errorf("%w: need at least one rule, seed and worker", life.ErrInvalidArgument)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: grid %dx%d must be positive", life.ErrInvalidArgument, width, height)
	}
	shape := []int{height, width}

	fmt.Printf("Sweeping %d rules x %d seeds (%d workers, %d steps, %dx%d %v)\n",
		len(rules), seeds, workers, steps, width, height, topo)

	jobs := make(chan job)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- runScenario(j, shape, steps)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, r := range rules {
			for s := 0; s < seeds; s++ {
				jobs <- job{rule: r, seed: int64(s + 1)}
			}
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		all = append(all, res)
	}
	summaries := summarize(all, width*height)
	elapsed := time.Since(start)

	fmt.Printf("\nResults (elapsed %s):\n", elapsed.Round(time.Millisecond))
	for i, s := range summaries {
		fmt.Printf("%2d) %-16s density=%.4f final=[%d,%d] extinct=%d/%d stable=%d/%d\n",
			i+1, s.rule, s.meanDensity, s.minFinal, s.maxFinal, s.extinct, s.runs, s.stable, s.runs)
	}
	return nil
}

// runScenario simulates one board. stableStep is the first generation that
// equals its successor, or -1.
func runScenario(j job, shape []int, steps int) scenarioResult {
	state, err := life.RandomSeeded(j.rule, shape, j.seed)
	if err != nil {
		panic(err)
	}
	res := scenarioResult{rule: j.rule, seed: j.seed, initial: state.Population(), stableStep: -1}
	for step := 0; step < steps; step++ {
		next := state.Step()
		if next.Equal(state) {
			res.stableStep = step
			break
		}
		state = next
	}
	res.final = state.Population()
	return res
}

func summarize(all []scenarioResult, area int) []ruleSummary {
	byRule := map[string]*ruleSummary{}
	var order []string
	for _, res := range all {
		key := res.rule.String()
		s, ok := byRule[key]
		if !ok {
			s = &ruleSummary{rule: res.rule, minFinal: res.final, maxFinal: res.final}
			byRule[key] = s
			order = append(order, key)
		}
		s.runs++
		s.meanDensity += float64(res.final) / float64(area)
		s.minFinal = min(s.minFinal, res.final)
		s.maxFinal = max(s.maxFinal, res.final)
		if res.final == 0 {
			s.extinct++
		}
		if res.stableStep >= 0 {
			s.stable++
		}
	}
	out := make([]ruleSummary, 0, len(order))
	for _, key := range order {
		s := byRule[key]
		s.meanDensity /= float64(s.runs)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].meanDensity != out[j].meanDensity {
			return out[i].meanDensity > out[j].meanDensity
		}
		return out[i].rule.String() < out[j].rule.String()
	})
	return out
}
