// Package optim searches controller register values for the best run.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/songsen/servoM8/internal/experiment"
)

// Candidate is one evaluated point of the grid.
type Candidate struct {
	Params map[string]float64
	Score  float64
	Err    error
}

// GridSearch evaluates every combination of the parameter ranges and keeps
// the one with the lowest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, workers: runtime.NumCPU()}
}

// SetWorkers bounds the number of runs evaluated at once.
func (g *GridSearch) SetWorkers(n int) {
	g.workers = max(n, 1)
}

// Points expands the grid in odometer order, last parameter fastest.
func (g *GridSearch) Points() []map[string]float64 {
	if len(g.paramNames) == 0 {
		return nil
	}
	points := []map[string]float64{{}}
	for depth, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(points)*len(g.ranges[depth]))
		for _, p := range points {
			for _, v := range g.ranges[depth] {
				np := make(map[string]float64, len(p)+1)
				for k, pv := range p {
					np[k] = pv
				}
				np[name] = v
				next = append(next, np)
			}
		}
		points = next
	}
	return points
}

// Search runs buildExperiment for every grid point and scores it by
// metricName. It returns the best point, its score and every candidate
// sorted best first. Candidates that fail to build or run are kept with
// their error and an infinite score.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, []Candidate, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	points := g.Points()
	candidates := make([]Candidate, len(points))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(g.workers, len(points)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				candidates[i] = evaluate(ctx, points[i], buildExperiment, metricName)
			}
		}()
	}

feed:
	for i := range points {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score < candidates[j].Score
	})

	if len(candidates) == 0 || candidates[0].Err != nil {
		var errs []error
		for _, c := range candidates {
			errs = append(errs, c.Err)
		}
		return nil, math.Inf(1), candidates, fmt.Errorf("optim: no candidate succeeded: %w", errors.Join(errs...))
	}
	return candidates[0].Params, candidates[0].Score, candidates, nil
}

func evaluate(
	ctx context.Context,
	params map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
) Candidate {
	c := Candidate{Params: params, Score: math.Inf(1)}

	exp, err := buildExperiment(params)
	if err != nil {
		c.Err = err
		return c
	}
	result, err := exp.Run(ctx)
	if err != nil {
		c.Err = err
		return c
	}
	if len(result.Errors) > 0 {
		c.Err = result.Errors[0]
		return c
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		c.Err = fmt.Errorf("optim: run has no metric %q", metricName)
		return c
	}
	c.Score = val
	return c
}
