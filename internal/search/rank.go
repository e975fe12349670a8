package search

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/BinaryNexusLab/real-estate/internal/analysis"
	"github.com/BinaryNexusLab/real-estate/internal/models"
	"golang.org/x/sync/errgroup"
)

// Priority is the metric listings are ranked by.
type Priority string

const (
	PriorityCompositeScore Priority = "composite-score"
	PriorityBreakEven      Priority = "break-even"
)

// Order is the ranking direction. Desc puts the best listings first: highest
// score, or shortest break-even.
type Order string

const (
	OrderDesc Order = "desc"
	OrderAsc  Order = "asc"
)

// ExceptionalLimit is how many exceptional opportunities are shown.
const ExceptionalLimit = 6

// Ranked is a listing together with its analysis.
type Ranked struct {
	Property models.Property           `json:"property"`
	Analysis analysis.PropertyAnalysis `json:"analysis"`
	Rating   analysis.Rating           `json:"rating"`
}

// AssumptionsFunc picks the assumptions to analyse a listing under.
type AssumptionsFunc func(models.Property) analysis.Assumptions

// Options tune a ranking batch.
type Options struct {
	// Workers bounds concurrent analyses. Zero means GOMAXPROCS.
	Workers int
}

// ParsePriority maps a query value to a Priority, defaulting to composite
// score.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case "", PriorityCompositeScore:
		return PriorityCompositeScore, nil
	case PriorityBreakEven:
		return PriorityBreakEven, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// ParseOrder maps a query value to an Order, defaulting to desc.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "", OrderDesc:
		return OrderDesc, nil
	case OrderAsc:
		return OrderAsc, nil
	}
	return "", fmt.Errorf("unknown order %q", s)
}

// Rank analyses every listing and sorts the results.
func Rank(ctx context.Context, props []models.Property, assumptionsFor AssumptionsFunc, priority Priority, order Order) ([]Ranked, error) {
	return RankWithOptions(ctx, props, assumptionsFor, priority, order, Options{})
}

// RankWithOptions is Rank with an explicit worker bound. The first analysis
// error cancels the batch.
func RankWithOptions(ctx context.Context, props []models.Property, assumptionsFor AssumptionsFunc, priority Priority, order Order, opts Options) ([]Ranked, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Ranked, len(props))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range props {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := analysis.Analyze(p.FinancialInput(), assumptionsFor(p))
			if err != nil {
				return fmt.Errorf("property %s: %w", p.ID, err)
			}
			results[i] = Ranked{Property: p, Analysis: res, Rating: analysis.RatingForScore(res.InvestmentScore)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	Sort(results, priority, order)
	return results, nil
}

// Sort orders ranked listings in place. Ties keep id order so output is
// stable across runs.
func Sort(ranked []Ranked, priority Priority, order Order) {
	better := func(a, b analysis.PropertyAnalysis) int {
		if priority == PriorityBreakEven {
			return compare(b.BreakEvenYears, a.BreakEvenYears)
		}
		return compare(float64(a.InvestmentScore), float64(b.InvestmentScore))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		c := better(ranked[i].Analysis, ranked[j].Analysis)
		if c == 0 {
			return ranked[i].Property.ID < ranked[j].Property.ID
		}
		if order == OrderAsc {
			return c < 0
		}
		return c > 0
	})
}

func compare(a, b float64) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

// Exceptional keeps listings scoring at least analysis.ExceptionalScore,
// best first, up to limit.
func Exceptional(ranked []Ranked, limit int) []Ranked {
	out := make([]Ranked, 0, len(ranked))
	for _, r := range ranked {
		if r.Analysis.InvestmentScore >= analysis.ExceptionalScore {
			out = append(out, r)
		}
	}
	Sort(out, PriorityCompositeScore, OrderDesc)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
