package scoring

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Report is the full export analysis of one composition
type Report struct {
	Composition     Composition      `json:"composition"`
	Scores          Scores           `json:"scores"`
	Tiers           map[string]Tier  `json:"tiers"`
	Quality         QualityBreakdown `json:"videoQuality"`
	LengthScore     int              `json:"lengthScore"`
	Recommendations []string         `json:"recommendations"`
	Strengths       []string         `json:"strengths"`
	Virality        string           `json:"viralityPotential"`
	Tips            []string         `json:"optimizationTips"`
}

// Scorer evaluates compositions for viral potential
type Scorer interface {
	Score(ctx context.Context, c Composition) (Report, error)
	Close() error
}

// HeuristicScorer grades by editing effort
type HeuristicScorer struct{}

// NewHeuristicScorer creates a new heuristic scorer
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

// Score builds the report for c
func (h *HeuristicScorer) Score(ctx context.Context, c Composition) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	s := Score(c)
	return Report{
		Composition: c,
		Scores:      s,
		Tiers: map[string]Tier{
			"trend":      TierOf(s.Trend),
			"engagement": TierOf(s.Engagement),
			"virality":   TierOf(s.Virality),
			"quality":    TierOf(s.Quality),
		},
		Quality:         AnalyzeQuality(c),
		LengthScore:     LengthScore(c.Duration),
		Recommendations: Recommendations(s),
		Strengths:       Strengths(s),
		Virality:        ViralityPrediction(c, s),
		Tips:            OptimizationTips(c),
	}, nil
}

// Close is a no-op for heuristic scorer
func (h *HeuristicScorer) Close() error {
	return nil
}

// BatchScore grades many compositions concurrently, keeping input order.
// limit caps the number of goroutines; zero or less means unbounded.
func BatchScore(ctx context.Context, scorer Scorer, comps []Composition, limit int) ([]Report, error) {
	reports := make([]Report, len(comps))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, c := range comps {
		g.Go(func() error {
			r, err := scorer.Score(ctx, c)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Progress reports analysis progress, adding increment every step until
// it reaches 100. It returns early with the context error on cancel.
func Progress(ctx context.Context, step time.Duration, increment int, report func(pct int)) error {
	if increment <= 0 {
		increment = 5
	}
	if step <= 0 {
		step = 200 * time.Millisecond
	}
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	pct := 0
	for pct < 100 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			pct = min(100, pct+increment)
			report(pct)
		}
	}
	return nil
}
