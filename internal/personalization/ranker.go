package personalization

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// rankConcurrency bounds the goroutines used for a scoring pass. Scoring is
// pure map lookups, so a small bound is enough.
const rankConcurrency = 8

// ScoredItem pairs a candidate with its computed relevance.
type ScoredItem struct {
	Item  ContentItem
	Score float64
}

// Ranker assembles a feed page: score every candidate, stable-sort by
// descending score and slice out the requested window.
type Ranker struct {
	scorer *Scorer
}

func NewRanker(scorer *Scorer) *Ranker {
	return &Ranker{scorer: scorer}
}

// Rank scores items against the model and returns the page
// [offset, offset+limit), the pool size and whether more items follow.
// Ties keep their relative order from the input pool: the sort is stable
// and scores are written by input index, so concurrent scoring cannot
// perturb ordering. An empty pool is a valid empty page, not an error.
func (r *Ranker) Rank(ctx context.Context, m *PreferenceModel, items []ContentItem, offset, limit int) ([]ScoredItem, int, bool) {
	total := len(items)
	scored := make([]ScoredItem, total)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(rankConcurrency)
	for i := range items {
		i := i
		g.Go(func() error {
			scored[i] = ScoredItem{Item: items[i], Score: r.scorer.Score(m, items[i])}
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	start := offset
	if start > total {
		start = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return scored[start:end], total, end < total
}
