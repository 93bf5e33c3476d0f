package personalization

import (
	"github.com/kotekapu/kotekapu-backend/internal/logger"
)

// fallbackScore is returned for any item the scorer cannot evaluate, so a
// single corrupt row never aborts ranking of the whole pool.
const fallbackScore = 0.1

// Blend coefficients for timed events. The six terms sum to 1.00; the
// invariant is covered by a test.
const (
	eventInterestWeight     = 0.30
	eventFormatWeight       = 0.25
	eventTypeWeight         = 0.20
	eventFeedInterestWeight = 0.10
	eventFeedFormatWeight   = 0.10
	eventFeedTypeWeight     = 0.05
)

// Blend coefficients for plain posts. Posts average per tag count instead
// of summing raw weights and use their own coefficient set; the asymmetry
// with events is per-type policy, not something to unify.
const (
	postInterestWeight     = 0.50
	postFormatWeight       = 0.30
	postFeedInterestWeight = 0.10
	postFeedFormatWeight   = 0.10
)

// Scorer computes a scalar relevance for a (model, item) pair. Higher is
// more relevant; there is no fixed upper bound. Scoring is read-only and
// safe to run concurrently across items.
type Scorer struct {
	log *logger.Logger
}

func NewScorer(baseLog *logger.Logger) *Scorer {
	return &Scorer{log: baseLog.With("component", "Scorer")}
}

// Score dispatches on the item variant. A malformed item or a missing
// model yields the fallback constant.
func (s *Scorer) Score(m *PreferenceModel, item ContentItem) float64 {
	if m == nil {
		s.log.Warn("scoring without a preference model", "item_id", item.ID)
		return fallbackScore
	}
	if item.Malformed {
		s.log.Warn("scoring fallback for malformed item", "item_id", item.ID, "kind", item.Kind)
		return fallbackScore
	}
	switch item.Kind {
	case KindPost:
		return s.scorePost(m, item)
	default:
		return s.scoreEvent(m, item)
	}
}

func (s *Scorer) scoreEvent(m *PreferenceModel, item ContentItem) float64 {
	tags := item.Tags()

	interestScore := sumWeights(m.Interests, tags.Interests)
	formatScore := sumWeights(m.Formats, tags.Formats)
	var eventTypeScore float64
	if tags.EventType != "" {
		eventTypeScore = m.EventTypes[tags.EventType]
	}

	feedInterestScore := sumWeights(m.Engagement.PreferredCategories, tags.Interests)
	feedFormatScore := sumWeights(m.Engagement.PreferredFormats, tags.Formats)
	var feedEventScore float64
	if tags.EventType != "" {
		feedEventScore = m.Engagement.PreferredEventTypes[tags.EventType]
	}

	return interestScore*eventInterestWeight +
		formatScore*eventFormatWeight +
		eventTypeScore*eventTypeWeight +
		feedInterestScore*eventFeedInterestWeight +
		feedFormatScore*eventFeedFormatWeight +
		feedEventScore*eventFeedTypeWeight
}

func (s *Scorer) scorePost(m *PreferenceModel, item ContentItem) float64 {
	tags := item.Tags()

	interestScore := avgWeights(m.Interests, tags.Interests)
	formatScore := avgWeights(m.Formats, tags.Formats)
	feedInterestScore := avgWeights(m.Engagement.PreferredCategories, tags.Interests)
	feedFormatScore := avgWeights(m.Engagement.PreferredFormats, tags.Formats)

	return interestScore*postInterestWeight +
		formatScore*postFormatWeight +
		feedInterestScore*postFeedInterestWeight +
		feedFormatScore*postFeedFormatWeight
}

func sumWeights(m WeightMap, tags []string) float64 {
	var total float64
	for _, tag := range tags {
		total += m[tag]
	}
	return total
}

func avgWeights(m WeightMap, tags []string) float64 {
	if len(tags) == 0 {
		return 0
	}
	return sumWeights(m, tags) / float64(len(tags))
}
