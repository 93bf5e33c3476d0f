// Package personalization maintains per-user preference models and ranks
// content against them. A model carries weight maps over three independent
// tag dimensions (interests, formats, event types) plus an engagement block
// derived from in-feed clicks and likes. All maps that the package
// normalizes hold non-negative values summing to 1.0 whenever non-empty; an
// empty map means "no signal yet" and is never an error.
package personalization

// WeightMap maps a tag to its affinity weight.
type WeightMap map[string]float64

// Clone returns a shallow copy. A nil map clones to nil.
func (m WeightMap) Clone() WeightMap {
	if m == nil {
		return nil
	}
	out := make(WeightMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Sum returns the total of all weights.
func (m WeightMap) Sum() float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

// Engagement is the secondary profile built purely from feed interactions,
// kept separate from the survey/reinforcement-driven primary weights.
// TimeSpent and CompletionRate are persisted alongside the rates but no
// tracked action writes them yet.
type Engagement struct {
	ClickRate      float64 `json:"click_rate"`
	LikeRate       float64 `json:"like_rate"`
	TimeSpent      float64 `json:"time_spent"`
	CompletionRate float64 `json:"completion_rate"`

	PreferredCategories WeightMap `json:"preferred_categories"`
	PreferredFormats    WeightMap `json:"preferred_formats"`
	// PreferredEventTypes is read by the scorer but no feed action writes it;
	// the event-type engagement signal therefore stays empty in practice.
	// Known gap, kept until product decides otherwise.
	PreferredEventTypes WeightMap `json:"preferred_event_types"`
}

// PreferenceModel is one user's affinity state. It is owned exclusively by
// that user; the data-access layer serializes concurrent writes per user.
type PreferenceModel struct {
	Interests  WeightMap
	Formats    WeightMap
	EventTypes WeightMap
	Engagement Engagement
}

// NewSeedModel returns the documented initial state for a fresh account:
// every interest category at a uniform low weight, the three delivery
// formats near-uniform, and no event-type or engagement signal.
func NewSeedModel() *PreferenceModel {
	return &PreferenceModel{
		Interests: WeightMap{
			"IT": 0.1, "искусства": 0.1, "музыка": 0.1, "языки": 0.1,
			"экономика": 0.1, "менеджмент": 0.1, "творчество": 0.1,
			"спорт": 0.1, "инжинерия": 0.1, "культура": 0.1,
		},
		Formats: WeightMap{
			"онлайн": 0.33, "офлайн": 0.33, "гибрид": 0.34,
		},
		EventTypes: WeightMap{},
		Engagement: Engagement{
			PreferredCategories: WeightMap{},
			PreferredFormats:    WeightMap{},
			PreferredEventTypes: WeightMap{},
		},
	}
}
