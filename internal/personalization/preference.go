package personalization

import (
	"errors"
	"fmt"

	"github.com/kotekapu/kotekapu-backend/internal/catalog"
)

// ErrMalformedItem marks an update abandoned because the item's stored tag
// data could not be decoded. Callers log it and keep the prior model state;
// it is never a user-visible failure.
var ErrMalformedItem = errors.New("content item has malformed tag data")

const (
	// learningRate is the per-action increment applied by Reinforce and by
	// the like branch of RecordFeedAction.
	learningRate = 0.1
	// unselectedFloor is the weight given to catalog tags the user did not
	// pick in the survey, so unselected categories keep a small presence.
	unselectedFloor = 0.1
)

// FeedAction is an in-feed interaction kind.
type FeedAction string

const (
	ActionClick FeedAction = "click"
	ActionLike  FeedAction = "like"
)

// ApplyExplicitSelection replaces the three primary weight maps from an
// onboarding survey. Every selected tag gets the weight `selected`, every
// catalog tag left unselected gets the 0.1 floor, then each map is
// normalized independently. The call is destructive: prior weights are
// discarded, not merged.
func (m *PreferenceModel) ApplyExplicitSelection(c catalog.Catalog, interests, formats, eventTypes []string, selected float64) {
	m.Interests = selectionMap(interests, c.Interests, selected)
	m.Formats = selectionMap(formats, c.Formats, selected)
	m.EventTypes = selectionMap(eventTypes, c.EventTypes, selected)
}

func selectionMap(chosen, all []string, selected float64) WeightMap {
	out := make(WeightMap, len(all))
	for _, tag := range chosen {
		out[tag] = selected
	}
	for _, tag := range all {
		if _, ok := out[tag]; !ok {
			out[tag] = unselectedFloor
		}
	}
	return Normalize(out)
}

// Reinforce bumps the primary weights for every tag the item carries after
// an implicit positive action (event registration, like). Each touched tag
// gains the learning rate, clamped at 1.0 before normalization; the three
// maps are then normalized independently, empty ones staying empty. A
// malformed item abandons the whole update and leaves the model unchanged.
func (m *PreferenceModel) Reinforce(item ContentItem) error {
	if item.Malformed {
		return fmt.Errorf("reinforce %s %s: %w", item.Kind, item.ID, ErrMalformedItem)
	}
	tags := item.Tags()

	if m.Interests == nil {
		m.Interests = WeightMap{}
	}
	if m.Formats == nil {
		m.Formats = WeightMap{}
	}
	if m.EventTypes == nil {
		m.EventTypes = WeightMap{}
	}

	for _, tag := range tags.Interests {
		m.Interests[tag] = clamp1(m.Interests[tag] + learningRate)
	}
	for _, tag := range tags.Formats {
		m.Formats[tag] = clamp1(m.Formats[tag] + learningRate)
	}
	if tags.EventType != "" {
		m.EventTypes[tags.EventType] = clamp1(m.EventTypes[tags.EventType] + learningRate)
	}

	Normalize(m.Interests)
	Normalize(m.Formats)
	Normalize(m.EventTypes)
	return nil
}

// RecordFeedAction folds a click or like into the engagement profile.
// Rates use a two-point blend, (rate+value)/2, so repeated identical
// actions converge toward value itself rather than a long-run average.
// Likes additionally accumulate the item's tags into the preferred maps.
func (m *PreferenceModel) RecordFeedAction(item ContentItem, action FeedAction, value float64) error {
	if item.Malformed {
		return fmt.Errorf("feed action %s on %s %s: %w", action, item.Kind, item.ID, ErrMalformedItem)
	}
	eng := &m.Engagement
	if eng.PreferredCategories == nil {
		eng.PreferredCategories = WeightMap{}
	}
	if eng.PreferredFormats == nil {
		eng.PreferredFormats = WeightMap{}
	}
	if eng.PreferredEventTypes == nil {
		eng.PreferredEventTypes = WeightMap{}
	}

	tags := item.Tags()
	switch action {
	case ActionClick:
		eng.ClickRate = (eng.ClickRate + value) / 2
	case ActionLike:
		eng.LikeRate = (eng.LikeRate + value) / 2
		for _, tag := range tags.Interests {
			eng.PreferredCategories[tag] += learningRate
		}
		for _, tag := range tags.Formats {
			eng.PreferredFormats[tag] += learningRate
		}
		// PreferredEventTypes is deliberately not written here; see the
		// field comment in Engagement.
	}

	Normalize(eng.PreferredCategories)
	Normalize(eng.PreferredFormats)
	Normalize(eng.PreferredEventTypes)
	return nil
}

func clamp1(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}
