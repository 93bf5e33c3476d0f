package personalization

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/kotekapu/kotekapu-backend/internal/catalog"
)

func surveyCatalog() catalog.Catalog {
	return catalog.Catalog{
		Interests:  []string{"IT", "спорт", "музыка", "языки"},
		Formats:    []string{"онлайн", "офлайн", "гибрид"},
		EventTypes: []string{"хакатон", "лекция"},
	}
}

func eventItem(interests, formats []string, eventType string) ContentItem {
	return ContentItem{
		ID:           uuid.New(),
		Kind:         KindEvent,
		InterestTags: interests,
		FormatTags:   formats,
		EventType:    eventType,
	}
}

func TestApplyExplicitSelection(t *testing.T) {
	m := NewSeedModel()
	m.ApplyExplicitSelection(surveyCatalog(), []string{"IT", "спорт"}, []string{"онлайн"}, nil, 0.5)

	if diff := math.Abs(m.Interests["IT"] - m.Interests["спорт"]); diff > tolerance {
		t.Fatalf("selected interests differ: IT=%v спорт=%v", m.Interests["IT"], m.Interests["спорт"])
	}
	for _, unselected := range []string{"музыка", "языки"} {
		if m.Interests[unselected] >= m.Interests["IT"] {
			t.Fatalf("unselected %q weight %v not below selected %v", unselected, m.Interests[unselected], m.Interests["IT"])
		}
	}
	for name, wm := range map[string]WeightMap{"interests": m.Interests, "formats": m.Formats, "event_types": m.EventTypes} {
		if diff := math.Abs(wm.Sum() - 1.0); diff > tolerance {
			t.Fatalf("%s sum is off by %v after selection", name, diff)
		}
	}
	// 0.5 selected against two 0.1 floors: 0.5/1.2 each.
	if diff := math.Abs(m.Interests["IT"] - 0.5/1.2); diff > tolerance {
		t.Fatalf("Interests[IT]=%v, want %v", m.Interests["IT"], 0.5/1.2)
	}
}

func TestApplyExplicitSelectionReplacesPriorWeights(t *testing.T) {
	m := NewSeedModel()
	m.Interests["IT"] = 0.9
	m.ApplyExplicitSelection(surveyCatalog(), []string{"спорт"}, nil, nil, 0.8)

	if m.Interests["IT"] != m.Interests["музыка"] {
		t.Fatalf("prior IT weight leaked through the survey: IT=%v музыка=%v", m.Interests["IT"], m.Interests["музыка"])
	}
	if m.Interests["спорт"] <= m.Interests["IT"] {
		t.Fatalf("selected спорт=%v not above floor IT=%v", m.Interests["спорт"], m.Interests["IT"])
	}
}

func TestReinforceFromEmpty(t *testing.T) {
	m := &PreferenceModel{Interests: WeightMap{}, Formats: WeightMap{}, EventTypes: WeightMap{}}
	if err := m.Reinforce(eventItem([]string{"IT"}, nil, "")); err != nil {
		t.Fatalf("Reinforce() error: %v", err)
	}
	if len(m.Interests) != 1 || math.Abs(m.Interests["IT"]-1.0) > tolerance {
		t.Fatalf("Interests=%v, want {IT: 1.0}", m.Interests)
	}
	if len(m.Formats) != 0 {
		t.Fatalf("Formats=%v, want empty map untouched", m.Formats)
	}
	if len(m.EventTypes) != 0 {
		t.Fatalf("EventTypes=%v, want empty map untouched", m.EventTypes)
	}
}

func TestReinforceClampsBeforeNormalization(t *testing.T) {
	m := &PreferenceModel{
		Interests:  WeightMap{"IT": 0.95, "спорт": 0.05},
		Formats:    WeightMap{},
		EventTypes: WeightMap{},
	}
	if err := m.Reinforce(eventItem([]string{"IT"}, nil, "")); err != nil {
		t.Fatalf("Reinforce() error: %v", err)
	}
	// 0.95+0.1 clamps to 1.0, so the normalized split is 1.0/1.05.
	if diff := math.Abs(m.Interests["IT"] - 1.0/1.05); diff > tolerance {
		t.Fatalf("Interests[IT]=%v, want %v", m.Interests["IT"], 1.0/1.05)
	}
}

func TestReinforceTouchesAllThreeDimensions(t *testing.T) {
	m := NewSeedModel()
	item := eventItem([]string{"IT"}, []string{"онлайн"}, "хакатон")
	if err := m.Reinforce(item); err != nil {
		t.Fatalf("Reinforce() error: %v", err)
	}
	if m.Interests["IT"] <= m.Interests["спорт"] {
		t.Fatalf("reinforced IT=%v not above untouched спорт=%v", m.Interests["IT"], m.Interests["спорт"])
	}
	if m.Formats["онлайн"] <= m.Formats["офлайн"] {
		t.Fatalf("reinforced онлайн=%v not above офлайн=%v", m.Formats["онлайн"], m.Formats["офлайн"])
	}
	if math.Abs(m.EventTypes["хакатон"]-1.0) > tolerance {
		t.Fatalf("EventTypes=%v, want {хакатон: 1.0}", m.EventTypes)
	}
	for name, wm := range map[string]WeightMap{"interests": m.Interests, "formats": m.Formats, "event_types": m.EventTypes} {
		if diff := math.Abs(wm.Sum() - 1.0); diff > tolerance {
			t.Fatalf("%s sum is off by %v after reinforce", name, diff)
		}
	}
}

func TestReinforceMalformedItemLeavesModelUnchanged(t *testing.T) {
	m := NewSeedModel()
	before := m.Interests.Clone()

	item := eventItem([]string{"IT"}, nil, "")
	item.Malformed = true
	err := m.Reinforce(item)
	if !errors.Is(err, ErrMalformedItem) {
		t.Fatalf("Reinforce() error = %v, want ErrMalformedItem", err)
	}
	for k, v := range before {
		if m.Interests[k] != v {
			t.Fatalf("Interests[%q] changed from %v to %v", k, v, m.Interests[k])
		}
	}
}

func TestRecordFeedActionClick(t *testing.T) {
	m := NewSeedModel()
	item := eventItem([]string{"IT"}, []string{"онлайн"}, "хакатон")

	if err := m.RecordFeedAction(item, ActionClick, 1.0); err != nil {
		t.Fatalf("RecordFeedAction() error: %v", err)
	}
	if m.Engagement.ClickRate != 0.5 {
		t.Fatalf("ClickRate=%v after first click, want 0.5", m.Engagement.ClickRate)
	}
	if err := m.RecordFeedAction(item, ActionClick, 1.0); err != nil {
		t.Fatalf("RecordFeedAction() error: %v", err)
	}
	// The two-point blend converges toward the value, not a long-run mean.
	if m.Engagement.ClickRate != 0.75 {
		t.Fatalf("ClickRate=%v after second click, want 0.75", m.Engagement.ClickRate)
	}
	if len(m.Engagement.PreferredCategories) != 0 {
		t.Fatalf("click must not touch PreferredCategories, got %v", m.Engagement.PreferredCategories)
	}
}

func TestRecordFeedActionLike(t *testing.T) {
	m := NewSeedModel()
	item := eventItem([]string{"IT", "спорт"}, []string{"онлайн"}, "хакатон")

	if err := m.RecordFeedAction(item, ActionLike, 1.0); err != nil {
		t.Fatalf("RecordFeedAction() error: %v", err)
	}
	if m.Engagement.LikeRate != 0.5 {
		t.Fatalf("LikeRate=%v, want 0.5", m.Engagement.LikeRate)
	}
	if diff := math.Abs(m.Engagement.PreferredCategories["IT"] - 0.5); diff > tolerance {
		t.Fatalf("PreferredCategories[IT]=%v, want 0.5", m.Engagement.PreferredCategories["IT"])
	}
	if diff := math.Abs(m.Engagement.PreferredFormats["онлайн"] - 1.0); diff > tolerance {
		t.Fatalf("PreferredFormats=%v, want {онлайн: 1.0}", m.Engagement.PreferredFormats)
	}
	if len(m.Engagement.PreferredEventTypes) != 0 {
		t.Fatalf("PreferredEventTypes must stay unwritten, got %v", m.Engagement.PreferredEventTypes)
	}
}

func TestRecordFeedActionMalformedItem(t *testing.T) {
	m := NewSeedModel()
	item := eventItem([]string{"IT"}, nil, "")
	item.Malformed = true

	err := m.RecordFeedAction(item, ActionLike, 1.0)
	if !errors.Is(err, ErrMalformedItem) {
		t.Fatalf("RecordFeedAction() error = %v, want ErrMalformedItem", err)
	}
	if m.Engagement.LikeRate != 0 {
		t.Fatalf("LikeRate=%v changed by abandoned update", m.Engagement.LikeRate)
	}
}
