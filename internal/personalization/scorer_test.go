package personalization

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/kotekapu/kotekapu-backend/internal/logger"
)

func newTestScorer() *Scorer {
	return NewScorer(logger.NewNop())
}

func postItem(interests, formats []string) ContentItem {
	return ContentItem{
		ID:           uuid.New(),
		Kind:         KindPost,
		InterestTags: interests,
		FormatTags:   formats,
	}
}

func TestEventBlendCoefficientsSumToOne(t *testing.T) {
	sum := eventInterestWeight + eventFormatWeight + eventTypeWeight +
		eventFeedInterestWeight + eventFeedFormatWeight + eventFeedTypeWeight
	if math.Abs(sum-1.0) > tolerance {
		t.Fatalf("event blend coefficients sum to %v, want 1.0", sum)
	}
}

func TestPostBlendCoefficientsSumToOne(t *testing.T) {
	sum := postInterestWeight + postFormatWeight + postFeedInterestWeight + postFeedFormatWeight
	if math.Abs(sum-1.0) > tolerance {
		t.Fatalf("post blend coefficients sum to %v, want 1.0", sum)
	}
}

func TestScoreEventInterestOnlySplit(t *testing.T) {
	m := &PreferenceModel{
		Interests:  WeightMap{"IT": 0.7, "спорт": 0.3},
		Formats:    WeightMap{},
		EventTypes: WeightMap{},
		Engagement: Engagement{
			PreferredCategories: WeightMap{},
			PreferredFormats:    WeightMap{},
			PreferredEventTypes: WeightMap{},
		},
	}
	item := eventItem([]string{"IT", "спорт"}, []string{"онлайн"}, "хакатон")

	got := newTestScorer().Score(m, item)
	want := 0.30 * (0.7 + 0.3)
	if math.Abs(got-want) > tolerance {
		t.Fatalf("Score()=%v, want %v (interest term only)", got, want)
	}
}

func TestScoreEventFullBlend(t *testing.T) {
	m := &PreferenceModel{
		Interests:  WeightMap{"IT": 0.6},
		Formats:    WeightMap{"онлайн": 0.5},
		EventTypes: WeightMap{"хакатон": 0.4},
		Engagement: Engagement{
			PreferredCategories: WeightMap{"IT": 0.2},
			PreferredFormats:    WeightMap{"онлайн": 0.3},
			PreferredEventTypes: WeightMap{"хакатон": 0.1},
		},
	}
	item := eventItem([]string{"IT"}, []string{"онлайн"}, "хакатон")

	got := newTestScorer().Score(m, item)
	want := 0.30*0.6 + 0.25*0.5 + 0.20*0.4 + 0.10*0.2 + 0.10*0.3 + 0.05*0.1
	if math.Abs(got-want) > tolerance {
		t.Fatalf("Score()=%v, want %v", got, want)
	}
}

func TestScoreEventWithoutEventType(t *testing.T) {
	m := NewSeedModel()
	m.EventTypes = WeightMap{"хакатон": 1.0}
	withType := newTestScorer().Score(m, eventItem([]string{"IT"}, nil, "хакатон"))
	withoutType := newTestScorer().Score(m, eventItem([]string{"IT"}, nil, ""))

	if diff := withType - withoutType; math.Abs(diff-0.20*1.0) > tolerance {
		t.Fatalf("event type term contributes %v, want 0.2", diff)
	}
}

func TestScorePostAveragesPerTagCount(t *testing.T) {
	m := &PreferenceModel{
		Interests:  WeightMap{"IT": 0.6},
		Formats:    WeightMap{},
		EventTypes: WeightMap{},
		Engagement: Engagement{
			PreferredCategories: WeightMap{},
			PreferredFormats:    WeightMap{},
			PreferredEventTypes: WeightMap{},
		},
	}
	// One matched tag at 0.6 and one miss average to 0.3, not 0.6.
	item := postItem([]string{"IT", "музыка"}, nil)

	got := newTestScorer().Score(m, item)
	want := 0.50 * 0.3
	if math.Abs(got-want) > tolerance {
		t.Fatalf("Score()=%v, want %v", got, want)
	}
}

func TestScorePostIgnoresEventTypeDimension(t *testing.T) {
	m := NewSeedModel()
	m.EventTypes = WeightMap{"хакатон": 1.0}

	item := postItem([]string{"IT"}, nil)
	item.EventType = "хакатон" // bogus data on a post row must not count

	got := newTestScorer().Score(m, item)
	plain := newTestScorer().Score(m, postItem([]string{"IT"}, nil))
	if got != plain {
		t.Fatalf("post score %v differs from %v when event_type set", got, plain)
	}
}

func TestScoreMalformedItemFallback(t *testing.T) {
	m := NewSeedModel()
	item := eventItem([]string{"IT"}, nil, "")
	item.Malformed = true

	if got := newTestScorer().Score(m, item); got != 0.1 {
		t.Fatalf("Score()=%v for malformed item, want the 0.1 fallback", got)
	}
}

func TestScoreNilModelFallback(t *testing.T) {
	if got := newTestScorer().Score(nil, eventItem([]string{"IT"}, nil, "")); got != 0.1 {
		t.Fatalf("Score()=%v without model, want the 0.1 fallback", got)
	}
}

func TestScoreUnknownTagsContributeZero(t *testing.T) {
	m := NewSeedModel()
	got := newTestScorer().Score(m, eventItem([]string{"нечто"}, []string{"нигде"}, "небывальщина"))
	if got != 0 {
		t.Fatalf("Score()=%v for fully unknown tags, want 0", got)
	}
}
