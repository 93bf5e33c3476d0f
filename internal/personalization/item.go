package personalization

import "github.com/google/uuid"

// Kind discriminates the two content variants. Scoring dispatches on it.
type Kind string

const (
	// KindEvent is a timed event with an optional event-type tag.
	KindEvent Kind = "event"
	// KindPost is a plain post: no schedule, no event type.
	KindPost Kind = "post"
)

// Tags is the uniform tag view both variants expose.
type Tags struct {
	Interests []string
	Formats   []string
	EventType string // empty for posts and untyped events
}

// ContentItem is the scoring engine's read-only view of a content row.
// Malformed is set by the data layer when the stored tag blobs cannot be
// decoded; such an item receives the fallback score instead of aborting the
// ranking pass.
type ContentItem struct {
	ID           uuid.UUID `json:"id"`
	Kind         Kind      `json:"kind"`
	InterestTags []string  `json:"interest_tags"`
	FormatTags   []string  `json:"format_tags"`
	EventType    string    `json:"event_type,omitempty"`
	Malformed    bool      `json:"malformed,omitempty"`
}

func (it ContentItem) Tags() Tags {
	t := Tags{
		Interests: it.InterestTags,
		Formats:   it.FormatTags,
	}
	if it.Kind == KindEvent {
		t.EventType = it.EventType
	}
	return t
}
