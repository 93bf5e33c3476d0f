package repos

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kotekapu/kotekapu-backend/internal/logger"
	"github.com/kotekapu/kotekapu-backend/internal/personalization"
	"github.com/kotekapu/kotekapu-backend/internal/types"
)

type PostRepo interface {
	CreateEvents(ctx context.Context, tx *gorm.DB, events []*types.PostEvent) ([]*types.PostEvent, error)
	CreatePosts(ctx context.Context, tx *gorm.DB, posts []*types.PostSimple) ([]*types.PostSimple, error)

	// ListCandidatePool returns every event and post as scoring-ready
	// items. Rows whose tag blobs fail to decode come back flagged
	// malformed instead of failing the whole pool.
	ListCandidatePool(ctx context.Context, tx *gorm.DB) ([]personalization.ContentItem, error)
	GetEventItem(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (personalization.ContentItem, error)
	GetPostItem(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (personalization.ContentItem, error)

	AddLike(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) error
	AddRegistration(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) error
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	repoLog := baseLog.With("repo", "PostRepo")
	return &postRepo{db: db, log: repoLog}
}

func (pr *postRepo) CreateEvents(ctx context.Context, tx *gorm.DB, events []*types.PostEvent) ([]*types.PostEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(events) == 0 {
		return []*types.PostEvent{}, nil
	}
	for _, ev := range events {
		if ev.ID == uuid.Nil {
			ev.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (pr *postRepo) CreatePosts(ctx context.Context, tx *gorm.DB, posts []*types.PostSimple) ([]*types.PostSimple, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(posts) == 0 {
		return []*types.PostSimple{}, nil
	}
	for _, p := range posts {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (pr *postRepo) ListCandidatePool(ctx context.Context, tx *gorm.DB) ([]personalization.ContentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var events []*types.PostEvent
	if err := transaction.WithContext(ctx).Find(&events).Error; err != nil {
		return nil, err
	}
	var posts []*types.PostSimple
	if err := transaction.WithContext(ctx).Find(&posts).Error; err != nil {
		return nil, err
	}

	items := make([]personalization.ContentItem, 0, len(events)+len(posts))
	for _, ev := range events {
		items = append(items, pr.eventToItem(ev))
	}
	for _, p := range posts {
		items = append(items, pr.postToItem(p))
	}
	return items, nil
}

func (pr *postRepo) GetEventItem(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (personalization.ContentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var ev types.PostEvent
	if err := transaction.WithContext(ctx).
		Where("id = ?", eventID).
		First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return personalization.ContentItem{}, ErrEventNotFound
		}
		return personalization.ContentItem{}, err
	}
	return pr.eventToItem(&ev), nil
}

func (pr *postRepo) GetPostItem(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (personalization.ContentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var p types.PostSimple
	if err := transaction.WithContext(ctx).
		Where("id = ?", postID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return personalization.ContentItem{}, ErrPostNotFound
		}
		return personalization.ContentItem{}, err
	}
	return pr.postToItem(&p), nil
}

func (pr *postRepo) AddLike(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Exec(`INSERT INTO user_liked_posts (user_id, post_event_id) VALUES (?, ?) ON CONFLICT DO NOTHING`, userID, eventID).Error
}

func (pr *postRepo) AddRegistration(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Exec(`INSERT INTO user_registered_events (user_id, post_event_id) VALUES (?, ?) ON CONFLICT DO NOTHING`, userID, eventID).Error
}

func (pr *postRepo) eventToItem(ev *types.PostEvent) personalization.ContentItem {
	item := personalization.ContentItem{
		ID:        ev.ID,
		Kind:      personalization.KindEvent,
		EventType: ev.EventType,
	}
	var err error
	if item.InterestTags, err = decodeTags(ev.InterestTags); err != nil {
		pr.log.Warn("malformed interest_tags on event", "event_id", ev.ID, "error", err)
		item.Malformed = true
	}
	if item.FormatTags, err = decodeTags(ev.FormatTags); err != nil {
		pr.log.Warn("malformed format_tags on event", "event_id", ev.ID, "error", err)
		item.Malformed = true
	}
	return item
}

func (pr *postRepo) postToItem(p *types.PostSimple) personalization.ContentItem {
	item := personalization.ContentItem{
		ID:   p.ID,
		Kind: personalization.KindPost,
	}
	var err error
	if item.InterestTags, err = decodeTags(p.InterestTags); err != nil {
		pr.log.Warn("malformed interest_tags on post", "post_id", p.ID, "error", err)
		item.Malformed = true
	}
	if item.FormatTags, err = decodeTags(p.FormatTags); err != nil {
		pr.log.Warn("malformed format_tags on post", "post_id", p.ID, "error", err)
		item.Malformed = true
	}
	return item
}

func decodeTags(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// EncodeTags is the write-side counterpart of the tag codec, used when
// seeding or creating content rows.
func EncodeTags(tags []string) datatypes.JSON {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return datatypes.JSON(b)
}
