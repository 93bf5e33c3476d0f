package services

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/kotekapu/kotekapu-backend/internal/clients/redis"
	"github.com/kotekapu/kotekapu-backend/internal/logger"
	"github.com/kotekapu/kotekapu-backend/internal/personalization"
	"github.com/kotekapu/kotekapu-backend/internal/repos"
)

const defaultFeedLimit = 10

// FeedItem is one ranked entry; RelevanceScore is rounded to three decimals
// for the response payload.
type FeedItem struct {
	Item           personalization.ContentItem `json:"item"`
	RelevanceScore float64                     `json:"relevance_score"`
}

type FeedPage struct {
	Items   []FeedItem `json:"posts"`
	Count   int        `json:"count"`
	Total   int        `json:"total"`
	Offset  int        `json:"offset"`
	Limit   int        `json:"limit"`
	HasMore bool       `json:"has_more"`
}

type FeedService interface {
	// GetFeed ranks the whole candidate pool for the user and returns the
	// requested window. A missing user surfaces repos.ErrUserNotFound; an
	// empty pool is an empty page.
	GetFeed(ctx context.Context, userID uuid.UUID, offset, limit int) (*FeedPage, error)
}

type feedService struct {
	db     *gorm.DB
	log    *logger.Logger
	users  repos.UserRepo
	posts  repos.PostRepo
	ranker *personalization.Ranker
	cache  redisclient.CandidateCache // nil when redis is not configured
}

func NewFeedService(db *gorm.DB, baseLog *logger.Logger, users repos.UserRepo, posts repos.PostRepo, ranker *personalization.Ranker, cache redisclient.CandidateCache) FeedService {
	return &feedService{
		db:     db,
		log:    baseLog.With("service", "FeedService"),
		users:  users,
		posts:  posts,
		ranker: ranker,
		cache:  cache,
	}
}

func (s *feedService) GetFeed(ctx context.Context, userID uuid.UUID, offset, limit int) (*FeedPage, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	model, err := s.users.LoadPreferenceModel(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repos.ErrCorruptPreferences) {
			// Corrupt stored weights degrade every item to the fallback
			// score instead of breaking the feed.
			s.log.Warn("serving feed without preference model", "user_id", userID, "error", err)
			model = nil
		} else {
			return nil, err
		}
	}

	items, err := s.candidatePool(ctx)
	if err != nil {
		return nil, err
	}

	page, total, hasMore := s.ranker.Rank(ctx, model, items, offset, limit)

	out := &FeedPage{
		Items:   make([]FeedItem, 0, len(page)),
		Count:   len(page),
		Total:   total,
		Offset:  offset,
		Limit:   limit,
		HasMore: hasMore,
	}
	for _, scored := range page {
		out.Items = append(out.Items, FeedItem{
			Item:           scored.Item,
			RelevanceScore: math.Round(scored.Score*1000) / 1000,
		})
	}
	return out, nil
}

// candidatePool reads through the redis cache when one is configured. Any
// cache trouble falls back to the database; the cache is an optimization,
// never a dependency.
func (s *feedService) candidatePool(ctx context.Context) ([]personalization.ContentItem, error) {
	if s.cache != nil {
		items, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn("candidate pool cache read failed", "error", err)
		} else if items != nil {
			return items, nil
		}
	}

	items, err := s.posts.ListCandidatePool(ctx, nil)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, items); err != nil {
			s.log.Warn("candidate pool cache write failed", "error", err)
		}
	}
	return items, nil
}
