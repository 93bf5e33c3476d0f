package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kotekapu/kotekapu-backend/internal/catalog"
	"github.com/kotekapu/kotekapu-backend/internal/logger"
	"github.com/kotekapu/kotekapu-backend/internal/personalization"
	"github.com/kotekapu/kotekapu-backend/internal/repos"
	"github.com/kotekapu/kotekapu-backend/internal/types"
)

// Selection weights for explicit survey answers. The two call sites carry
// different values inherited from two generations of the survey endpoint;
// unifying them needs a product decision, so both stay named here.
const (
	surveySelectedWeight = 0.8
	legacySelectedWeight = 0.5
)

type PreferenceService interface {
	// CompletePreferences applies the onboarding survey: selected tags get
	// the high survey weight, the rest of the catalog keeps a low floor,
	// and the user is marked as having finished the survey.
	CompletePreferences(ctx context.Context, userID uuid.UUID, interests, formats, eventTypes []string) error

	// ImportLegacyPreferences re-applies survey answers exported from the
	// previous survey endpoint, which weighted selections at 0.5.
	ImportLegacyPreferences(ctx context.Context, userID uuid.UUID, interests, formats, eventTypes []string) error

	RegisterForEvent(ctx context.Context, userID, eventID uuid.UUID) error
	LikeEvent(ctx context.Context, userID, eventID uuid.UUID) error

	// RecordFeedAction folds an in-feed click or like into the user's
	// engagement profile.
	RecordFeedAction(ctx context.Context, userID, itemID uuid.UUID, kind personalization.Kind, action personalization.FeedAction, value float64) error
}

type preferenceService struct {
	db           *gorm.DB
	log          *logger.Logger
	cat          catalog.Catalog
	users        repos.UserRepo
	posts        repos.PostRepo
	achievements repos.AchievementRepo
}

func NewPreferenceService(db *gorm.DB, baseLog *logger.Logger, cat catalog.Catalog, users repos.UserRepo, posts repos.PostRepo, achievements repos.AchievementRepo) PreferenceService {
	return &preferenceService{
		db:           db,
		log:          baseLog.With("service", "PreferenceService"),
		cat:          cat,
		users:        users,
		posts:        posts,
		achievements: achievements,
	}
}

func (s *preferenceService) CompletePreferences(ctx context.Context, userID uuid.UUID, interests, formats, eventTypes []string) error {
	return s.applySelection(ctx, userID, interests, formats, eventTypes, surveySelectedWeight, true)
}

func (s *preferenceService) ImportLegacyPreferences(ctx context.Context, userID uuid.UUID, interests, formats, eventTypes []string) error {
	return s.applySelection(ctx, userID, interests, formats, eventTypes, legacySelectedWeight, false)
}

func (s *preferenceService) applySelection(ctx context.Context, userID uuid.UUID, interests, formats, eventTypes []string, selected float64, awardSurvey bool) error {
	model, err := s.users.LoadPreferenceModel(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repos.ErrCorruptPreferences) {
			// The survey replaces the primary maps wholesale, so corrupt
			// stored weights are no reason to refuse it.
			s.log.Warn("replacing corrupt preference weights from survey", "user_id", userID, "error", err)
			model = personalization.NewSeedModel()
		} else {
			return err
		}
	}

	model.ApplyExplicitSelection(s.cat, interests, formats, eventTypes, selected)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.users.SavePrimaryWeights(ctx, tx, userID, model); err != nil {
			return fmt.Errorf("save survey weights: %w", err)
		}
		if err := s.users.MarkPreferencesCompleted(ctx, tx, userID); err != nil {
			return fmt.Errorf("mark preferences completed: %w", err)
		}
		if awardSurvey {
			achievement, err := s.achievements.GetByName(ctx, tx, types.AchievementSurveyCompleted)
			if err != nil {
				return fmt.Errorf("look up survey achievement: %w", err)
			}
			if err := s.achievements.AwardOnce(ctx, tx, userID, achievement); err != nil {
				return fmt.Errorf("award survey achievement: %w", err)
			}
		}
		return nil
	})
}

func (s *preferenceService) RegisterForEvent(ctx context.Context, userID, eventID uuid.UUID) error {
	item, err := s.posts.GetEventItem(ctx, nil, eventID)
	if err != nil {
		return err
	}
	if err := s.posts.AddRegistration(ctx, nil, userID, eventID); err != nil {
		return fmt.Errorf("record registration: %w", err)
	}
	s.reinforce(ctx, userID, item)
	return nil
}

func (s *preferenceService) LikeEvent(ctx context.Context, userID, eventID uuid.UUID) error {
	item, err := s.posts.GetEventItem(ctx, nil, eventID)
	if err != nil {
		return err
	}
	if err := s.posts.AddLike(ctx, nil, userID, eventID); err != nil {
		return fmt.Errorf("record like: %w", err)
	}
	s.reinforce(ctx, userID, item)
	return nil
}

// reinforce applies the implicit-feedback update. Failures here are logged
// and swallowed: the triggering action (registration, like) has already
// been recorded and must not be rolled back because the preference update
// could not run, and the model keeps its prior state.
func (s *preferenceService) reinforce(ctx context.Context, userID uuid.UUID, item personalization.ContentItem) {
	model, err := s.users.LoadPreferenceModel(ctx, nil, userID)
	if err != nil {
		s.log.Warn("skipping reinforcement, preference model unavailable", "user_id", userID, "error", err)
		return
	}
	if err := model.Reinforce(item); err != nil {
		s.log.Warn("skipping reinforcement", "user_id", userID, "item_id", item.ID, "error", err)
		return
	}
	if err := s.users.SavePrimaryWeights(ctx, nil, userID, model); err != nil {
		s.log.Warn("failed to persist reinforced weights", "user_id", userID, "error", err)
	}
}

func (s *preferenceService) RecordFeedAction(ctx context.Context, userID, itemID uuid.UUID, kind personalization.Kind, action personalization.FeedAction, value float64) error {
	var (
		item personalization.ContentItem
		err  error
	)
	switch kind {
	case personalization.KindPost:
		item, err = s.posts.GetPostItem(ctx, nil, itemID)
	default:
		item, err = s.posts.GetEventItem(ctx, nil, itemID)
	}
	if err != nil {
		return err
	}

	model, err := s.users.LoadPreferenceModel(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repos.ErrCorruptPreferences) {
			s.log.Warn("skipping feed action, stored engagement is corrupt", "user_id", userID, "error", err)
			return nil
		}
		return err
	}
	if err := model.RecordFeedAction(item, action, value); err != nil {
		s.log.Warn("skipping feed action", "user_id", userID, "item_id", itemID, "error", err)
		return nil
	}
	if err := s.users.SaveEngagement(ctx, nil, userID, &model.Engagement); err != nil {
		return fmt.Errorf("save engagement: %w", err)
	}
	return nil
}
