package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kotekapu/kotekapu-backend/internal/logger"
	"github.com/kotekapu/kotekapu-backend/internal/personalization"
	"github.com/kotekapu/kotekapu-backend/internal/types"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error)
	MarkPreferencesCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error

	// LoadPreferenceModel and the two save methods are the only place the
	// JSON encoding of weight maps is visible; domain code works with
	// personalization.PreferenceModel exclusively.
	LoadPreferenceModel(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*personalization.PreferenceModel, error)
	SavePrimaryWeights(ctx context.Context, tx *gorm.DB, userID uuid.UUID, m *personalization.PreferenceModel) error
	SaveEngagement(ctx context.Context, tx *gorm.DB, userID uuid.UUID, eng *personalization.Engagement) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if len(users) == 0 {
		return []*types.User{}, nil
	}

	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		if err := seedMetrics(u); err != nil {
			return nil, fmt.Errorf("seed preference metrics: %w", err)
		}
	}

	if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var user types.User
	if err := transaction.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (ur *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var user types.User
	if err := transaction.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (ur *userRepo) MarkPreferencesCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("preferences_completed", true).Error
}

func (ur *userRepo) LoadPreferenceModel(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*personalization.PreferenceModel, error) {
	user, err := ur.GetByID(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	model := &personalization.PreferenceModel{}
	if model.Interests, err = decodeWeights(user.InterestsMetrics); err != nil {
		return nil, fmt.Errorf("interests_metrics for user %s: %w", userID, err)
	}
	if model.Formats, err = decodeWeights(user.FormatMetrics); err != nil {
		return nil, fmt.Errorf("format_metrics for user %s: %w", userID, err)
	}
	if model.EventTypes, err = decodeWeights(user.EventTypeMetrics); err != nil {
		return nil, fmt.Errorf("event_type_metrics for user %s: %w", userID, err)
	}
	if err = decodeEngagement(user.FeedMetrics, &model.Engagement); err != nil {
		return nil, fmt.Errorf("feed_metrics for user %s: %w", userID, err)
	}
	return model, nil
}

func (ur *userRepo) SavePrimaryWeights(ctx context.Context, tx *gorm.DB, userID uuid.UUID, m *personalization.PreferenceModel) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	interests, err := encodeJSON(m.Interests)
	if err != nil {
		return err
	}
	formats, err := encodeJSON(m.Formats)
	if err != nil {
		return err
	}
	eventTypes, err := encodeJSON(m.EventTypes)
	if err != nil {
		return err
	}

	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"interests_metrics":  interests,
			"format_metrics":     formats,
			"event_type_metrics": eventTypes,
		}).Error
}

func (ur *userRepo) SaveEngagement(ctx context.Context, tx *gorm.DB, userID uuid.UUID, eng *personalization.Engagement) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	feed, err := encodeJSON(eng)
	if err != nil {
		return err
	}

	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("feed_metrics", feed).Error
}

func seedMetrics(u *types.User) error {
	seed := personalization.NewSeedModel()
	var err error
	if len(u.InterestsMetrics) == 0 {
		if u.InterestsMetrics, err = encodeJSON(seed.Interests); err != nil {
			return err
		}
	}
	if len(u.FormatMetrics) == 0 {
		if u.FormatMetrics, err = encodeJSON(seed.Formats); err != nil {
			return err
		}
	}
	if len(u.EventTypeMetrics) == 0 {
		if u.EventTypeMetrics, err = encodeJSON(seed.EventTypes); err != nil {
			return err
		}
	}
	if len(u.FeedMetrics) == 0 {
		if u.FeedMetrics, err = encodeJSON(seed.Engagement); err != nil {
			return err
		}
	}
	return nil
}

func decodeWeights(raw datatypes.JSON) (personalization.WeightMap, error) {
	if len(raw) == 0 {
		return personalization.WeightMap{}, nil
	}
	var m personalization.WeightMap
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPreferences, err)
	}
	if m == nil {
		m = personalization.WeightMap{}
	}
	return m, nil
}

func decodeEngagement(raw datatypes.JSON, eng *personalization.Engagement) error {
	if len(raw) == 0 {
		*eng = personalization.Engagement{
			PreferredCategories: personalization.WeightMap{},
			PreferredFormats:    personalization.WeightMap{},
			PreferredEventTypes: personalization.WeightMap{},
		}
		return nil
	}
	if err := json.Unmarshal(raw, eng); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptPreferences, err)
	}
	if eng.PreferredCategories == nil {
		eng.PreferredCategories = personalization.WeightMap{}
	}
	if eng.PreferredFormats == nil {
		eng.PreferredFormats = personalization.WeightMap{}
	}
	if eng.PreferredEventTypes == nil {
		eng.PreferredEventTypes = personalization.WeightMap{}
	}
	return nil
}

func encodeJSON(v interface{}) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
