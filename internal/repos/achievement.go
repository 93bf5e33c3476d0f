package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kotekapu/kotekapu-backend/internal/logger"
	"github.com/kotekapu/kotekapu-backend/internal/types"
)

type AchievementRepo interface {
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Achievement, error)

	// AwardOnce grants the achievement and its points to the user. A user
	// who already holds it is left untouched, including their exp.
	AwardOnce(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievement *types.Achievement) error
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	repoLog := baseLog.With("repo", "AchievementRepo")
	return &achievementRepo{db: db, log: repoLog}
}

func (ar *achievementRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var achievement types.Achievement
	if err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&achievement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &achievement, nil
}

func (ar *achievementRepo) AwardOnce(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievement *types.Achievement) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if achievement == nil {
		return nil
	}

	res := transaction.WithContext(ctx).
		Exec(`INSERT INTO user_achievements (user_id, achievement_id) VALUES (?, ?) ON CONFLICT DO NOTHING`, userID, achievement.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("exp", gorm.Expr("exp + ?", achievement.Points)).Error
}
