package types

import (
	"time"

	"github.com/google/uuid"
)

// AchievementSurveyCompleted is awarded once when a user finishes the
// onboarding preference survey.
const AchievementSurveyCompleted = "Регистрация на платформе"

type Achievement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	Points      int       `gorm:"column:points;default:0" json:"points"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Achievement) TableName() string { return "achievement" }
