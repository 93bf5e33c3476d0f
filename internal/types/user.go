package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	PasswordHash string    `gorm:"not null;column:password_hash" json:"-"`
	FirstName    string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName     string    `gorm:"not null;column:last_name" json:"last_name"`
	AvatarURL    string    `gorm:"column:avatar_url" json:"avatar_url"`
	Exp          int       `gorm:"column:exp;default:0" json:"exp"`

	ProfileCompleted     bool `gorm:"column:profile_completed;default:false" json:"profile_completed"`
	PreferencesCompleted bool `gorm:"column:preferences_completed;default:false" json:"preferences_completed"`

	// Weight maps for the recommendation feed, stored as JSON blobs. Domain
	// code never touches these directly; repos.UserRepo decodes them into a
	// personalization.PreferenceModel at the boundary.
	InterestsMetrics datatypes.JSON `gorm:"type:jsonb;column:interests_metrics" json:"interests_metrics"`
	FormatMetrics    datatypes.JSON `gorm:"type:jsonb;column:format_metrics" json:"format_metrics"`
	EventTypeMetrics datatypes.JSON `gorm:"type:jsonb;column:event_type_metrics" json:"event_type_metrics"`
	FeedMetrics      datatypes.JSON `gorm:"type:jsonb;column:feed_metrics" json:"feed_metrics"`

	Achievements []*Achievement `gorm:"many2many:user_achievements" json:"achievements,omitempty"`
	LikedEvents  []*PostEvent   `gorm:"many2many:user_liked_posts" json:"liked_events,omitempty"`
	Registered   []*PostEvent   `gorm:"many2many:user_registered_events" json:"registered_events,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }
