package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	OrgStatusPending  = "pending"
	OrgStatusApproved = "approved"
	OrgStatusRejected = "rejected"
)

type Organisation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"uniqueIndex;not null;column:title" json:"title"`
	Description string    `gorm:"not null;column:description" json:"description"`
	AvatarURL   string    `gorm:"column:avatar_url" json:"avatar_url"`
	City        string    `gorm:"column:city" json:"city"`
	Status      string    `gorm:"column:status;default:pending" json:"status"`

	Tags        datatypes.JSON `gorm:"type:jsonb;column:tags" json:"tags"`
	SocialLinks datatypes.JSON `gorm:"type:jsonb;column:social_links" json:"social_links"`

	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"owner,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Organisation) TableName() string { return "organisation" }
