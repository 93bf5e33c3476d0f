package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PostSimple is a plain post: no schedule and no event type.
type PostSimple struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"not null;column:description" json:"description"`
	PicURL      string    `gorm:"column:pic_url" json:"pic_url"`

	InterestTags datatypes.JSON `gorm:"type:jsonb;column:interest_tags" json:"interest_tags"`
	FormatTags   datatypes.JSON `gorm:"type:jsonb;column:format_tags" json:"format_tags"`

	AuthorID       *uuid.UUID    `gorm:"type:uuid;index" json:"author_id,omitempty"`
	Author         *User         `gorm:"constraint:OnDelete:SET NULL;foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	OrganisationID *uuid.UUID    `gorm:"type:uuid;index" json:"organisation_id,omitempty"`
	Organisation   *Organisation `gorm:"constraint:OnDelete:SET NULL;foreignKey:OrganisationID;references:ID" json:"organisation,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PostSimple) TableName() string { return "post_simple" }
