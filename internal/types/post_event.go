package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PostEvent is a timed event published by an organisation. EventType is
// optional; interest/format tags are JSON string arrays.
type PostEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"not null;column:description" json:"description"`
	DateTime    time.Time `gorm:"not null;column:date_time" json:"date_time"`
	Location    string    `gorm:"column:location" json:"location"`
	EventType   string    `gorm:"column:event_type" json:"event_type"`
	PicURL      string    `gorm:"column:pic_url" json:"pic_url"`

	InterestTags datatypes.JSON `gorm:"type:jsonb;column:interest_tags" json:"interest_tags"`
	FormatTags   datatypes.JSON `gorm:"type:jsonb;column:format_tags" json:"format_tags"`

	OrganisationID uuid.UUID     `gorm:"type:uuid;not null;index" json:"organisation_id"`
	Organisation   *Organisation `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganisationID;references:ID" json:"organisation,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PostEvent) TableName() string { return "post_event" }
