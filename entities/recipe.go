package entities

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Recipe struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	AuthorID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Ingredients pq.StringArray `gorm:"type:text[]" json:"ingredients"`
	Steps       pq.StringArray `gorm:"type:text[]" json:"steps"`
	ImageURL    string         `json:"image_url,omitempty"`
	// ImageKey is the bucket object uploaded for this recipe. Only image
	// uploads set it; ImageURL alone never grants deletion rights.
	ImageKey    string         `json:"-"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`

	Timestamp
}
