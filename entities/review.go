package entities

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_recipe_user" json:"recipe_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_recipe_user" json:"user_id"`

	// Username is copied from the author when the review is first written.
	Username   string    `gorm:"not null" json:"username"`
	Comment    string    `gorm:"type:text" json:"comment"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	ReviewedAt time.Time `gorm:"index" json:"reviewed_at"`

	Timestamp
}

// RatingSummary is the result of aggregating the ratings of one recipe.
type RatingSummary struct {
	RecipeID uuid.UUID
	Average  float64
	Count    int64
}
