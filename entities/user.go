package entities

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Username string    `gorm:"not null" json:"username"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`

	// SavedRecipeIDs holds the canonical string form of bookmarked recipe ids.
	SavedRecipeIDs pq.StringArray `gorm:"type:text[];default:'{}'" json:"saved_recipe_ids"`

	Timestamp
}
