package user

import (
	"context"
	"slices"

	"recipe-share/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		UpdateUser(ctx context.Context, user *entities.User) error
		// ToggleSavedRecipe adds recipeID to the user's saved set when absent
		// and removes it when present, in one statement. It reports whether
		// the recipe is saved afterwards.
		ToggleSavedRecipe(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).
		Model(user).
		Select("username", "email", "password", "updated_at").
		Updates(user).Error
}

func (r *userRepository) ToggleSavedRecipe(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	id := recipeID.String()

	var user entities.User
	res := r.db.WithContext(ctx).
		Model(&user).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "saved_recipe_ids"}}}).
		Where("id = ?", userID).
		Update("saved_recipe_ids", gorm.Expr(
			"CASE WHEN ?::text = ANY(saved_recipe_ids) "+
				"THEN array_remove(saved_recipe_ids, ?::text) "+
				"ELSE array_append(COALESCE(saved_recipe_ids, '{}'), ?::text) END",
			id, id, id,
		))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, gorm.ErrRecordNotFound
	}

	return slices.Contains(user.SavedRecipeIDs, id), nil
}
