package recipe

import (
	"context"
	"iter"

	"recipe-share/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		// GetRecipesByIDs skips ids with no recipe. Results are newest first.
		GetRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Recipe, error)
		// AllRecipes streams every recipe, newest first. Each range over the
		// returned sequence runs a fresh query.
		AllRecipes(ctx context.Context) iter.Seq2[*entities.Recipe, error]
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Recipe, error) {
	recipes := []*entities.Recipe{}
	if len(ids) == 0 {
		return recipes, nil
	}

	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) AllRecipes(ctx context.Context) iter.Seq2[*entities.Recipe, error] {
	return func(yield func(*entities.Recipe, error) bool) {
		rows, err := r.db.WithContext(ctx).
			Model(&entities.Recipe{}).
			Order("created_at desc").
			Rows()
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var recipe entities.Recipe
			if err := r.db.ScanRows(rows, &recipe); err != nil {
				yield(nil, err)
				return
			}
			if !yield(&recipe, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).
		Model(recipe).
		Select("title", "description", "ingredients", "steps", "image_url", "image_key", "tags", "updated_at").
		Updates(recipe).Error
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Recipe{}).Error
}
