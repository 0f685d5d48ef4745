package review

import (
	"context"

	"recipe-share/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ReviewRepository interface {
		CreateReview(ctx context.Context, review *entities.Review) error
		GetReviewByID(ctx context.Context, id uuid.UUID) (*entities.Review, error)
		GetReviewByRecipeAndUser(ctx context.Context, recipeID, userID uuid.UUID) (*entities.Review, error)
		GetReviewsByRecipe(ctx context.Context, recipeID uuid.UUID) ([]*entities.Review, error)
		// GetRatingSummary returns a zero Count when the recipe has no reviews.
		GetRatingSummary(ctx context.Context, recipeID uuid.UUID) (entities.RatingSummary, error)
		UpdateReview(ctx context.Context, review *entities.Review) error
		DeleteReview(ctx context.Context, id uuid.UUID) error
		DeleteReviewsByRecipe(ctx context.Context, recipeID uuid.UUID) (int64, error)
	}

	reviewRepository struct {
		db *gorm.DB
	}
)

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) CreateReview(ctx context.Context, review *entities.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) GetReviewByID(ctx context.Context, id uuid.UUID) (*entities.Review, error) {
	var review entities.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetReviewByRecipeAndUser(ctx context.Context, recipeID, userID uuid.UUID) (*entities.Review, error) {
	var review entities.Review
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetReviewsByRecipe(ctx context.Context, recipeID uuid.UUID) ([]*entities.Review, error) {
	reviews := []*entities.Review{}
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("reviewed_at desc").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) GetRatingSummary(ctx context.Context, recipeID uuid.UUID) (entities.RatingSummary, error) {
	var rows []entities.RatingSummary
	if err := r.db.WithContext(ctx).
		Model(&entities.Review{}).
		Select("recipe_id, AVG(rating) AS average, COUNT(*) AS count").
		Where("recipe_id = ?", recipeID).
		Group("recipe_id").
		Scan(&rows).Error; err != nil {
		return entities.RatingSummary{}, err
	}

	if len(rows) == 0 {
		return entities.RatingSummary{RecipeID: recipeID}, nil
	}
	return rows[0], nil
}

func (r *reviewRepository) UpdateReview(ctx context.Context, review *entities.Review) error {
	return r.db.WithContext(ctx).
		Model(review).
		Select("comment", "rating", "reviewed_at", "updated_at").
		Updates(review).Error
}

func (r *reviewRepository) DeleteReview(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Review{}).Error
}

func (r *reviewRepository) DeleteReviewsByRecipe(ctx context.Context, recipeID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Delete(&entities.Review{})
	return res.RowsAffected, res.Error
}
