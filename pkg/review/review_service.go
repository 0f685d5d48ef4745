package review

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"recipe-share/domain"
	"recipe-share/entities"
	"recipe-share/pkg/recipe"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	UpsertParams struct {
		RecipeID uuid.UUID
		UserID   uuid.UUID
		Username string
		Comment  string
		Rating   int
	}

	ReviewService interface {
		// Upsert keeps at most one review per (recipe, user): a repeated
		// submission overwrites the earlier one. created reports whether a
		// new review was inserted.
		Upsert(ctx context.Context, params UpsertParams) (review domain.Review, created bool, err error)
		Get(ctx context.Context, reviewID uuid.UUID) (domain.Review, error)
		ListForRecipe(ctx context.Context, recipeID uuid.UUID) ([]domain.Review, error)
		// AverageRating is the mean rating rounded to one decimal. ok is false
		// when the recipe has no reviews.
		AverageRating(ctx context.Context, recipeID uuid.UUID) (avg float64, ok bool, err error)
		Delete(ctx context.Context, reviewID, requesterID uuid.UUID) error
		DeleteForRecipe(ctx context.Context, recipeID uuid.UUID) (int64, error)
	}

	reviewService struct {
		reviewRepository ReviewRepository
		recipeRepository recipe.RecipeRepository
		now              func() time.Time
	}
)

func NewReviewService(reviewRepository ReviewRepository, recipeRepository recipe.RecipeRepository) ReviewService {
	return &reviewService{
		reviewRepository: reviewRepository,
		recipeRepository: recipeRepository,
		now:              time.Now,
	}
}

func (s *reviewService) Upsert(ctx context.Context, params UpsertParams) (domain.Review, bool, error) {
	target, err := s.recipeRepository.GetRecipeByID(ctx, params.RecipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Review{}, false, domain.ErrRecipeNotFound
		}
		return domain.Review{}, false, err
	}
	if target.AuthorID == params.UserID {
		return domain.Review{}, false, domain.ErrSelfReview
	}
	if params.Rating < domain.MinRating || params.Rating > domain.MaxRating {
		return domain.Review{}, false, domain.ErrInvalidRating
	}
	comment := strings.TrimSpace(params.Comment)
	if comment == "" {
		return domain.Review{}, false, fmt.Errorf("%w: comment is required", domain.ErrValidation)
	}

	existing, err := s.reviewRepository.GetReviewByRecipeAndUser(ctx, params.RecipeID, params.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Review{}, false, err
	}
	if existing != nil {
		return s.overwrite(ctx, existing, comment, params.Rating)
	}

	now := s.now()
	review := &entities.Review{
		ID:         uuid.New(),
		RecipeID:   params.RecipeID,
		UserID:     params.UserID,
		Username:   params.Username,
		Comment:    comment,
		Rating:     params.Rating,
		ReviewedAt: now,
	}
	review.CreatedAt = now
	review.UpdatedAt = now

	if err := s.reviewRepository.CreateReview(ctx, review); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Review{}, false, fmt.Errorf("creating review: %w", err)
		}
		// Lost an insert race against the same user; update theirs instead.
		existing, err := s.reviewRepository.GetReviewByRecipeAndUser(ctx, params.RecipeID, params.UserID)
		if err != nil {
			return domain.Review{}, false, err
		}
		return s.overwrite(ctx, existing, comment, params.Rating)
	}

	return toDomainReview(review), true, nil
}

func (s *reviewService) overwrite(ctx context.Context, review *entities.Review, comment string, rating int) (domain.Review, bool, error) {
	now := s.now()
	review.Comment = comment
	review.Rating = rating
	review.ReviewedAt = now
	review.UpdatedAt = now

	if err := s.reviewRepository.UpdateReview(ctx, review); err != nil {
		return domain.Review{}, false, fmt.Errorf("updating review: %w", err)
	}
	return toDomainReview(review), false, nil
}

func (s *reviewService) Get(ctx context.Context, reviewID uuid.UUID) (domain.Review, error) {
	review, err := s.reviewRepository.GetReviewByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Review{}, domain.ErrReviewNotFound
		}
		return domain.Review{}, err
	}
	return toDomainReview(review), nil
}

func (s *reviewService) ListForRecipe(ctx context.Context, recipeID uuid.UUID) ([]domain.Review, error) {
	reviews, err := s.reviewRepository.GetReviewsByRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	res := make([]domain.Review, 0, len(reviews))
	for _, review := range reviews {
		res = append(res, toDomainReview(review))
	}
	return res, nil
}

func (s *reviewService) AverageRating(ctx context.Context, recipeID uuid.UUID) (float64, bool, error) {
	summary, err := s.reviewRepository.GetRatingSummary(ctx, recipeID)
	if err != nil {
		return 0, false, err
	}
	if summary.Count == 0 {
		return 0, false, nil
	}
	return RoundRating(summary.Average), true, nil
}

func (s *reviewService) Delete(ctx context.Context, reviewID, requesterID uuid.UUID) error {
	review, err := s.reviewRepository.GetReviewByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrReviewNotFound
		}
		return err
	}
	if review.UserID != requesterID {
		return domain.ErrForbidden
	}

	return s.reviewRepository.DeleteReview(ctx, reviewID)
}

func (s *reviewService) DeleteForRecipe(ctx context.Context, recipeID uuid.UUID) (int64, error) {
	return s.reviewRepository.DeleteReviewsByRecipe(ctx, recipeID)
}

// RoundRating rounds to one decimal place, halves away from zero.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

func toDomainReview(review *entities.Review) domain.Review {
	return domain.Review{
		ID:         review.ID.String(),
		RecipeID:   review.RecipeID.String(),
		UserID:     review.UserID.String(),
		Username:   review.Username,
		Comment:    review.Comment,
		Rating:     review.Rating,
		ReviewedAt: review.ReviewedAt,
	}
}
