package domain

import (
	"errors"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	MessageSuccessCreateReview = "thanks for your review"
	MessageSuccessUpdateReview = "your review has been updated"
	MessageSuccessGetReviews   = "success get reviews"
	MessageSuccessDeleteReview = "review deleted successfully"

	MessageFailedSubmitReview = "failed to submit review"
	MessageFailedGetReviews   = "failed to get reviews"
	MessageFailedDeleteReview = "failed to delete review"

	ErrSelfReview    = errors.New("cannot review your own recipe")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

type (
	SubmitReviewRequest struct {
		Comment string `json:"comment" validate:"required"`
		Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	}

	Review struct {
		ID         string    `json:"id"`
		RecipeID   string    `json:"recipe_id"`
		UserID     string    `json:"user_id"`
		Username   string    `json:"username"`
		Comment    string    `json:"comment"`
		Rating     int       `json:"rating"`
		ReviewedAt time.Time `json:"reviewed_at"`
	}

	SubmitReviewResponse struct {
		Review  Review `json:"review"`
		Created bool   `json:"created"`
	}
)
