package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe added successfully"
	MessageSuccessUpdateRecipe    = "recipe updated"
	MessageSuccessDeleteRecipe    = "recipe deleted"
	MessageSuccessUploadImage     = "recipe image uploaded"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to add recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedUploadImage     = "failed to upload recipe image"

	ErrInvalidImageFormat = errors.New("invalid image format")
)

type (
	// CreateRecipeRequest carries the raw form text: ingredients and steps
	// one per line, tags comma separated.
	CreateRecipeRequest struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description" validate:"required"`
		Ingredients string `json:"ingredients" validate:"required"`
		Steps       string `json:"steps" validate:"required"`
		ImageURL    string `json:"image_url" validate:"omitempty,url"`
		Tags        string `json:"tags"`
	}

	// UpdateRecipeRequest merges only the fields that are present.
	UpdateRecipeRequest struct {
		Title       *string `json:"title" validate:"omitempty,min=1"`
		Description *string `json:"description" validate:"omitempty,min=1"`
		Ingredients *string `json:"ingredients" validate:"omitempty,min=1"`
		Steps       *string `json:"steps" validate:"omitempty,min=1"`
		ImageURL    *string `json:"image_url" validate:"omitempty,url"`
		Tags        *string `json:"tags"`
	}

	UploadRecipeImageRequest struct {
		Image *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	ListRecipesRequest struct {
		Tag   string `query:"tag"`
		Limit int    `query:"limit" validate:"omitempty,min=1,max=200"`
	}

	Recipe struct {
		ID          string    `json:"id"`
		AuthorID    string    `json:"author_id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Ingredients []string  `json:"ingredients"`
		Steps       []string  `json:"steps"`
		ImageURL    string    `json:"image_url,omitempty"`
		Tags        []string  `json:"tags"`
		CreatedAt   time.Time `json:"created_at"`
		IsSaved     bool      `json:"is_saved"`
	}

	RecipeDetail struct {
		Recipe
		Reviews []Review `json:"reviews"`
		// AverageRating is nil when the recipe has no reviews.
		AverageRating *float64 `json:"average_rating"`
		ReviewCount   int      `json:"review_count"`
		IsOwner       bool     `json:"is_owner"`
	}
)
