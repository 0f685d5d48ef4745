// Package authz gates every mutation of recipes, reviews and bookmarks.
//
// The Mediator resolves the caller's identity and checks authentication,
// ownership and self-review rules before delegating to the stores, so a
// rejected call never writes anything.
package authz

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"recipe-share/domain"
	"recipe-share/pkg/bookmark"
	"recipe-share/pkg/recipe"
	"recipe-share/pkg/review"
	"recipe-share/pkg/user"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type (
	Mediator interface {
		ListRecipes(ctx context.Context, identity *domain.Identity, req domain.ListRecipesRequest) ([]domain.Recipe, error)
		RecipeDetail(ctx context.Context, identity *domain.Identity, recipeID string) (domain.RecipeDetail, error)
		CreateRecipe(ctx context.Context, identity *domain.Identity, req domain.CreateRecipeRequest) (domain.Recipe, error)
		UpdateRecipe(ctx context.Context, identity *domain.Identity, recipeID string, req domain.UpdateRecipeRequest) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, identity *domain.Identity, recipeID string) error
		UploadRecipeImage(ctx context.Context, identity *domain.Identity, recipeID string, image *multipart.FileHeader) (domain.Recipe, error)

		ListReviews(ctx context.Context, recipeID string) ([]domain.Review, error)
		SubmitReview(ctx context.Context, identity *domain.Identity, recipeID string, req domain.SubmitReviewRequest) (domain.SubmitReviewResponse, error)
		DeleteReview(ctx context.Context, identity *domain.Identity, reviewID string) error

		ToggleBookmark(ctx context.Context, identity *domain.Identity, recipeID string) (domain.BookmarkState, error)
		ListSaved(ctx context.Context, identity *domain.Identity) ([]domain.Recipe, error)
	}

	mediator struct {
		userService     user.UserService
		recipeService   recipe.RecipeService
		reviewService   review.ReviewService
		bookmarkService bookmark.BookmarkService
	}
)

func NewMediator(
	userService user.UserService,
	recipeService recipe.RecipeService,
	reviewService review.ReviewService,
	bookmarkService bookmark.BookmarkService,
) Mediator {
	return &mediator{
		userService:     userService,
		recipeService:   recipeService,
		reviewService:   reviewService,
		bookmarkService: bookmarkService,
	}
}

func requireIdentity(identity *domain.Identity) error {
	if identity == nil || identity.UserID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	return nil
}

// ownedRecipe loads a recipe and checks that identity owns it.
func (m *mediator) ownedRecipe(ctx context.Context, identity *domain.Identity, recipeID string) (uuid.UUID, error) {
	if err := requireIdentity(identity); err != nil {
		return uuid.Nil, err
	}
	id, err := domain.ParseID(recipeID, domain.ErrRecipeNotFound)
	if err != nil {
		return uuid.Nil, err
	}

	target, err := m.recipeService.GetByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if target.AuthorID != identity.UserID.String() {
		return uuid.Nil, domain.ErrForbidden
	}
	return id, nil
}

// savedSet is empty for anonymous callers.
func (m *mediator) savedSet(ctx context.Context, identity *domain.Identity) (map[string]struct{}, error) {
	if identity == nil {
		return map[string]struct{}{}, nil
	}
	set, err := m.bookmarkService.SavedSet(ctx, identity.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return map[string]struct{}{}, nil
	}
	return set, err
}

func (m *mediator) ListRecipes(ctx context.Context, identity *domain.Identity, req domain.ListRecipesRequest) ([]domain.Recipe, error) {
	saved, err := m.savedSet(ctx, identity)
	if err != nil {
		return nil, err
	}

	tag := strings.TrimSpace(req.Tag)
	recipes := []domain.Recipe{}
	for r, err := range m.recipeService.GetAll(ctx) {
		if err != nil {
			return nil, err
		}
		if tag != "" && !hasTag(r.Tags, tag) {
			continue
		}
		_, r.IsSaved = saved[r.ID]
		recipes = append(recipes, r)
		if req.Limit > 0 && len(recipes) >= req.Limit {
			break
		}
	}
	return recipes, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func (m *mediator) RecipeDetail(ctx context.Context, identity *domain.Identity, recipeID string) (domain.RecipeDetail, error) {
	id, err := domain.ParseID(recipeID, domain.ErrRecipeNotFound)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	r, err := m.recipeService.GetByID(ctx, id)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	reviews, err := m.reviewService.ListForRecipe(ctx, id)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	avg, ok, err := m.reviewService.AverageRating(ctx, id)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	saved, err := m.savedSet(ctx, identity)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	detail := domain.RecipeDetail{
		Recipe:      r,
		Reviews:     reviews,
		ReviewCount: len(reviews),
	}
	_, detail.IsSaved = saved[r.ID]
	if ok {
		detail.AverageRating = &avg
	}
	if identity != nil {
		detail.IsOwner = r.AuthorID == identity.UserID.String()
	}
	return detail, nil
}

func (m *mediator) CreateRecipe(ctx context.Context, identity *domain.Identity, req domain.CreateRecipeRequest) (domain.Recipe, error) {
	if err := requireIdentity(identity); err != nil {
		return domain.Recipe{}, err
	}
	return m.recipeService.Create(ctx, identity.UserID, req)
}

func (m *mediator) UpdateRecipe(ctx context.Context, identity *domain.Identity, recipeID string, req domain.UpdateRecipeRequest) (domain.Recipe, error) {
	id, err := m.ownedRecipe(ctx, identity, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	return m.recipeService.Update(ctx, id, identity.UserID, req)
}

func (m *mediator) DeleteRecipe(ctx context.Context, identity *domain.Identity, recipeID string) error {
	id, err := m.ownedRecipe(ctx, identity, recipeID)
	if err != nil {
		return err
	}
	if err := m.recipeService.Delete(ctx, id, identity.UserID); err != nil {
		return err
	}

	if _, err := m.reviewService.DeleteForRecipe(ctx, id); err != nil {
		log.Errorf("deleting reviews of recipe %s: %v", id, err)
	}
	return nil
}

func (m *mediator) UploadRecipeImage(ctx context.Context, identity *domain.Identity, recipeID string, image *multipart.FileHeader) (domain.Recipe, error) {
	id, err := m.ownedRecipe(ctx, identity, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	return m.recipeService.UploadImage(ctx, id, identity.UserID, image)
}

func (m *mediator) ListReviews(ctx context.Context, recipeID string) ([]domain.Review, error) {
	id, err := domain.ParseID(recipeID, domain.ErrRecipeNotFound)
	if err != nil {
		return nil, err
	}
	if _, err := m.recipeService.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return m.reviewService.ListForRecipe(ctx, id)
}

func (m *mediator) SubmitReview(ctx context.Context, identity *domain.Identity, recipeID string, req domain.SubmitReviewRequest) (domain.SubmitReviewResponse, error) {
	if err := requireIdentity(identity); err != nil {
		return domain.SubmitReviewResponse{}, err
	}
	id, err := domain.ParseID(recipeID, domain.ErrRecipeNotFound)
	if err != nil {
		return domain.SubmitReviewResponse{}, err
	}

	target, err := m.recipeService.GetByID(ctx, id)
	if err != nil {
		return domain.SubmitReviewResponse{}, err
	}
	if target.AuthorID == identity.UserID.String() {
		return domain.SubmitReviewResponse{}, domain.ErrSelfReview
	}
	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return domain.SubmitReviewResponse{}, domain.ErrInvalidRating
	}

	author, err := m.userService.GetByID(ctx, identity.UserID)
	if err != nil {
		return domain.SubmitReviewResponse{}, err
	}
	if author == nil {
		return domain.SubmitReviewResponse{}, domain.ErrUnauthenticated
	}

	stored, created, err := m.reviewService.Upsert(ctx, review.UpsertParams{
		RecipeID: id,
		UserID:   identity.UserID,
		Username: author.Username,
		Comment:  req.Comment,
		Rating:   req.Rating,
	})
	if err != nil {
		return domain.SubmitReviewResponse{}, err
	}
	return domain.SubmitReviewResponse{Review: stored, Created: created}, nil
}

func (m *mediator) DeleteReview(ctx context.Context, identity *domain.Identity, reviewID string) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	id, err := domain.ParseID(reviewID, domain.ErrReviewNotFound)
	if err != nil {
		return err
	}

	existing, err := m.reviewService.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != identity.UserID.String() {
		return domain.ErrForbidden
	}
	return m.reviewService.Delete(ctx, id, identity.UserID)
}

func (m *mediator) ToggleBookmark(ctx context.Context, identity *domain.Identity, recipeID string) (domain.BookmarkState, error) {
	if err := requireIdentity(identity); err != nil {
		return domain.BookmarkState{}, err
	}
	id, err := domain.ParseID(recipeID, domain.ErrRecipeNotFound)
	if err != nil {
		return domain.BookmarkState{}, err
	}
	if _, err := m.recipeService.GetByID(ctx, id); err != nil {
		return domain.BookmarkState{}, err
	}

	state, err := m.bookmarkService.Toggle(ctx, identity.UserID, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.BookmarkState{}, domain.ErrUnauthenticated
	}
	return state, err
}

func (m *mediator) ListSaved(ctx context.Context, identity *domain.Identity) ([]domain.Recipe, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	recipes, err := m.bookmarkService.ListSaved(ctx, identity.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	return recipes, err
}
