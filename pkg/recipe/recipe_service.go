package recipe

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"mime/multipart"
	"strings"
	"time"

	"recipe-share/domain"
	"recipe-share/entities"
	"recipe-share/internal/utils/storage"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const imageFolder = "recipes"

type (
	RecipeService interface {
		Create(ctx context.Context, ownerID uuid.UUID, req domain.CreateRecipeRequest) (domain.Recipe, error)
		GetAll(ctx context.Context) iter.Seq2[domain.Recipe, error]
		GetByID(ctx context.Context, id uuid.UUID) (domain.Recipe, error)
		GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Recipe, error)
		Update(ctx context.Context, id, ownerID uuid.UUID, req domain.UpdateRecipeRequest) (domain.Recipe, error)
		Delete(ctx context.Context, id, ownerID uuid.UUID) error
		UploadImage(ctx context.Context, id, ownerID uuid.UUID, image *multipart.FileHeader) (domain.Recipe, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		s3               storage.AwsS3
	}
)

func NewRecipeService(recipeRepository RecipeRepository, s3 storage.AwsS3) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		s3:               s3,
	}
}

func (s *recipeService) Create(ctx context.Context, ownerID uuid.UUID, req domain.CreateRecipeRequest) (domain.Recipe, error) {
	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    ownerID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Ingredients: SplitLines(req.Ingredients),
		Steps:       SplitLines(req.Steps),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Tags:        SplitTags(req.Tags),
	}
	if err := validateRecipe(recipe); err != nil {
		return domain.Recipe{}, err
	}

	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return domain.Recipe{}, fmt.Errorf("creating recipe: %w", err)
	}
	return toDomainRecipe(recipe), nil
}

func (s *recipeService) GetAll(ctx context.Context) iter.Seq2[domain.Recipe, error] {
	return func(yield func(domain.Recipe, error) bool) {
		for recipe, err := range s.recipeRepository.AllRecipes(ctx) {
			if err != nil {
				yield(domain.Recipe{}, err)
				return
			}
			if !yield(toDomainRecipe(recipe), nil) {
				return
			}
		}
	}
}

func (s *recipeService) GetByID(ctx context.Context, id uuid.UUID) (domain.Recipe, error) {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	return toDomainRecipe(recipe), nil
}

func (s *recipeService) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Recipe, error) {
	recipes, err := s.recipeRepository.GetRecipesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]domain.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		res = append(res, toDomainRecipe(recipe))
	}
	return res, nil
}

func (s *recipeService) Update(ctx context.Context, id, ownerID uuid.UUID, req domain.UpdateRecipeRequest) (domain.Recipe, error) {
	recipe, err := s.getOwnedRecipe(ctx, id, ownerID)
	if err != nil {
		return domain.Recipe{}, err
	}

	if req.Title != nil {
		recipe.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		recipe.Description = strings.TrimSpace(*req.Description)
	}
	if req.Ingredients != nil {
		recipe.Ingredients = SplitLines(*req.Ingredients)
	}
	if req.Steps != nil {
		recipe.Steps = SplitLines(*req.Steps)
	}
	var replacedKey string
	if req.ImageURL != nil {
		if link := strings.TrimSpace(*req.ImageURL); link != recipe.ImageURL {
			replacedKey = recipe.ImageKey
			recipe.ImageURL = link
			recipe.ImageKey = ""
		}
	}
	if req.Tags != nil {
		recipe.Tags = SplitTags(*req.Tags)
	}
	if err := validateRecipe(recipe); err != nil {
		return domain.Recipe{}, err
	}

	recipe.UpdatedAt = time.Now()
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		return domain.Recipe{}, fmt.Errorf("updating recipe: %w", err)
	}

	s.removeStoredImage(ctx, replacedKey)
	return toDomainRecipe(recipe), nil
}

func (s *recipeService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	recipe, err := s.getOwnedRecipe(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, id); err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}

	s.removeStoredImage(ctx, recipe.ImageKey)
	return nil
}

func (s *recipeService) UploadImage(ctx context.Context, id, ownerID uuid.UUID, image *multipart.FileHeader) (domain.Recipe, error) {
	recipe, err := s.getOwnedRecipe(ctx, id, ownerID)
	if err != nil {
		return domain.Recipe{}, err
	}
	if s.s3 == nil {
		return domain.Recipe{}, errors.New("image storage is not configured")
	}

	objectKey, err := s.s3.UploadFile(
		ctx,
		fmt.Sprintf("recipe-%s-%d", recipe.ID, time.Now().UnixNano()),
		image,
		imageFolder,
		storage.AllowImage...,
	)
	if err != nil {
		return domain.Recipe{}, err
	}

	previous := recipe.ImageKey
	recipe.ImageURL = s.s3.GetPublicLink(objectKey)
	recipe.ImageKey = objectKey
	recipe.UpdatedAt = time.Now()
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		s.removeStoredImage(ctx, objectKey)
		return domain.Recipe{}, fmt.Errorf("saving recipe image: %w", err)
	}

	s.removeStoredImage(ctx, previous)
	return toDomainRecipe(recipe), nil
}

func (s *recipeService) getRecipe(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) getOwnedRecipe(ctx context.Context, id, ownerID uuid.UUID) (*entities.Recipe, error) {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != ownerID {
		return nil, domain.ErrForbidden
	}
	return recipe, nil
}

// removeStoredImage deletes an object this service uploaded. Keys come
// from Recipe.ImageKey, never from the user-editable image link.
func (s *recipeService) removeStoredImage(ctx context.Context, objectKey string) {
	if s.s3 == nil || objectKey == "" {
		return
	}
	if err := s.s3.DeleteFile(ctx, objectKey); err != nil {
		log.Errorf("deleting recipe image %s: %v", objectKey, err)
	}
}

func validateRecipe(recipe *entities.Recipe) error {
	switch {
	case recipe.Title == "":
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	case recipe.Description == "":
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	case len(recipe.Ingredients) == 0:
		return fmt.Errorf("%w: at least one ingredient is required", domain.ErrValidation)
	case len(recipe.Steps) == 0:
		return fmt.Errorf("%w: at least one step is required", domain.ErrValidation)
	}
	return nil
}

func toDomainRecipe(recipe *entities.Recipe) domain.Recipe {
	return domain.Recipe{
		ID:          recipe.ID.String(),
		AuthorID:    recipe.AuthorID.String(),
		Title:       recipe.Title,
		Description: recipe.Description,
		Ingredients: append([]string{}, recipe.Ingredients...),
		Steps:       append([]string{}, recipe.Steps...),
		ImageURL:    recipe.ImageURL,
		Tags:        append([]string{}, recipe.Tags...),
		CreatedAt:   recipe.CreatedAt,
	}
}
