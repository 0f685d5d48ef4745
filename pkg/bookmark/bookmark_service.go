package bookmark

import (
	"context"
	"errors"
	"slices"

	"recipe-share/domain"
	"recipe-share/pkg/recipe"
	"recipe-share/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	BookmarkService interface {
		// Toggle flips the membership of recipeID in the user's saved set and
		// reports the resulting state.
		Toggle(ctx context.Context, userID, recipeID uuid.UUID) (domain.BookmarkState, error)
		// ListSaved resolves the saved set, silently dropping recipes that no
		// longer exist.
		ListSaved(ctx context.Context, userID uuid.UUID) ([]domain.Recipe, error)
		// SavedSet returns the saved recipe ids of a user keyed by their
		// canonical string form.
		SavedSet(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error)
	}

	bookmarkService struct {
		userRepository user.UserRepository
		recipeService  recipe.RecipeService
	}
)

func NewBookmarkService(userRepository user.UserRepository, recipeService recipe.RecipeService) BookmarkService {
	return &bookmarkService{
		userRepository: userRepository,
		recipeService:  recipeService,
	}
}

func (s *bookmarkService) Toggle(ctx context.Context, userID, recipeID uuid.UUID) (domain.BookmarkState, error) {
	saved, err := s.userRepository.ToggleSavedRecipe(ctx, userID, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BookmarkState{}, domain.ErrUserNotFound
		}
		return domain.BookmarkState{}, err
	}

	return domain.BookmarkState{
		RecipeID: recipeID.String(),
		Saved:    saved,
	}, nil
}

func (s *bookmarkService) ListSaved(ctx context.Context, userID uuid.UUID) ([]domain.Recipe, error) {
	u, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(u.SavedRecipeIDs))
	for _, raw := range u.SavedRecipeIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	recipes, err := s.recipeService.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range recipes {
		recipes[i].IsSaved = true
	}
	return recipes, nil
}

func (s *bookmarkService) SavedSet(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	u, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	set := make(map[string]struct{}, len(u.SavedRecipeIDs))
	for _, id := range u.SavedRecipeIDs {
		set[id] = struct{}{}
	}
	return set, nil
}
