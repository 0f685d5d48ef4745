// Package memstore is an in-memory implementation of the user, recipe and
// review repositories for tests. It mirrors the gorm conventions the real
// repositories follow: gorm.ErrRecordNotFound for missing rows and
// gorm.ErrDuplicatedKey for unique index violations.
package memstore

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"sync"

	"recipe-share/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	mu      sync.Mutex
	err     error
	seq     int64
	touched map[uuid.UUID]int64

	users   map[uuid.UUID]*entities.User
	recipes map[uuid.UUID]*entities.Recipe
	reviews map[uuid.UUID]*entities.Review
}

func New() *Store {
	return &Store{
		touched: map[uuid.UUID]int64{},
		users:   map[uuid.UUID]*entities.User{},
		recipes: map[uuid.UUID]*entities.Recipe{},
		reviews: map[uuid.UUID]*entities.Review{},
	}
}

// FailWith makes every following call return err, simulating a store
// outage. FailWith(nil) restores normal operation.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Store) touch(id uuid.UUID) {
	s.seq++
	s.touched[id] = s.seq
}

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func cloneUser(u *entities.User) *entities.User {
	c := *u
	c.SavedRecipeIDs = slices.Clone(u.SavedRecipeIDs)
	return &c
}

func cloneRecipe(r *entities.Recipe) *entities.Recipe {
	c := *r
	c.Ingredients = slices.Clone(r.Ingredients)
	c.Steps = slices.Clone(r.Steps)
	c.Tags = slices.Clone(r.Tags)
	return &c
}

func cloneReview(r *entities.Review) *entities.Review {
	c := *r
	return &c
}

// Users

func (s *Store) CreateUser(_ context.Context, user *entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	assignID(&user.ID)
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Store) UpdateUser(_ context.Context, user *entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	stored, ok := s.users[user.ID]
	if !ok {
		return nil
	}
	for id, u := range s.users {
		if id != user.ID && u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	stored.Username = user.Username
	stored.Email = user.Email
	stored.Password = user.Password
	stored.UpdatedAt = user.UpdatedAt
	return nil
}

func (s *Store) ToggleSavedRecipe(_ context.Context, userID, recipeID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	u, ok := s.users[userID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	id := recipeID.String()
	if i := slices.Index(u.SavedRecipeIDs, id); i >= 0 {
		u.SavedRecipeIDs = slices.Delete(u.SavedRecipeIDs, i, i+1)
		return false, nil
	}
	u.SavedRecipeIDs = append(u.SavedRecipeIDs, id)
	return true, nil
}

// Recipes

func (s *Store) CreateRecipe(_ context.Context, recipe *entities.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	assignID(&recipe.ID)
	s.recipes[recipe.ID] = cloneRecipe(recipe)
	s.touch(recipe.ID)
	return nil
}

func (s *Store) GetRecipeByID(_ context.Context, id uuid.UUID) (*entities.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	r, ok := s.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneRecipe(r), nil
}

// sortedRecipes returns clones newest first; insertion order breaks ties.
func (s *Store) sortedRecipes(keep func(*entities.Recipe) bool) []*entities.Recipe {
	res := []*entities.Recipe{}
	for _, r := range s.recipes {
		if keep(r) {
			res = append(res, cloneRecipe(r))
		}
	}
	slices.SortFunc(res, func(a, b *entities.Recipe) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(s.touched[b.ID], s.touched[a.ID])
	})
	return res
}

func (s *Store) GetRecipesByIDs(_ context.Context, ids []uuid.UUID) ([]*entities.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.sortedRecipes(func(r *entities.Recipe) bool {
		return slices.Contains(ids, r.ID)
	}), nil
}

func (s *Store) AllRecipes(_ context.Context) iter.Seq2[*entities.Recipe, error] {
	return func(yield func(*entities.Recipe, error) bool) {
		s.mu.Lock()
		if s.err != nil {
			err := s.err
			s.mu.Unlock()
			yield(nil, err)
			return
		}
		snapshot := s.sortedRecipes(func(*entities.Recipe) bool { return true })
		s.mu.Unlock()

		for _, r := range snapshot {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func (s *Store) UpdateRecipe(_ context.Context, recipe *entities.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	stored, ok := s.recipes[recipe.ID]
	if !ok {
		return nil
	}
	updated := cloneRecipe(recipe)
	updated.AuthorID = stored.AuthorID
	updated.CreatedAt = stored.CreatedAt
	s.recipes[recipe.ID] = updated
	return nil
}

func (s *Store) DeleteRecipe(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.recipes, id)
	return nil
}

// Reviews

func (s *Store) CreateReview(_ context.Context, review *entities.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, r := range s.reviews {
		if r.RecipeID == review.RecipeID && r.UserID == review.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	assignID(&review.ID)
	s.reviews[review.ID] = cloneReview(review)
	s.touch(review.ID)
	return nil
}

func (s *Store) GetReviewByID(_ context.Context, id uuid.UUID) (*entities.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	r, ok := s.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneReview(r), nil
}

func (s *Store) GetReviewByRecipeAndUser(_ context.Context, recipeID, userID uuid.UUID) (*entities.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, r := range s.reviews {
		if r.RecipeID == recipeID && r.UserID == userID {
			return cloneReview(r), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Store) GetReviewsByRecipe(_ context.Context, recipeID uuid.UUID) ([]*entities.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	res := []*entities.Review{}
	for _, r := range s.reviews {
		if r.RecipeID == recipeID {
			res = append(res, cloneReview(r))
		}
	}
	slices.SortFunc(res, func(a, b *entities.Review) int {
		if c := b.ReviewedAt.Compare(a.ReviewedAt); c != 0 {
			return c
		}
		return cmp.Compare(s.touched[b.ID], s.touched[a.ID])
	})
	return res, nil
}

func (s *Store) GetRatingSummary(_ context.Context, recipeID uuid.UUID) (entities.RatingSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return entities.RatingSummary{}, s.err
	}
	summary := entities.RatingSummary{RecipeID: recipeID}
	total := 0
	for _, r := range s.reviews {
		if r.RecipeID == recipeID {
			total += r.Rating
			summary.Count++
		}
	}
	if summary.Count > 0 {
		summary.Average = float64(total) / float64(summary.Count)
	}
	return summary, nil
}

func (s *Store) UpdateReview(_ context.Context, review *entities.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	stored, ok := s.reviews[review.ID]
	if !ok {
		return nil
	}
	stored.Comment = review.Comment
	stored.Rating = review.Rating
	stored.ReviewedAt = review.ReviewedAt
	stored.UpdatedAt = review.UpdatedAt
	s.touch(review.ID)
	return nil
}

func (s *Store) DeleteReview(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.reviews, id)
	return nil
}

func (s *Store) DeleteReviewsByRecipe(_ context.Context, recipeID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	var n int64
	for id, r := range s.reviews {
		if r.RecipeID == recipeID {
			delete(s.reviews, id)
			n++
		}
	}
	return n, nil
}
