package review

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"recipe-share/domain"
	"recipe-share/entities"
	"recipe-share/internal/testutil/memstore"
	"recipe-share/internal/testutil/random"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	store  *memstore.Store
	svc    *reviewService
	author uuid.UUID
	recipe uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	svc := NewReviewService(store, store).(*reviewService)

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	author := uuid.New()
	r := &entities.Recipe{AuthorID: author, Title: random.String(8)}
	require.NoError(t, store.CreateRecipe(context.Background(), r))

	return &fixture{store: store, svc: svc, author: author, recipe: r.ID}
}

func (f *fixture) params(userID uuid.UUID, rating int) UpsertParams {
	return UpsertParams{
		RecipeID: f.recipe,
		UserID:   userID,
		Username: random.String(6),
		Comment:  random.String(20),
		Rating:   rating,
	}
}

func TestUpsertKeepsOneReviewPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reviewer := uuid.New()

	first, created, err := f.svc.Upsert(ctx, f.params(reviewer, 2))
	require.NoError(t, err)
	require.True(t, created)

	p := f.params(reviewer, 5)
	p.Comment = "even better the second time"
	second, created, err := f.svc.Upsert(ctx, p)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)
	require.True(t, second.ReviewedAt.After(first.ReviewedAt))

	reviews, err := f.svc.ListForRecipe(ctx, f.recipe)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, 5, reviews[0].Rating)
	require.Equal(t, "even better the second time", reviews[0].Comment)
}

func TestUpsertRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	testCases := []struct {
		name   string
		params UpsertParams
		err    error
	}{
		{"self review", f.params(f.author, 5), domain.ErrSelfReview},
		{"rating too low", f.params(uuid.New(), 0), domain.ErrInvalidRating},
		{"rating too high", f.params(uuid.New(), 6), domain.ErrInvalidRating},
		{"unknown recipe", UpsertParams{RecipeID: uuid.New(), UserID: uuid.New(), Comment: "x", Rating: 3}, domain.ErrRecipeNotFound},
		{"blank comment", UpsertParams{RecipeID: f.recipe, UserID: uuid.New(), Comment: "   ", Rating: 3}, domain.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.svc.Upsert(ctx, tc.params)
			require.ErrorIs(t, err, tc.err)
		})
	}

	reviews, err := f.svc.ListForRecipe(ctx, f.recipe)
	require.NoError(t, err)
	require.Empty(t, reviews)
}

func TestAverageRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, ok, err := f.svc.AverageRating(ctx, f.recipe)
	require.NoError(t, err)
	require.False(t, ok)

	for _, rating := range []int{5, 5, 4} {
		_, _, err := f.svc.Upsert(ctx, f.params(uuid.New(), rating))
		require.NoError(t, err)
	}

	avg, ok, err := f.svc.AverageRating(ctx, f.recipe)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 4.7, avg)
}

func TestRoundRating(t *testing.T) {
	require.Equal(t, 4.7, RoundRating(14.0/3))
	require.Equal(t, 3.0, RoundRating(3))
	require.Equal(t, 2.5, RoundRating(2.5))
	require.Equal(t, 1.3, RoundRating(4.0/3))
}

func TestListForRecipeNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ids []string
	for range 3 {
		r, _, err := f.svc.Upsert(ctx, f.params(uuid.New(), random.Rating()))
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	reviews, err := f.svc.ListForRecipe(ctx, f.recipe)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	require.Equal(t, ids[2], reviews[0].ID)
	require.Equal(t, ids[0], reviews[2].ID)
}

func TestDeleteOnlyByAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reviewer := uuid.New()

	r, _, err := f.svc.Upsert(ctx, f.params(reviewer, 4))
	require.NoError(t, err)
	id := uuid.MustParse(r.ID)

	err = f.svc.Delete(ctx, id, uuid.New())
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.Get(ctx, id)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, id, reviewer))
	_, err = f.svc.Get(ctx, id)
	require.ErrorIs(t, err, domain.ErrReviewNotFound)
	require.ErrorIs(t, f.svc.Delete(ctx, id, reviewer), domain.ErrNotFound)
}

func TestDeleteForRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for range 2 {
		_, _, err := f.svc.Upsert(ctx, f.params(uuid.New(), 3))
		require.NoError(t, err)
	}

	n, err := f.svc.DeleteForRecipe(ctx, f.recipe)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	_, ok, err := f.svc.AverageRating(ctx, f.recipe)
	require.NoError(t, err)
	require.False(t, ok)
}

// racingStore hides the first existing review from the pre-insert lookup,
// as if another request inserted it in between.
type racingStore struct {
	*memstore.Store
	hidden bool
}

func (s *racingStore) GetReviewByRecipeAndUser(ctx context.Context, recipeID, userID uuid.UUID) (*entities.Review, error) {
	if !s.hidden {
		s.hidden = true
		return nil, gorm.ErrRecordNotFound
	}
	return s.Store.GetReviewByRecipeAndUser(ctx, recipeID, userID)
}

func TestUpsertFallsBackToUpdateOnDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reviewer := uuid.New()

	_, _, err := f.svc.Upsert(ctx, f.params(reviewer, 1))
	require.NoError(t, err)

	racing := &racingStore{Store: f.store}
	svc := NewReviewService(racing, f.store)

	r, created, err := svc.Upsert(ctx, f.params(reviewer, 5))
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, 5, r.Rating)

	reviews, err := svc.ListForRecipe(ctx, f.recipe)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, 5, reviews[0].Rating)
}

func TestConcurrentUpsertsSameUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewReviewService(f.store, f.store)
	reviewer := uuid.New()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := range 10 {
		wg.Add(1)
		go func(rating int) {
			defer wg.Done()
			_, _, err := svc.Upsert(ctx, f.params(reviewer, rating))
			errs <- err
		}(i%5 + 1)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	reviews, err := svc.ListForRecipe(ctx, f.recipe)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
}

func TestStoreFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	outage := errors.New("connection refused")
	f.store.FailWith(outage)

	_, _, err := f.svc.AverageRating(context.Background(), f.recipe)
	require.ErrorIs(t, err, outage)
	_, err = f.svc.ListForRecipe(context.Background(), f.recipe)
	require.ErrorIs(t, err, outage)
}
