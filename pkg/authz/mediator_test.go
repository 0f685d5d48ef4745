package authz

import (
	"context"
	"testing"
	"time"

	"recipe-share/domain"
	"recipe-share/internal/testutil/memstore"
	"recipe-share/internal/testutil/random"
	"recipe-share/pkg/bookmark"
	"recipe-share/pkg/jwt"
	"recipe-share/pkg/recipe"
	"recipe-share/pkg/review"
	"recipe-share/pkg/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type noopMailer struct{}

func (noopMailer) SendMail(string, string, string) error { return nil }

type fixture struct {
	store    *memstore.Store
	bucket   *memstore.Bucket
	users    user.UserService
	mediator Mediator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	bucket := memstore.NewBucket()

	userService := user.NewUserService(store, jwt.NewJWTService(random.String(32), time.Hour), noopMailer{})
	recipeService := recipe.NewRecipeService(store, bucket)
	reviewService := review.NewReviewService(store, store)
	bookmarkService := bookmark.NewBookmarkService(store, recipeService)

	return &fixture{
		store:    store,
		bucket:   bucket,
		users:    userService,
		mediator: NewMediator(userService, recipeService, reviewService, bookmarkService),
	}
}

func (f *fixture) signup(t *testing.T, username, email string) *domain.Identity {
	t.Helper()
	pw := random.String(10)
	u, err := f.users.Register(context.Background(), domain.RegisterRequest{
		Username: username,
		Email:    email,
		Password: pw,
		Confirm:  pw,
	})
	require.NoError(t, err)
	return &domain.Identity{UserID: uuid.MustParse(u.ID)}
}

func (f *fixture) recipe(t *testing.T, owner *domain.Identity, title, tags string) domain.Recipe {
	t.Helper()
	r, err := f.mediator.CreateRecipe(context.Background(), owner, domain.CreateRecipeRequest{
		Title:       title,
		Description: random.String(20),
		Ingredients: random.Lines(3),
		Steps:       random.Lines(2),
		Tags:        tags,
	})
	require.NoError(t, err)
	return r
}

func TestAliceAndBob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.signup(t, "alice", "a@x.com")
	bob := f.signup(t, "bob", "b@x.com")
	soup := f.recipe(t, alice, "Soup", "")

	res, err := f.mediator.SubmitReview(ctx, bob, soup.ID, domain.SubmitReviewRequest{Comment: "ok", Rating: 3})
	require.NoError(t, err)
	require.True(t, res.Created)
	require.Equal(t, "bob", res.Review.Username)

	res, err = f.mediator.SubmitReview(ctx, bob, soup.ID, domain.SubmitReviewRequest{Comment: "great", Rating: 5})
	require.NoError(t, err)
	require.False(t, res.Created)

	reviews, err := f.mediator.ListReviews(ctx, soup.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, 5, reviews[0].Rating)
	require.Equal(t, "great", reviews[0].Comment)

	detail, err := f.mediator.RecipeDetail(ctx, nil, soup.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.AverageRating)
	require.Equal(t, 5.0, *detail.AverageRating)
	require.Equal(t, 1, detail.ReviewCount)
	require.False(t, detail.IsOwner)

	detail, err = f.mediator.RecipeDetail(ctx, alice, soup.ID)
	require.NoError(t, err)
	require.True(t, detail.IsOwner)
}

func TestAnonymousCallerIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice", random.Email())
	r := f.recipe(t, alice, "Bread", "")

	_, err := f.mediator.CreateRecipe(ctx, nil, domain.CreateRecipeRequest{Title: "x"})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = f.mediator.UpdateRecipe(ctx, nil, r.ID, domain.UpdateRecipeRequest{})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
	require.ErrorIs(t, f.mediator.DeleteRecipe(ctx, nil, r.ID), domain.ErrUnauthenticated)
	_, err = f.mediator.SubmitReview(ctx, nil, r.ID, domain.SubmitReviewRequest{Comment: "x", Rating: 4})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
	require.ErrorIs(t, f.mediator.DeleteReview(ctx, nil, uuid.NewString()), domain.ErrUnauthenticated)
	_, err = f.mediator.ToggleBookmark(ctx, nil, r.ID)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = f.mediator.ListSaved(ctx, nil)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	// Reads stay public.
	recipes, err := f.mediator.ListRecipes(ctx, nil, domain.ListRecipesRequest{})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	require.False(t, recipes[0].IsSaved)
}

func TestForbiddenDeleteChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.signup(t, "alice", random.Email())
	bob := f.signup(t, "bob", random.Email())
	r := f.recipe(t, alice, "Stew", "")

	_, err := f.mediator.SubmitReview(ctx, bob, r.ID, domain.SubmitReviewRequest{Comment: "nice", Rating: 4})
	require.NoError(t, err)
	_, err = f.mediator.ToggleBookmark(ctx, bob, r.ID)
	require.NoError(t, err)

	require.ErrorIs(t, f.mediator.DeleteRecipe(ctx, bob, r.ID), domain.ErrForbidden)
	_, err = f.mediator.UpdateRecipe(ctx, bob, r.ID, domain.UpdateRecipeRequest{})
	require.ErrorIs(t, err, domain.ErrForbidden)

	detail, err := f.mediator.RecipeDetail(ctx, bob, r.ID)
	require.NoError(t, err)
	require.Equal(t, r.Title, detail.Title)
	require.Len(t, detail.Reviews, 1)
	require.True(t, detail.IsSaved)

	saved, err := f.mediator.ListSaved(ctx, bob)
	require.NoError(t, err)
	require.Len(t, saved, 1)
}

func TestDeleteRecipeCascadesReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.signup(t, "alice", random.Email())
	bob := f.signup(t, "bob", random.Email())
	r := f.recipe(t, alice, "Curry", "")

	_, err := f.mediator.SubmitReview(ctx, bob, r.ID, domain.SubmitReviewRequest{Comment: "spicy", Rating: 5})
	require.NoError(t, err)
	_, err = f.mediator.ToggleBookmark(ctx, bob, r.ID)
	require.NoError(t, err)

	require.NoError(t, f.mediator.DeleteRecipe(ctx, alice, r.ID))

	_, err = f.mediator.RecipeDetail(ctx, alice, r.ID)
	require.ErrorIs(t, err, domain.ErrRecipeNotFound)
	reviews, err := f.store.GetReviewsByRecipe(ctx, uuid.MustParse(r.ID))
	require.NoError(t, err)
	require.Empty(t, reviews)

	saved, err := f.mediator.ListSaved(ctx, bob)
	require.NoError(t, err)
	require.Empty(t, saved)
}

func TestSubmitReviewRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.signup(t, "alice", random.Email())
	bob := f.signup(t, "bob", random.Email())
	r := f.recipe(t, alice, "Pie", "")

	_, err := f.mediator.SubmitReview(ctx, alice, r.ID, domain.SubmitReviewRequest{Comment: "mine is best", Rating: 5})
	require.ErrorIs(t, err, domain.ErrSelfReview)
	_, err = f.mediator.SubmitReview(ctx, bob, r.ID, domain.SubmitReviewRequest{Comment: "x", Rating: 9})
	require.ErrorIs(t, err, domain.ErrInvalidRating)
	_, err = f.mediator.SubmitReview(ctx, bob, "not-an-id", domain.SubmitReviewRequest{Comment: "x", Rating: 3})
	require.ErrorIs(t, err, domain.ErrRecipeNotFound)
	_, err = f.mediator.SubmitReview(ctx, bob, uuid.NewString(), domain.SubmitReviewRequest{Comment: "x", Rating: 3})
	require.ErrorIs(t, err, domain.ErrRecipeNotFound)

	ghost := &domain.Identity{UserID: uuid.New()}
	_, err = f.mediator.SubmitReview(ctx, ghost, r.ID, domain.SubmitReviewRequest{Comment: "x", Rating: 3})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	detail, err := f.mediator.RecipeDetail(ctx, nil, r.ID)
	require.NoError(t, err)
	require.Nil(t, detail.AverageRating)
	require.Empty(t, detail.Reviews)
}

func TestDeleteReviewOnlyByAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.signup(t, "alice", random.Email())
	bob := f.signup(t, "bob", random.Email())
	r := f.recipe(t, alice, "Tart", "")

	res, err := f.mediator.SubmitReview(ctx, bob, r.ID, domain.SubmitReviewRequest{Comment: "yum", Rating: 4})
	require.NoError(t, err)

	// Even the recipe owner cannot remove someone else's review.
	require.ErrorIs(t, f.mediator.DeleteReview(ctx, alice, res.Review.ID), domain.ErrForbidden)
	require.NoError(t, f.mediator.DeleteReview(ctx, bob, res.Review.ID))
	require.ErrorIs(t, f.mediator.DeleteReview(ctx, bob, res.Review.ID), domain.ErrReviewNotFound)
	require.ErrorIs(t, f.mediator.DeleteReview(ctx, bob, "garbage"), domain.ErrReviewNotFound)
}

func TestListRecipesFiltersAndAnnotates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.signup(t, "alice", random.Email())
	bob := f.signup(t, "bob", random.Email())
	salad := f.recipe(t, alice, "Salad", "Vegan, quick")
	f.recipe(t, alice, "Steak", "meat")
	bowl := f.recipe(t, alice, "Bowl", "vegan")

	_, err := f.mediator.ToggleBookmark(ctx, bob, salad.ID)
	require.NoError(t, err)

	vegan, err := f.mediator.ListRecipes(ctx, bob, domain.ListRecipesRequest{Tag: "VEGAN"})
	require.NoError(t, err)
	require.Len(t, vegan, 2)
	require.Equal(t, bowl.ID, vegan[0].ID)
	require.False(t, vegan[0].IsSaved)
	require.Equal(t, salad.ID, vegan[1].ID)
	require.True(t, vegan[1].IsSaved)

	limited, err := f.mediator.ListRecipes(ctx, nil, domain.ListRecipesRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, bowl.ID, limited[0].ID)

	none, err := f.mediator.ListRecipes(ctx, nil, domain.ListRecipesRequest{Tag: "dessert"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestToggleBookmark(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.signup(t, "alice", random.Email())
	r := f.recipe(t, alice, "Soup", "")

	state, err := f.mediator.ToggleBookmark(ctx, alice, r.ID)
	require.NoError(t, err)
	require.True(t, state.Saved)
	state, err = f.mediator.ToggleBookmark(ctx, alice, r.ID)
	require.NoError(t, err)
	require.False(t, state.Saved)

	_, err = f.mediator.ToggleBookmark(ctx, alice, uuid.NewString())
	require.ErrorIs(t, err, domain.ErrRecipeNotFound)

	ghost := &domain.Identity{UserID: uuid.New()}
	_, err = f.mediator.ToggleBookmark(ctx, ghost, r.ID)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestUploadRecipeImageOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.signup(t, "alice", random.Email())
	bob := f.signup(t, "bob", random.Email())
	r := f.recipe(t, alice, "Cake", "")

	image, err := memstore.FileHeader("cake.jpg", "image/jpeg", []byte("jpeg"))
	require.NoError(t, err)

	_, err = f.mediator.UploadRecipeImage(ctx, bob, r.ID, image)
	require.ErrorIs(t, err, domain.ErrForbidden)
	require.Empty(t, f.bucket.Keys())

	updated, err := f.mediator.UploadRecipeImage(ctx, alice, r.ID, image)
	require.NoError(t, err)
	require.NotEmpty(t, updated.ImageURL)
	require.Len(t, f.bucket.Keys(), 1)
}

func TestBorrowedImageLinkCannotDeleteOwnersImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.signup(t, "alice", random.Email())
	bob := f.signup(t, "bob", random.Email())
	cake := f.recipe(t, alice, "Cake", "")

	image, err := memstore.FileHeader("cake.jpg", "image/jpeg", []byte("jpeg"))
	require.NoError(t, err)
	withImage, err := f.mediator.UploadRecipeImage(ctx, alice, cake.ID, image)
	require.NoError(t, err)
	require.Len(t, f.bucket.Keys(), 1)
	aliceKey := f.bucket.Keys()[0]

	// Bob reuses alice's public link on his own recipe, then deletes it.
	copycat, err := f.mediator.CreateRecipe(ctx, bob, domain.CreateRecipeRequest{
		Title:       "Also cake",
		Description: random.String(20),
		Ingredients: random.Lines(2),
		Steps:       random.Lines(2),
		ImageURL:    withImage.ImageURL,
	})
	require.NoError(t, err)
	require.NoError(t, f.mediator.DeleteRecipe(ctx, bob, copycat.ID))
	require.Equal(t, []string{aliceKey}, f.bucket.Keys())

	// Same through an edit followed by an upload of his own.
	pie := f.recipe(t, bob, "Pie", "")
	_, err = f.mediator.UpdateRecipe(ctx, bob, pie.ID, domain.UpdateRecipeRequest{ImageURL: &withImage.ImageURL})
	require.NoError(t, err)
	_, err = f.mediator.UploadRecipeImage(ctx, bob, pie.ID, image)
	require.NoError(t, err)
	require.Len(t, f.bucket.Keys(), 2)
	require.Contains(t, f.bucket.Keys(), aliceKey)

	detail, err := f.mediator.RecipeDetail(ctx, alice, cake.ID)
	require.NoError(t, err)
	require.Equal(t, withImage.ImageURL, detail.ImageURL)
}
