package routes

import (
	"recipe-share/internal/api/handlers"
	"recipe-share/internal/middleware"
	"recipe-share/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	RecipeHandler   handlers.RecipeHandler
	ReviewHandler   handlers.ReviewHandler
	BookmarkHandler handlers.BookmarkHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Recipe()
	c.Review()
	c.Bookmark()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
	}
}

func (c *Config) Recipe() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	recipes := c.App.Group("/api/v1/recipes")
	recipes.Get("", optional, c.RecipeHandler.GetRecipes)
	recipes.Get("/:id", optional, c.RecipeHandler.GetRecipeDetail)
	recipes.Post("", auth, c.RecipeHandler.CreateRecipe)
	recipes.Patch("/:id", auth, c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", auth, c.RecipeHandler.DeleteRecipe)
	recipes.Post("/:id/image", auth, c.RecipeHandler.UploadRecipeImage)
}

func (c *Config) Review() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)

	c.App.Get("/api/v1/recipes/:id/reviews", c.ReviewHandler.GetReviews)
	c.App.Post("/api/v1/recipes/:id/reviews", auth, c.ReviewHandler.SubmitReview)
	c.App.Delete("/api/v1/reviews/:id", auth, c.ReviewHandler.DeleteReview)
}

func (c *Config) Bookmark() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)

	c.App.Post("/api/v1/recipes/:id/bookmark", auth, c.BookmarkHandler.ToggleBookmark)
	c.App.Get("/api/v1/bookmarks", auth, c.BookmarkHandler.GetSavedRecipes)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
