package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"recipe-share/internal/api/handlers"
	"recipe-share/internal/api/routes"
	"recipe-share/internal/middleware"
	"recipe-share/internal/utils"
	"recipe-share/internal/utils/mailing"
	"recipe-share/internal/utils/storage"
	"recipe-share/pkg/authz"
	"recipe-share/pkg/bookmark"
	"recipe-share/pkg/jwt"
	"recipe-share/pkg/recipe"
	"recipe-share/pkg/review"
	"recipe-share/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

// Dependencies are the outside resources the app is assembled from.
type Dependencies struct {
	UserRepository   user.UserRepository
	RecipeRepository recipe.RecipeRepository
	ReviewRepository review.ReviewRepository
	// Storage may be nil, in which case image uploads fail.
	Storage    storage.AwsS3
	Mailer     mailing.Mailer
	JWTService jwt.JWTService

	LogOutput io.Writer
	// RateLimitMax is the number of requests per second per client. Zero
	// disables the limiter.
	RateLimitMax int
}

func NewApp(db *gorm.DB) (*fiber.App, error) {
	secret := utils.GetConfig("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not configured")
	}

	// setting up logging
	logFile, err := openLogFile(utils.GetConfig("LOG_FILE"))
	if err != nil {
		return nil, err
	}

	// utils
	var s3 storage.AwsS3
	if utils.GetConfig("AWS_S3_BUCKET") != "" {
		s3, err = storage.NewAwsS3()
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn("AWS_S3_BUCKET is not set, recipe image uploads are disabled")
	}

	return Build(Dependencies{
		UserRepository:   user.NewUserRepository(db),
		RecipeRepository: recipe.NewRecipeRepository(db),
		ReviewRepository: review.NewReviewRepository(db),
		Storage:          s3,
		Mailer:           mailing.NewMailer(mailing.LoadMailConfig()),
		JWTService: jwt.NewJWTService(
			secret,
			time.Duration(utils.GetConfigInt("JWT_TTL_MINUTES", 120))*time.Minute,
		),
		LogOutput:    logFile,
		RateLimitMax: utils.GetConfigInt("RATE_LIMIT_MAX", 10),
	}), nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
}

// Build wires services, handlers and routes on top of deps.
func Build(deps Dependencies) *fiber.App {
	utils.InitValidator()
	app := fiber.New()
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	if deps.LogOutput != nil {
		app.Use(logger.New(logger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			Output:     deps.LogOutput,
		}))
	}
	if deps.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        deps.RateLimitMax,
			Expiration: 1 * time.Second,
		}))
	}

	// Service
	userService := user.NewUserService(deps.UserRepository, deps.JWTService, deps.Mailer)
	recipeService := recipe.NewRecipeService(deps.RecipeRepository, deps.Storage)
	reviewService := review.NewReviewService(deps.ReviewRepository, deps.RecipeRepository)
	bookmarkService := bookmark.NewBookmarkService(deps.UserRepository, recipeService)
	mediator := authz.NewMediator(userService, recipeService, reviewService, bookmarkService)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	recipeHandler := handlers.NewRecipeHandler(mediator, validator)
	reviewHandler := handlers.NewReviewHandler(mediator, validator)
	bookmarkHandler := handlers.NewBookmarkHandler(mediator)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		RecipeHandler:   recipeHandler,
		ReviewHandler:   reviewHandler,
		BookmarkHandler: bookmarkHandler,
		Middleware:      middlewares,
		JWTService:      deps.JWTService,
	}
	routesConfig.Setup()
	return app
}
