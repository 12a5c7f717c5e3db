package main

import (
	"context"
	"os"
	"time"

	"coursehub/cmd/internal/domain/policy"
	"coursehub/cmd/internal/domain/sqlite"
	"coursehub/cmd/internal/domain/sqlite/repository"
	handler2 "coursehub/cmd/internal/http/handler"
	authmw "coursehub/cmd/internal/http/middleware"
	"coursehub/cmd/internal/infrastructure/ai"
	"coursehub/cmd/internal/infrastructure/aws/storage"
	"coursehub/cmd/internal/infrastructure/extract"
	"coursehub/cmd/internal/infrastructure/googleauth"
	"coursehub/cmd/internal/service"
	"coursehub/cmd/internal/service/cache"
	"coursehub/cmd/internal/service/jobs"
	"coursehub/cmd/internal/utils"
	"coursehub/cmd/internal/utils/uid"
	"coursehub/cmd/internal/utils/validators"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const envVarsPrefix = "/coursehub/prod/"

// Read notifications older than this are purged by the retention cron.
const notificationMaxAge = 90 * 24 * time.Hour

func main() {
	validate := validator.New()
	registerValidators(validate)

	// Loads env vars depending on environment
	if os.Getenv("GO_ENV") == "production" {
		loadProdEnv() // AWS SSM Parameter Store
	} else {
		// Loads from .env
		err := godotenv.Load()
		if err != nil {
			panic(err)
		}
	}

	uid.Init(1)
	if err := utils.InitTokenSigner(os.Getenv("JWT_SECRET")); err != nil {
		panic(err)
	}

	// Init SQLite
	db, err := sqlite.Init()
	if err != nil {
		panic(err)
	}

	// Init S3 client
	s3Client, err := storage.NewStorageClient()
	if err != nil {
		panic(err)
	}

	// Init Google ID token verifier
	googleVerifier, err := googleauth.NewVerifier(os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		panic(err)
	}

	// Init AI summarizer
	summarizer, err := ai.NewSummarizer(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_MODEL"))
	if err != nil {
		panic(err)
	}

	// Getting repos
	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Getting services
	feedCache := cache.NewFeedCache()
	contentPolicy := policy.NewContentPolicy()
	extractor := extract.NewExtractor()

	userService := service.NewUserService(userRepo, s3Client, googleVerifier, validate)
	contentService := service.NewContentService(
		contentRepo, commentRepo, s3Client, extractor, summarizer, contentPolicy, feedCache, validate)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	interactionService := service.NewInteractionService(
		contentRepo, commentRepo, notificationService, feedCache, validate)

	// Getting handlers
	authRoutes := handler2.NewAuthDefault(userService)
	contentRoutes := handler2.NewContentDefault(contentService)
	interactionRoutes := handler2.NewInteractionDefault(interactionService)
	notificationRoutes := handler2.NewNotificationDefault(notificationService)
	userRoutes := handler2.NewUserDefault(userService)

	mwConfig := &authmw.AuthMiddlewareConfig{UserRepo: userRepo}
	requireAuth := authmw.RequireAuth(mwConfig)
	optionalAuth := authmw.OptionalAuth(mwConfig)

	// Background retention cron
	cleaner := jobs.NewRetentionCleaner(notificationRepo, notificationMaxAge)
	go cleaner.Start(context.Background())

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("101M"))

	// Auth
	e.POST("/api/auth/register", authRoutes.Register)
	e.POST("/api/auth/login", authRoutes.Login)
	e.POST("/api/auth/google", authRoutes.GoogleLogin)

	// Content
	e.GET("/api/content", contentRoutes.GetFeed, optionalAuth)
	e.GET("/api/content/my-contents", contentRoutes.GetMyContents, requireAuth)
	e.GET("/api/content/:id", contentRoutes.GetContent)
	e.GET("/api/content/:id/download", contentRoutes.Download)
	e.GET("/api/content/:id/summary", contentRoutes.GetSummary)
	e.POST("/api/content", contentRoutes.Upload, requireAuth)
	e.POST("/api/content/link", contentRoutes.AddLink, requireAuth)
	e.POST("/api/content/:id/summary/generate", contentRoutes.GenerateSummary, requireAuth)
	e.POST("/api/content/:id/chat", contentRoutes.Chat, requireAuth)
	e.DELETE("/api/content/:id", contentRoutes.Delete, requireAuth)

	// Interactions
	e.POST("/api/interactions/:id/like", interactionRoutes.ToggleLike, requireAuth)
	e.POST("/api/interactions/:id/comment", interactionRoutes.AddComment, requireAuth)
	e.GET("/api/interactions/:id/comments", interactionRoutes.GetComments)

	// Notifications
	e.GET("/api/notifications", notificationRoutes.GetNotifications, requireAuth)
	e.GET("/api/notifications/count", notificationRoutes.GetUnreadCount, requireAuth)
	e.PUT("/api/notifications/:id/read", notificationRoutes.MarkRead, requireAuth)
	e.PUT("/api/notifications/read-all", notificationRoutes.MarkAllRead, requireAuth)

	// Users
	e.PUT("/api/users/password", userRoutes.ChangePassword, requireAuth)
	e.POST("/api/users/profile-picture", userRoutes.UpdateProfilePicture, requireAuth)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	if err := e.Start(":7070"); err != nil {
		panic(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("hasupper", validators.HasUpper)
	_ = validate.RegisterValidation("haslower", validators.HasLower)
	_ = validate.RegisterValidation("hasdigit", validators.HasDigit)
	_ = validate.RegisterValidation("hasspecial", validators.HasSpecial)
}

func loadProdEnv() {
	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(os.Getenv("AWS_S3_REGION")))
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	client := ssm.NewFromConfig(cfg)
	out, err := client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})
	if err != nil {
		log.Fatalf("unable to load prod environment, %v", err)
	}

	prefixLength := len(envVarsPrefix)
	// Export vars
	for _, param := range out.Parameters {
		key := (*param.Name)[prefixLength:]
		value := *param.Value
		enverr := os.Setenv(key, value)
		if enverr != nil {
			log.Fatalf("unable to set environment variable, %v", enverr)
		}
	}
	log.Debugf("loaded %d prod environment variables", len(out.Parameters))
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}
