package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"campdir/internal/config"
	"campdir/internal/db"
	"campdir/internal/geocode"
	"campdir/internal/handlers"
	"campdir/internal/mail"
	"campdir/internal/middleware"
	"campdir/internal/models"
	"campdir/internal/services"
	"campdir/internal/storage"
)

func main() {
	// Missing .env is fine: production configures through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := newLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting campdir api")

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	log.Info().Str("db", cfg.MongoDBName).Msg("connected to mongodb")

	photos, err := newPhotoStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("photo store init failed")
	}

	geocoder := geocode.NewClient(cfg.GeocoderURL, log)
	mailer := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.FromEmail, cfg.FromName)

	authSvc := services.NewAuthService(database, cfg.JWTSecret, cfg.JWTExpire, mailer, log)
	bootcampSvc := services.NewBootcampService(database, geocoder, photos, cfg.MaxFileUpload, log)
	courseSvc := services.NewCourseService(database, log)
	reviewSvc := services.NewReviewService(database, log)
	userSvc := services.NewUserService(database)

	auth := middleware.NewAuth(cfg.JWTSecret, authSvc)
	secureCookies := cfg.Env == "production"

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(log),
		BodyLimit:    int(cfg.MaxFileUpload) + 1<<20,
	})

	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
	}))
	app.Use(fiberlogger.New())
	app.Static("/", cfg.PublicDir)

	registerRoutes(app, auth,
		handlers.NewAuthHandler(authSvc, cfg.CookieExpire, secureCookies),
		handlers.NewBootcampHandler(bootcampSvc),
		handlers.NewCourseHandler(courseSvc),
		handlers.NewReviewHandler(reviewSvc),
		handlers.NewUserHandler(userSvc),
	)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

func newLogger(env string) zerolog.Logger {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if env == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return log
}

// newPhotoStore picks object storage when an endpoint is configured, local
// disk otherwise.
func newPhotoStore(cfg *config.Config) (storage.PhotoStore, error) {
	if cfg.MinioEndpoint != "" {
		return storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	}
	return storage.NewLocalStore(cfg.FileUploadPath)
}

func registerRoutes(
	app *fiber.App,
	auth *middleware.Auth,
	authHandler *handlers.AuthHandler,
	bootcampHandler *handlers.BootcampHandler,
	courseHandler *handlers.CourseHandler,
	reviewHandler *handlers.ReviewHandler,
	userHandler *handlers.UserHandler,
) {
	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", auth.Protect, authHandler.Me)
	authGroup.Put("/updateUser", auth.Protect, authHandler.UpdateDetails)
	authGroup.Put("/updatePassword", auth.Protect, authHandler.UpdatePassword)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Put("/resetpassword/:token", authHandler.ResetPassword)

	publisherOrAdmin := auth.Authorize(models.RolePublisher, models.RoleAdmin)
	userOrAdmin := auth.Authorize(models.RoleUser, models.RoleAdmin)

	bootcamps := api.Group("/bootcamps")
	bootcamps.Get("/radius/:zipcode/:distance", bootcampHandler.WithinRadius)
	bootcamps.Get("/", bootcampHandler.List)
	bootcamps.Post("/", auth.Protect, publisherOrAdmin, bootcampHandler.Create)
	bootcamps.Get("/:id", bootcampHandler.Get)
	bootcamps.Put("/:id", auth.Protect, publisherOrAdmin, bootcampHandler.Update)
	bootcamps.Delete("/:id", auth.Protect, publisherOrAdmin, bootcampHandler.Delete)
	bootcamps.Put("/:id/photo", auth.Protect, publisherOrAdmin, bootcampHandler.UploadPhoto)

	bootcamps.Get("/:bootcampId/courses", courseHandler.List)
	bootcamps.Post("/:bootcampId/courses", auth.Protect, publisherOrAdmin, courseHandler.Create)
	bootcamps.Get("/:bootcampId/reviews", reviewHandler.List)
	bootcamps.Post("/:bootcampId/reviews", auth.Protect, userOrAdmin, reviewHandler.Create)

	courses := api.Group("/courses")
	courses.Get("/", courseHandler.List)
	courses.Get("/:id", courseHandler.Get)
	courses.Put("/:id", auth.Protect, publisherOrAdmin, courseHandler.Update)
	courses.Delete("/:id", auth.Protect, publisherOrAdmin, courseHandler.Delete)

	reviews := api.Group("/reviews")
	reviews.Get("/", reviewHandler.List)
	reviews.Get("/:id", reviewHandler.Get)
	reviews.Put("/:id", auth.Protect, userOrAdmin, reviewHandler.Update)
	reviews.Delete("/:id", auth.Protect, userOrAdmin, reviewHandler.Delete)

	users := api.Group("/users", auth.Protect, auth.Authorize(models.RoleAdmin))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}
