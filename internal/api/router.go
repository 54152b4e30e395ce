package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/imezy/imezy-api/internal/api/handler"
	"github.com/imezy/imezy-api/internal/api/middleware"
	"github.com/imezy/imezy-api/internal/core/ports"
	"github.com/imezy/imezy-api/internal/core/service"
	mongodb "github.com/imezy/imezy-api/internal/infrastructure/db/mongo"
	redisdb "github.com/imezy/imezy-api/internal/infrastructure/db/redis"
	"github.com/imezy/imezy-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, engine ports.GenerationEngine, artifacts ports.ArtifactStore, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("imezy"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	creditRepo := mongodb.NewCreditRepository(db)
	generationRepo := mongodb.NewGenerationRepository(db)
	refreshRepo := redisdb.NewRefreshTokenRepository(rdb, cfg.Auth.RefreshTTL())

	tokenService := service.NewTokenService(
		cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTTL(), cfg.Auth.RefreshTTL(),
	)
	authService := service.NewAuthService(userRepo, tokenService, refreshRepo, log)
	userService := service.NewUserService(userRepo, creditRepo, cfg.Credits.Default, cfg.Credits.IncrementStep, log)
	creditService := service.NewCreditService(creditRepo, log)
	generationService := service.NewGenerationService(engine, creditRepo, generationRepo, artifacts, cfg.Credits.PerImage, log)

	userHandler := handler.NewUserHandler(userService, authService)
	creditHandler := handler.NewCreditHandler(creditService, userService)
	generationHandler := handler.NewGenerationHandler(generationService)

	authRequired := middleware.Auth(tokenService)
	adminOnly := middleware.AdminOnly(userRepo)

	// --- User routes ---
	e.POST("/user/create", userHandler.Create)
	e.POST("/user/login", userHandler.Login)
	e.POST("/user/reissue", userHandler.Reissue)
	e.POST("/user/logout", userHandler.Logout, authRequired)
	e.GET("/user/read_user_info", userHandler.Me, authRequired)
	e.GET("/user/read/:user_id", userHandler.ReadByID, authRequired)
	e.GET("/user/read_all", userHandler.ReadAll, authRequired, adminOnly)
	e.PUT("/user/update_password", userHandler.UpdatePassword, authRequired)
	e.PUT("/user/update_email", userHandler.UpdateEmail, authRequired)
	e.PUT("/user/update_username", userHandler.UpdateUsername, authRequired)
	e.DELETE("/user/delete/:user_id", userHandler.DeleteByID, authRequired, adminOnly)
	e.PUT("/user/make_admin/:user_id", userHandler.MakeAdmin, authRequired, adminOnly)

	// --- Credit routes ---
	e.GET("/credits/read", creditHandler.Read, authRequired)
	e.GET("/credits/read/all", creditHandler.ReadAll, authRequired, adminOnly)
	e.PUT("/credits/update", creditHandler.Update, authRequired)
	e.POST("/credits/refill", creditHandler.Refill, authRequired, adminOnly)

	// --- Metered generation routes ---
	e.POST("/sdapi/v1/txt2img-auth", generationHandler.Txt2Img, authRequired)
	e.POST("/sdapi/v1/img2img-auth", generationHandler.Img2Img, authRequired)
	e.POST("/sdapi/v1/extra-single-image-auth", generationHandler.Upscale, authRequired)
	e.GET("/image/search", generationHandler.Search, authRequired)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
