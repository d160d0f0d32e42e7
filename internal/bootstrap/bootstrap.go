package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/deniz/looking4/internal/app/controllers"
	appMigrations "github.com/deniz/looking4/internal/app/migrations"
	appRepos "github.com/deniz/looking4/internal/app/repositories"
	appRoutes "github.com/deniz/looking4/internal/app/routes"
	appServices "github.com/deniz/looking4/internal/app/services"
	"github.com/deniz/looking4/internal/config"
	"github.com/deniz/looking4/internal/db"
	appMiddleware "github.com/deniz/looking4/internal/middleware"
	pkgAuth "github.com/deniz/looking4/internal/pkg/auth"
	"github.com/deniz/looking4/internal/pkg/helpers"
	"github.com/deniz/looking4/internal/pkg/logger"
	"github.com/deniz/looking4/internal/pkg/websocket"
	"github.com/deniz/looking4/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	Hub                    *websocket.Hub
	WsHandler              *websocket.Handler
	AuthService            *appServices.AuthService
	PostService            *appServices.PostService
	ChatService            *appServices.ChatService
	NotificationService    *appServices.NotificationService
	AuthController         *appControllers.AuthController
	PostController         *appControllers.PostController
	ChatController         *appControllers.ChatController
	NotificationController *appControllers.NotificationController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	RateLimiter            *appMiddleware.RateLimiter
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and the
// websocket hub. The hub's Run loop is started here.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Hub = websocket.NewHub(lgr)
	go deps.Hub.Run()
	deps.WsHandler = websocket.NewHandler(deps.Hub, deps.JWTService, lgr)

	txManager := db.NewTxManager(dbPool)

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr)
	deps.NotificationService = appServices.NewNotificationService(deps.Repos.NotificationRepository, deps.Hub, lgr)
	deps.PostService = appServices.NewPostService(
		deps.Repos.PostRepository,
		deps.Repos.CategoryRepository,
		deps.Repos.UserRepository,
		deps.Repos.ChatRoomRepository,
		deps.Repos.ParticipantRepository,
		deps.NotificationService,
		deps.Hub,
		txManager,
		lgr,
	)
	deps.ChatService = appServices.NewChatService(
		deps.Repos.ChatRoomRepository,
		deps.Repos.ParticipantRepository,
		deps.Repos.MessageRepository,
		deps.Repos.UserRepository,
		deps.Hub,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.RateLimiter = appMiddleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.PostController = appControllers.NewPostController(deps.PostService)
	deps.ChatController = appControllers.NewChatController(deps.ChatService)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(deps.RateLimiter.Middleware())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.PostController,
		deps.ChatController,
		deps.NotificationController,
		deps.WsHandler,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
