// Package bootstrap wires configuration, storage, services and the HTTP
// router together at startup.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/serhiib/registry/internal/app/auth"
	appControllers "github.com/serhiib/registry/internal/app/controllers"
	appMigrations "github.com/serhiib/registry/internal/app/migrations"
	appRepos "github.com/serhiib/registry/internal/app/repositories"
	"github.com/serhiib/registry/internal/app/repositories/memory"
	appRoutes "github.com/serhiib/registry/internal/app/routes"
	appServices "github.com/serhiib/registry/internal/app/services"
	"github.com/serhiib/registry/internal/config"
	"github.com/serhiib/registry/internal/db"
	appMiddleware "github.com/serhiib/registry/internal/middleware"
	pkgAuth "github.com/serhiib/registry/internal/pkg/auth"
	"github.com/serhiib/registry/internal/pkg/filestorage"
	"github.com/serhiib/registry/internal/pkg/helpers"
	"github.com/serhiib/registry/internal/pkg/logger"
	"github.com/serhiib/registry/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	DirectoryService  *appServices.DirectoryService
	ProjectService    *appServices.ProjectService
	CourseService     *appServices.CourseService
	AuthController    *appControllers.AuthController
	UserController    *appControllers.UserController
	ProjectController *appControllers.ProjectController
	CourseController  *appControllers.CourseController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	GateKeeper        *appAuth.GateKeeper
	FileStorage       *filestorage.LocalStorage
	Logger            zerolog.Logger
	DBPool            *pgxpool.Pool
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

// SetupStorage builds the repository set for the configured driver. For the
// postgres driver it establishes the pool, runs migrations and returns the
// pool so the caller can close it on shutdown; for the memory driver the
// pool is nil.
func SetupStorage(cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, *pgxpool.Pool, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "memory":
		lgr.Info().Msg("Using in-memory storage")
		return memory.NewRepositories(cfg.Registry.CourseCapacity), nil, nil

	case "postgres":
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		dbPool := database.Pool

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		lgr.Info().Msg("Running database migrations...")
		migrator := appMigrations.NewMigrator(dbPool)

		migrationsDir := "migrations"
		if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
			dbPool.Close()
			return nil, nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
		}

		if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			dbPool.Close()
			return nil, nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied")

		return appRepos.NewPostgresRepositories(dbPool, cfg.Registry.CourseCapacity), dbPool, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// BuildDependencies initializes application repositories, services and controllers.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Repos:  repos,
		Logger: lgr,
		DBPool: dbPool,
	}

	// File storage for course materials; refs must match the static file
	// serving URL path
	baseURL := "http://localhost:" + cfg.Server.Port
	fileStorageBaseURL := baseURL + "/uploads"
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.DirectoryService = appServices.NewDirectoryService(repos.Identities, deps.JWTService, lgr)
	deps.ProjectService = appServices.NewProjectService(repos.Projects, lgr)
	deps.CourseService = appServices.NewCourseService(repos.Courses, deps.FileStorage, lgr)

	deps.GateKeeper = appAuth.NewGateKeeper(deps.DirectoryService, repos.Projects, repos.Courses)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.DirectoryService, lgr)
	deps.UserController = appControllers.NewUserController(deps.DirectoryService, deps.GateKeeper, lgr)
	deps.ProjectController = appControllers.NewProjectController(deps.ProjectService, deps.GateKeeper, lgr)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService, deps.GateKeeper, lgr)

	// Seed after all repositories are ready
	if err := seed.CreateDefaultData(context.Background(), repos, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

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

	router := gin.Default()

	// Serve stored course materials
	router.Static("/uploads", cfg.Server.StoragePath)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.ProjectController,
		deps.CourseController,
		deps.AuthMiddleware,
	)

	return router
}
