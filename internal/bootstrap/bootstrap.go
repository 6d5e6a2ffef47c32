package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/schoolhub/internal/app/controllers"
	appMigrations "github.com/yigit/schoolhub/internal/app/migrations"
	appRepos "github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/app/repositories/memory"
	appRoutes "github.com/yigit/schoolhub/internal/app/routes"
	appServices "github.com/yigit/schoolhub/internal/app/services"
	"github.com/yigit/schoolhub/internal/config"
	"github.com/yigit/schoolhub/internal/db"
	appMiddleware "github.com/yigit/schoolhub/internal/middleware"
	"github.com/yigit/schoolhub/internal/pkg/auth"
	"github.com/yigit/schoolhub/internal/pkg/logger"
	"github.com/yigit/schoolhub/internal/pkg/websocket"
	"github.com/yigit/schoolhub/internal/seed"
)

const defaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store  appRepos.Store
	Hasher *auth.PasswordHasher
	Hub    *websocket.Hub

	ClassService        appServices.ClassService
	PromotionService    appServices.PromotionService
	ResultService       appServices.ResultService
	CourseService       appServices.CourseService
	SubjectService      appServices.SubjectService
	StudentService      appServices.StudentService
	TeacherService      appServices.TeacherService
	UserService         appServices.UserService
	TimetableService    appServices.TimetableService
	AnnouncementService appServices.AnnouncementService

	Controllers appRoutes.Controllers
	Logger      zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// CONFIG_PATH overrides the default configs/config.yaml.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", defaultConfigPath)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := logger.Logger()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the configured storage backend. For postgres it connects,
// applies pending migrations and returns a closer for the pool; the memory
// driver needs no cleanup.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appRepos.Store, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory store; data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Str("dir", cfg.Database.MigrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return appRepos.NewPostgresStore(database), database.Close, nil
}

// SeedDefaults creates the default catalog and admin account when enabled.
// Failures are logged and do not stop startup.
func SeedDefaults(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	if !cfg.Database.Seed {
		return
	}
	admin := seed.Admin{Email: cfg.Security.AdminEmail, Password: cfg.Security.AdminPassword}
	if err := seed.CreateDefaultData(ctx, deps.Store, deps.Hasher, admin, deps.Logger); err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// BuildDependencies initializes services and controllers over store
func BuildDependencies(cfg *config.Config, store appRepos.Store, lgr zerolog.Logger) *Dependencies {
	settings := appServices.SettingsFromConfig(cfg)

	deps := &Dependencies{
		Store:  store,
		Hasher: auth.NewPasswordHasher(cfg.Security.BcryptCost),
		Hub:    websocket.NewHub(lgr.With().Str("component", "announcement_hub").Logger()),
		Logger: lgr,
	}

	deps.ClassService = appServices.NewClassService(store, settings)
	deps.PromotionService = appServices.NewPromotionService(store, settings)
	deps.ResultService = appServices.NewResultService(store, settings)
	deps.CourseService = appServices.NewCourseService(store)
	deps.SubjectService = appServices.NewSubjectService(store)
	deps.StudentService = appServices.NewStudentService(store, deps.Hasher)
	deps.TeacherService = appServices.NewTeacherService(store, deps.Hasher)
	deps.UserService = appServices.NewUserService(store, deps.Hasher)
	deps.TimetableService = appServices.NewTimetableService(store)
	deps.AnnouncementService = appServices.NewAnnouncementService(store, deps.Hub)

	deps.Controllers = appRoutes.Controllers{
		Catalog:      appControllers.NewCatalogController(deps.CourseService, deps.SubjectService),
		Class:        appControllers.NewClassController(deps.ClassService, deps.PromotionService),
		Student:      appControllers.NewStudentController(deps.StudentService),
		Teacher:      appControllers.NewTeacherController(deps.TeacherService, deps.TimetableService),
		User:         appControllers.NewUserController(deps.UserService),
		Result:       appControllers.NewResultController(deps.ResultService),
		Timetable:    appControllers.NewTimetableController(deps.TimetableService),
		Announcement: appControllers.NewAnnouncementController(deps.AnnouncementService),
		Live:         websocket.NewHandler(deps.Hub, lgr),
	}

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(),
	)

	appRoutes.SetupRouter(router, deps.Controllers)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "driver": cfg.Database.Driver})
	})

	return router
}
