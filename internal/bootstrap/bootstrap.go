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
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/deniz/fleettrack/internal/app/auth"
	appControllers "github.com/deniz/fleettrack/internal/app/controllers"
	appMigrations "github.com/deniz/fleettrack/internal/app/migrations"
	appRepos "github.com/deniz/fleettrack/internal/app/repositories"
	appRoutes "github.com/deniz/fleettrack/internal/app/routes"
	appServices "github.com/deniz/fleettrack/internal/app/services"
	"github.com/deniz/fleettrack/internal/config"
	"github.com/deniz/fleettrack/internal/db"
	appMiddleware "github.com/deniz/fleettrack/internal/middleware"
	pkgAuth "github.com/deniz/fleettrack/internal/pkg/auth"
	"github.com/deniz/fleettrack/internal/pkg/helpers"
	"github.com/deniz/fleettrack/internal/pkg/logger"
	"github.com/deniz/fleettrack/internal/pkg/websocket"
	"github.com/deniz/fleettrack/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	AuthzService         *appAuth.AuthorizationService
	Hub                  *websocket.Hub
	AuthService          *appServices.AuthService
	UserService          *appServices.UserService
	SchoolService        *appServices.SchoolService
	StudentService       *appServices.StudentService
	BusService           *appServices.BusService
	Resolver             *appServices.RelationshipResolver
	TrackingService      *appServices.TrackingService
	AuthController       *appControllers.AuthController
	SchoolController     *appControllers.SchoolController
	UserController       *appControllers.UserController
	StudentController    *appControllers.StudentController
	BusController        *appControllers.BusController
	AttendanceController *appControllers.AttendanceController
	DriverController     *appControllers.DriverController
	ParentController     *appControllers.ParentController
	WSHandler            *websocket.Handler
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

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
// seeds the default admin account.
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
	lgr.Info().Msg("Database connection successfully established.")

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

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.Relation, deps.Repos.Bus)

	deps.Hub = websocket.NewHub(
		helpers.ParseDuration(cfg.Hub.SendTimeout, time.Second),
		cfg.Hub.SendBufferSize,
		lgr,
	)

	deps.AuthService = appServices.NewAuthService(deps.Repos.User, deps.JWTService)
	deps.UserService = appServices.NewUserService(deps.Repos.User)
	deps.SchoolService = appServices.NewSchoolService(deps.Repos.School, deps.Repos.User)
	deps.StudentService = appServices.NewStudentService(deps.Repos.Student, deps.Repos.School, deps.Repos.User, deps.Repos.Bus, deps.Repos.Relation)
	deps.BusService = appServices.NewBusService(deps.Repos.Bus, deps.Repos.School, deps.Repos.User, deps.Repos.Location)
	deps.Resolver = appServices.NewRelationshipResolver(deps.Repos.Bus, deps.Repos.Relation, deps.Repos.Location, deps.Repos.Attendance)
	deps.TrackingService = appServices.NewTrackingService(
		deps.Resolver,
		deps.Repos.Relation,
		deps.Repos.Student,
		deps.Repos.Attendance,
		deps.Repos.Location,
		deps.Repos.Notification,
		deps.Hub,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.SchoolController = appControllers.NewSchoolController(deps.SchoolService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.BusController = appControllers.NewBusController(deps.BusService)
	deps.AttendanceController = appControllers.NewAttendanceController(deps.TrackingService)
	deps.DriverController = appControllers.NewDriverController(deps.Resolver, deps.TrackingService)
	deps.ParentController = appControllers.NewParentController(deps.Resolver, deps.AuthzService, deps.Repos.Notification)
	deps.WSHandler = websocket.NewHandler(deps.Hub, deps.AuthzService, lgr)

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

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.SchoolController,
		deps.UserController,
		deps.StudentController,
		deps.BusController,
		deps.AttendanceController,
		deps.DriverController,
		deps.ParentController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
