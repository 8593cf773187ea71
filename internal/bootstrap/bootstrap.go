package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/aslmarket/backend/internal/app/controllers"
	appMigrations "github.com/aslmarket/backend/internal/app/migrations"
	appRepos "github.com/aslmarket/backend/internal/app/repositories"
	appRoutes "github.com/aslmarket/backend/internal/app/routes"
	appServices "github.com/aslmarket/backend/internal/app/services"
	"github.com/aslmarket/backend/internal/config"
	"github.com/aslmarket/backend/internal/db"
	appMiddleware "github.com/aslmarket/backend/internal/middleware"
	pkgAuth "github.com/aslmarket/backend/internal/pkg/auth"
	"github.com/aslmarket/backend/internal/pkg/email"
	"github.com/aslmarket/backend/internal/pkg/filestorage"
	"github.com/aslmarket/backend/internal/pkg/helpers"
	"github.com/aslmarket/backend/internal/pkg/logger"
	"github.com/aslmarket/backend/internal/pkg/validation"
	"github.com/aslmarket/backend/internal/pkg/websocket"
	"github.com/aslmarket/backend/internal/seed"
)

const defaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	JWTService  *pkgAuth.JWTService
	FileStorage *filestorage.LocalStorage
	Email       email.EmailService

	// one hub per socket kind so room ids never collide
	ChatHub         *websocket.Hub
	NotificationHub *websocket.Hub
	SearchHub       *websocket.Hub
	ChatMessages    *websocket.MessageHandler

	AuthService         appServices.AuthService
	UserService         appServices.UserService
	SupplierService     appServices.SupplierService
	VisitorService      appServices.VisitorService
	MatchingService     appServices.MatchingService
	ChatService         appServices.ChatService
	NotificationService appServices.NotificationService
	ResearchService     appServices.ResearchProductService
	EducationService    appServices.EducationService
	ProductService      appServices.ProductService
	PopupService        appServices.PopupService
	ExportService       appServices.ExportService
	ReportService       appServices.ReportService
	SearchService       appServices.SearchService
	SupportService      appServices.SupportService
	LicenseService      appServices.LicenseService

	Controllers    *appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware

	ExpiryCheckInterval time.Duration
	Logger              zerolog.Logger
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
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds the admin.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := config.GetEnv("MIGRATIONS_PATH", "migrations")
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := appMigrations.NewMigrator(dbPool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.AdminAccount{Email: cfg.Admin.Email, Password: cfg.Admin.Password}
	if err := seed.CreateDefaultData(ctx, dbPool, admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger:              lgr,
		ExpiryCheckInterval: helpers.ParseDuration(cfg.Matching.ExpiryCheckInterval, time.Hour),
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.RegisterCustomValidators(v); err != nil {
			return nil, fmt.Errorf("failed to register validators: %w", err)
		}
	}

	deps.Repos = appRepos.NewRepositories(dbPool)
	repos := deps.Repos

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL()+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Email = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.PublicBaseURL(),
	}, logger.WithComponent("email"))

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	wsLogger := logger.WithComponent("websocket")
	deps.ChatHub = websocket.NewHub(wsLogger)
	deps.NotificationHub = websocket.NewHub(wsLogger)
	deps.SearchHub = websocket.NewHub(wsLogger)
	origins := cfg.AllowedOriginList()

	// services
	deps.NotificationService = appServices.NewNotificationService(
		repos.NotificationRepository,
		repos.UserRepository,
		deps.NotificationHub,
		deps.Email,
		logger.WithComponent("notifications"),
	)
	deps.AuthService = appServices.NewAuthService(
		repos.UserRepository,
		repos.TokenRepository,
		repos.SupplierRepository,
		repos.VisitorRepository,
		repos.MatchingResponseRepository,
		deps.JWTService,
		deps.Email,
		logger.WithComponent("auth"),
	)
	deps.UserService = appServices.NewUserService(repos.UserRepository, repos.TokenRepository, logger.WithComponent("users"))
	deps.SupplierService = appServices.NewSupplierService(
		repos.SupplierRepository,
		deps.FileStorage,
		deps.NotificationService,
		logger.WithComponent("suppliers"),
	)
	deps.VisitorService = appServices.NewVisitorService(repos.VisitorRepository, deps.NotificationService, logger.WithComponent("visitors"))
	deps.MatchingService = appServices.NewMatchingService(
		repos.MatchingRepository,
		repos.MatchingResponseRepository,
		repos.ChatRepository,
		repos.SupplierRepository,
		repos.VisitorRepository,
		deps.NotificationService,
		cfg.Matching.MaxResults,
		logger.WithComponent("matching"),
	)
	deps.ChatService = appServices.NewChatService(repos.ChatRepository, deps.ChatHub, logger.WithComponent("chat"))
	deps.ChatMessages = websocket.NewMessageHandler(deps.ChatService, deps.ChatHub, wsLogger)
	deps.ResearchService = appServices.NewResearchProductService(repos.ResearchProductRepository, logger.WithComponent("research"))
	deps.EducationService = appServices.NewEducationService(repos.EducationRepository, deps.FileStorage, logger.WithComponent("education"))
	deps.ProductService = appServices.NewProductService(repos.ProductRepository, logger.WithComponent("products"))
	deps.PopupService = appServices.NewPopupService(repos.PopupRepository, logger.WithComponent("popups"))
	deps.SupportService = appServices.NewSupportService(repos.SupportTicketRepository, deps.NotificationService, logger.WithComponent("support"))
	deps.LicenseService = appServices.NewLicenseService(repos.LicenseRepository, deps.NotificationService, logger.WithComponent("licenses"))

	sources := appServices.ExportSources{
		Users:            repos.UserRepository,
		Suppliers:        repos.SupplierRepository,
		Visitors:         repos.VisitorRepository,
		Matching:         repos.MatchingRepository,
		ResearchProducts: repos.ResearchProductRepository,
		Education:        repos.EducationRepository,
		Products:         repos.ProductRepository,
		Notifications:    repos.NotificationRepository,
		Popups:           repos.PopupRepository,
		SupportTickets:   repos.SupportTicketRepository,
	}
	deps.ExportService = appServices.NewExportService(sources, logger.WithComponent("export"))
	deps.ReportService = appServices.NewReportService(sources, logger.WithComponent("reports"))
	deps.SearchService = appServices.NewSearchService(
		repos.SearchRepository,
		cfg.Search.PerCategoryLimit,
		helpers.ParseDuration(cfg.Search.Debounce, 300*time.Millisecond),
		logger.WithComponent("search"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, repos.UserRepository)

	// controllers
	deps.Controllers = &appRoutes.Controllers{
		Auth:            appControllers.NewAuthController(deps.AuthService, lgr),
		User:            appControllers.NewUserController(deps.UserService, lgr),
		Supplier:        appControllers.NewSupplierController(deps.SupplierService, lgr),
		Visitor:         appControllers.NewVisitorController(deps.VisitorService, lgr),
		Matching:        appControllers.NewMatchingController(deps.MatchingService, lgr),
		Chat:            appControllers.NewChatController(deps.ChatService, websocket.NewHandler(deps.ChatHub, origins, wsLogger), lgr),
		ResearchProduct: appControllers.NewResearchProductController(deps.ResearchService, lgr),
		Education:       appControllers.NewEducationController(deps.EducationService, lgr),
		Product:         appControllers.NewProductController(deps.ProductService, lgr),
		Notification:    appControllers.NewNotificationController(deps.NotificationService, websocket.NewHandler(deps.NotificationHub, origins, wsLogger), lgr),
		Popup:           appControllers.NewPopupController(deps.PopupService, lgr),
		Export:          appControllers.NewExportController(deps.ExportService, lgr),
		Report:          appControllers.NewReportController(deps.ReportService, lgr),
		Search:          appControllers.NewSearchController(deps.SearchService, websocket.NewHandler(deps.SearchHub, origins, wsLogger), lgr),
		Support:         appControllers.NewSupportController(deps.SupportService, lgr),
		License:         appControllers.NewLicenseController(deps.LicenseService, lgr),
	}

	return deps, nil
}

// StartBackground runs the socket hubs, the chat persister and the expiry job until ctx ends.
func (d *Dependencies) StartBackground(ctx context.Context) {
	go d.ChatHub.Run(ctx)
	go d.NotificationHub.Run(ctx)
	go d.SearchHub.Run(ctx)
	d.ChatMessages.Start(ctx)
	go d.MatchingService.RunExpiryJob(ctx, d.ExpiryCheckInterval)

	d.Logger.Info().Dur("expiryCheckInterval", d.ExpiryCheckInterval).Msg("Background workers started")
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
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(logger.WithComponent("http")),
		appMiddleware.CORS(cfg.AllowedOriginList()),
	)
	router.MaxMultipartMemory = 16 << 20

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
