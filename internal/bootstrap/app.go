package bootstrap

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/locvowork/employee_directory/internal/config"
	"github.com/locvowork/employee_directory/internal/handler"
	"github.com/locvowork/employee_directory/internal/logger"
	"github.com/locvowork/employee_directory/internal/repository"
	"github.com/locvowork/employee_directory/internal/service"
	"github.com/locvowork/employee_directory/internal/store"
)

type App struct {
	Echo  *echo.Echo
	Store store.Store
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	// Initialize logging
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH, config.DefaultEnvConfig.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	// Initialize the record store backend
	s, err := NewStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize record store: %w", err)
	}
	a.Store = s
	logger.InfoLog(ctx, "Record store backend %q ready", config.DefaultEnvConfig.STORE_BACKEND)

	// Initialize dependencies
	empRepo := repository.NewEmployeeRepository(s)
	contactRepo := repository.NewContactRepository(s)
	dirSvc := service.NewDirectoryService(empRepo, contactRepo, config.DefaultEnvConfig.LIST_JOIN_WORKERS)
	empHandler := handler.NewEmployeeHandler(dirSvc)

	exportCfg, err := handler.LoadExportConfig(config.DefaultEnvConfig.EXPORT_CONFIG_PATH)
	if err != nil {
		return fmt.Errorf("failed to load export config: %w", err)
	}
	exportHandler := handler.NewExportHandler(dirSvc, exportCfg)

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(empHandler, exportHandler)

	return nil
}

// NewStore picks the record store backend from configuration. The
// repositories only ever see the store.Store interface.
func NewStore(ctx context.Context) (store.Store, error) {
	cfg := config.DefaultEnvConfig

	switch cfg.STORE_BACKEND {
	case "memory":
		return store.NewMemoryStore(), nil
	case "elastic":
		return store.NewElasticStore(cfg.ELASTIC_URL)
	case "datastore":
		return store.NewDatastoreStore(ctx, cfg.DATASTORE_PROJECT_ID)
	case "postgres":
		return store.NewPostgresStore(ctx, store.PostgresConfig{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.STORE_BACKEND)
	}
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(empHandler *handler.EmployeeHandler, exportHandler *handler.ExportHandler) {
	a.Echo.POST("/employees", empHandler.CreateHandler)
	a.Echo.GET("/employees", empHandler.ListHandler)
	a.Echo.GET("/employees/:id", empHandler.GetHandler)
	a.Echo.PUT("/employees/:id", empHandler.UpdateHandler)
	a.Echo.DELETE("/employees/:id", empHandler.DeleteHandler)

	exportGroup := a.Echo.Group("/export")
	exportGroup.GET("/employees", exportHandler.ExportEmployeesHandler)
}

func (a *App) Run() error {
	defer a.Store.Close()
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
