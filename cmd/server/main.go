package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/faisalr/propdesk/internal/application/port"
	"github.com/faisalr/propdesk/internal/application/service"
	"github.com/faisalr/propdesk/internal/config"
	"github.com/faisalr/propdesk/internal/infrastructure/external/larknotify"
	"github.com/faisalr/propdesk/internal/infrastructure/external/registry"
	"github.com/faisalr/propdesk/internal/infrastructure/persistence/repository"
	"github.com/faisalr/propdesk/internal/infrastructure/scan"
	"github.com/faisalr/propdesk/internal/infrastructure/storage"
	httpapi "github.com/faisalr/propdesk/internal/interfaces/http"
	"github.com/faisalr/propdesk/pkg/database"
	"github.com/faisalr/propdesk/pkg/utils"
)

func main() {
	// Local development credentials live in .env; missing file is fine.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting PDC management service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Storage.ScanDir, 0755); err != nil {
		logger.Fatal("Failed to create scan directory", zap.Error(err))
	}

	// Persistence
	chequeRepo := repository.NewChequeRepository(db.DB, logger)
	eventRepo := repository.NewEventRepository(db.DB, logger)
	txManager := repository.NewTxManager(db.DB, logger)

	// External collaborators
	tenantDir := registry.NewTenantClient(cfg.Registry.TenantBaseURL, cfg.Registry.Timeout, logger)
	invoiceDir := registry.NewInvoiceClient(cfg.Registry.InvoiceBaseURL, cfg.Registry.Timeout, logger)

	var notifier port.BounceNotifier
	if cfg.Notify.Enabled {
		notifier = larknotify.NewNotifier(larknotify.Config{
			AppID:     cfg.Notify.AppID,
			AppSecret: cfg.Notify.AppSecret,
			ChatID:    cfg.Notify.ChatID,
		}, logger)
		logger.Info("Bounce alerting enabled", zap.String("chat_id", cfg.Notify.ChatID))
	} else {
		logger.Info("Bounce alerting disabled")
	}

	scanReader := scan.NewReader(logger)
	fileStorage := storage.NewLocalFileStorage(cfg.Storage.ScanDir, logger)

	// Application services
	svcLogger := kvLogger{logger.Sugar()}
	chequeService := service.NewChequeService(
		chequeRepo, eventRepo, txManager, tenantDir, invoiceDir, scanReader, fileStorage, svcLogger)
	lifecycleService := service.NewLifecycleService(
		chequeRepo, eventRepo, txManager, invoiceDir, notifier, svcLogger)
	bulkService := service.NewBulkService(
		chequeRepo, eventRepo, txManager, tenantDir, invoiceDir, svcLogger)
	chainService := service.NewChainService(chequeRepo, svcLogger)
	linkageService := service.NewLinkageService(chequeRepo, tenantDir, invoiceDir, svcLogger)
	dashboardService := service.NewDashboardService(chequeRepo, svcLogger)

	server := httpapi.NewServer(
		httpapi.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			JWTSecret:    cfg.Auth.JWTSecret,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		chequeService,
		lifecycleService,
		bulkService,
		chainService,
		linkageService,
		dashboardService,
		svcLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

// kvLogger adapts the zap sugared logger to the key/value Logger interfaces
// used by the service and HTTP layers
type kvLogger struct {
	s *zap.SugaredLogger
}

func (l kvLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l kvLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.s.Warnw(msg, keysAndValues...)
}

func (l kvLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}
