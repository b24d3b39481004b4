package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cigarcraft/cigar-commerce/internal"
	"github.com/cigarcraft/cigar-commerce/internal/catalog"
	catalogPostgres "github.com/cigarcraft/cigar-commerce/internal/catalog/postgres"
	"github.com/cigarcraft/cigar-commerce/internal/checkout"
	"github.com/cigarcraft/cigar-commerce/internal/core/events"
	"github.com/cigarcraft/cigar-commerce/internal/order"
	orderPostgres "github.com/cigarcraft/cigar-commerce/internal/order/postgres"
	"github.com/cigarcraft/cigar-commerce/internal/payment"
	paymentPostgres "github.com/cigarcraft/cigar-commerce/internal/payment/postgres"
	"github.com/cigarcraft/cigar-commerce/internal/paymentgateway"
	"github.com/cigarcraft/cigar-commerce/internal/pricing"
	"github.com/cigarcraft/cigar-commerce/internal/transport"
	"github.com/cigarcraft/cigar-commerce/internal/transport/rest"
	"github.com/cigarcraft/cigar-commerce/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config        *internal.Config
	DB            *sqlx.DB
	Router        *chi.Mux
	GatewayClient *paymentgateway.Client
	Logger        *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		deps.GatewayClient.Shutdown()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)

	catalogService := catalog.NewService(catalogPostgres.NewCatalogRepository(gormDB), appLogger)
	pricingEngine := pricing.NewEngine(catalogService, appLogger)

	orderService := order.NewService(orderPostgres.NewOrderRepository(gormDB), pricingEngine, appLogger)
	order.NewEventHandler(orderService, appLogger).RegisterHandlers(eventBus)

	paymentService := payment.NewService(paymentPostgres.NewPaymentRepository(gormDB), appLogger)

	gatewayClient := paymentgateway.NewClient(paymentgateway.Config{
		APIURL:         config.Gateway.APIURL,
		MerchantName:   config.Gateway.MerchantName,
		TransactionKey: config.Gateway.TransactionKey,
		RequestTimeout: config.Gateway.GetRequestTimeout(),
		MaxWorkers:     config.Gateway.MaxWorkers,
		JobQueueSize:   config.Gateway.JobQueueSize,
		WorkerPoolSize: config.Gateway.WorkerPoolSize,
	}, appLogger)

	checkoutService := checkout.NewService(orderService, pricingEngine, gatewayClient, paymentService, checkout.Config{
		HostedPageURL: config.Gateway.HostedPageURL,
		ReturnURL:     config.Gateway.ReturnURL,
		CancelURL:     config.Gateway.CancelURL,
	}, appLogger)

	catalogHandler := catalog.NewHandler(catalogService, appLogger)
	pricingHandler := pricing.NewHandler(pricingEngine, appLogger)
	orderHandler := order.NewHandler(orderService, appLogger)
	checkoutHandler := checkout.NewHandler(checkoutService, appLogger)
	paymentHandler := payment.NewHandler(paymentService, eventBus, appLogger)
	webhookHandler := payment.NewWebhookHandler(transport.NewBaseHandler(appLogger), paymentService, eventBus, appLogger)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, catalogHandler, pricingHandler, orderHandler, checkoutHandler, paymentHandler, webhookHandler, appLogger)

	return &Dependencies{
		Config:        config,
		Logger:        appLogger,
		DB:            db,
		Router:        router,
		GatewayClient: gatewayClient,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
