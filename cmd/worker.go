package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cigarcraft/cigar-commerce/internal/core/events"
	"github.com/cigarcraft/cigar-commerce/internal/paymentgateway"
	"github.com/cigarcraft/cigar-commerce/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools for various services",
	Long:  `Start and manage worker pools for gateway session processing and event handling.`,
}

var gatewayWorkerCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start payment gateway worker pool",
	Long:  `Start the payment gateway worker pool for processing hosted checkout session requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startGatewayWorker()
	},
}

var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var (
	maxWorkers     int
	jobQueueSize   int
	workerPoolSize int
	apiURL         string
)

func startGatewayWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	appLogger := logger.LoggerWrapper()

	gatewayConfig := paymentgateway.Config{
		APIURL:         getStringFlag(apiURL, config.Gateway.APIURL),
		MerchantName:   config.Gateway.MerchantName,
		TransactionKey: config.Gateway.TransactionKey,
		RequestTimeout: config.Gateway.GetRequestTimeout(),
		MaxWorkers:     getIntFlag(maxWorkers, config.Gateway.MaxWorkers),
		JobQueueSize:   getIntFlag(jobQueueSize, config.Gateway.JobQueueSize),
		WorkerPoolSize: getIntFlag(workerPoolSize, config.Gateway.WorkerPoolSize),
	}

	appLogger.Info("starting gateway worker",
		"max_workers", gatewayConfig.MaxWorkers,
		"job_queue_size", gatewayConfig.JobQueueSize,
		"worker_pool_size", gatewayConfig.WorkerPoolSize,
		"api_url", gatewayConfig.APIURL)

	client := paymentgateway.NewClient(gatewayConfig, appLogger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	appLogger.Info("gateway worker is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	appLogger.Info("received signal, shutting down gateway worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		client.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		appLogger.Info("gateway worker pool shutdown complete")
	case <-ctx.Done():
		appLogger.Warn("shutdown timeout reached, forcing exit")
	}
}

func startEventWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	appLogger := logger.LoggerWrapper()

	eventBus := events.NewEventBus(appLogger)

	eventBus.Subscribe(events.EventTypePaymentCompleted, func(ctx context.Context, event events.Event) error {
		appLogger.Info("observed payment completed event",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})

	appLogger.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	appLogger.Info("event bus is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	appLogger.Info("received signal, shutting down event bus", "signal", sig)
	appLogger.Info("event bus shutdown complete")
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	gatewayWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	gatewayWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	gatewayWorkerCmd.Flags().IntVar(&workerPoolSize, "worker-pool-size", 0, "Worker pool channel size (overrides config)")
	gatewayWorkerCmd.Flags().StringVar(&apiURL, "api-url", "", "Payment gateway API URL (overrides config)")

	workerCmd.AddCommand(gatewayWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
