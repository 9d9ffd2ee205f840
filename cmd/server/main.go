package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/media-resolve-go/api"
	"github.com/yourusername/media-resolve-go/api/handlers"
	"github.com/yourusername/media-resolve-go/internal/app"
	"github.com/yourusername/media-resolve-go/internal/domain"
	"github.com/yourusername/media-resolve-go/pkg/logger"
)

var configPath = flag.String("config", "", "Path to config file (default: ./configs, ~/.media-resolve, /etc/media-resolve)")

func main() {
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logAdapter, err := newLogAdapter(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logAdapter.Close()
	log := logAdapter.General()

	log.Info("Starting media-resolve server",
		zap.String("version", handlers.Version),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("upstream", config.Upstream.BaseURL),
		zap.Bool("relay", config.Relay.Enabled),
		zap.Bool("history", config.History.Enabled))

	service, cleanup, err := app.NewServiceFromConfig(config, logAdapter)
	if err != nil {
		log.Fatal("Failed to initialize resolve service", zap.Error(err))
	}
	defer cleanup()

	gin.SetMode(gin.ReleaseMode)
	router := api.SetupRouter(service, logAdapter)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Relay uploads can run for minutes, give them the relay timeout to finish
	shutdownTimeout := 30 * time.Second
	if config.Relay.Enabled && config.Relay.Timeout > shutdownTimeout {
		shutdownTimeout = config.Relay.Timeout
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// newLogAdapter builds the console logger and, when logs_dir is set, the
// categorized file loggers on top of it
func newLogAdapter(config *domain.Config) (*logger.LoggerAdapter, error) {
	console, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		return nil, err
	}

	if config.Logging.LogsDir == "" {
		return logger.NewSingleLoggerAdapter(console), nil
	}

	multiLog, err := logger.NewMultiLogger(logger.MultiLoggerConfig{
		Level:   config.Logging.Level,
		LogsDir: config.Logging.LogsDir,
		Console: console,
	})
	if err != nil {
		return nil, err
	}
	return logger.NewLoggerAdapter(multiLog), nil
}
