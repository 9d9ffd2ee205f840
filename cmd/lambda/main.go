package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/media-resolve-go/api"
	"github.com/yourusername/media-resolve-go/internal/app"
	"github.com/yourusername/media-resolve-go/pkg/logger"
)

func main() {
	// Lambda has no config directory, so this reads env overrides on top of defaults
	config, err := app.LoadConfig(os.Getenv("MEDIARESOLVE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewProduction(config.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logAdapter := logger.NewSingleLoggerAdapter(log)

	// The audit trail needs a persistent disk, which Lambda does not have
	config.History.Enabled = false

	service, cleanup, err := app.NewServiceFromConfig(config, logAdapter)
	if err != nil {
		log.Fatal("Failed to initialize resolve service", zap.Error(err))
	}
	defer cleanup()

	gin.SetMode(gin.ReleaseMode)
	router := api.SetupRouter(service, logAdapter)

	log.Info("Starting Lambda handler",
		zap.String("payload_version", config.Lambda.PayloadVersion),
		zap.String("upstream", config.Upstream.BaseURL))

	// v1 serves REST API payloads, v2 serves HTTP API and function URL payloads
	switch config.Lambda.PayloadVersion {
	case "v1":
		lambda.Start(ginadapter.New(router).ProxyWithContext)
	default:
		lambda.Start(ginadapter.NewV2(router).ProxyWithContext)
	}
}
