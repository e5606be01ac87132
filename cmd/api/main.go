package main

import (
	"context"
	"log"
	"os"

	api "todolists/internal/adapter/http"
	"todolists/internal/shared"
)

func main() {
	ctx := context.Background()

	shared.LoadEnv()

	lokiURL := os.Getenv("LOKI_URL")

	if lokiURL == "" {
		lokiURL = "http://localhost:3100"
	}

	logger, err := shared.NewLokiLogger("todolists", lokiURL)

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	otlpEndpoint := os.Getenv("OTLP_ENDPOINT")

	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	telemetry, err := shared.InitTelemetry(shared.TelemetryConfig{
		ServiceName:    "todolists",
		ServiceVersion: "1.0.0",
		MetricsPort:    "9091",
		OTLPEndpoint:   otlpEndpoint,
	})

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer telemetry.Shutdown(ctx)

	metrics := shared.NewAppMetrics(telemetry.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	config := shared.GetDefaultConfig()

	if os.Getenv("GIN_MODE") == "release" {
		config.Environment = "production"
		config.EnforceHTTPS = true
	}

	api.StartServerWithConfig(metrics, logger, config)
}
