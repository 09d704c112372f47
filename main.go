package main

import (
	"log"

	"prodinsight/app"
	"prodinsight/internal"
	"prodinsight/internal/config"
	"prodinsight/internal/errors"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLoggerFromString(appConfig.Logging.Level)

	pipeline := app.NewPipelineService(app.PipelineConfigFrom(appConfig), logger)
	result, err := pipeline.Run()
	if err != nil {
		logger.Error("[Pipeline] %s: %v", errors.GetCode(err), err)
		log.Fatalf("Pipeline failed: %v", err)
	}

	if n := len(result.Manifest.ArtifactsFailed); n > 0 {
		logger.Warn("[Pipeline] %d artifacts failed, see %s", n, appConfig.Output.Dir)
	}
	logger.Info("[Pipeline] Done: %d insights, %d skipped", len(result.Insights), len(result.Skipped))
}
