package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"timetracker/internal/app"
	"timetracker/internal/shared/apperror"
)

// The outbox worker drains staged events from Postgres and publishes
// them to Kafka. It shares configuration with the API server but runs
// as its own process.
func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	logger.Info("starting outbox worker")
	if err := app.RunWorker(); err != nil {
		logger.Fatal("outbox worker exited", zap.Error(err))
	}
}
