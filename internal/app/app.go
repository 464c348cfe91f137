package app

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"timetracker/internal/middleware"
	"timetracker/internal/shared/connection"
)

func postgresConfigFromEnv() connection.PostgresConfig {
	return connection.PostgresConfig{
		Host:     os.Getenv("DB_HOST"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		Port:     os.Getenv("DB_PORT"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}
}

// BuildApp connects the infrastructure and mounts every module's
// routes on the router.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(postgresConfigFromEnv(), 5)
	if err != nil {
		return err
	}

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	router.Use(middleware.RequestID())

	if err := registerModules(router, db, gormDB, rdb); err != nil {
		return err
	}

	zap.L().Info("application modules registered")
	return nil
}
