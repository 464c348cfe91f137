package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"timetracker/internal/shared/connection"
	"timetracker/internal/user"
)

// createadmin provisions (or resets) the platform admin account from
// environment-supplied credentials. Safe to run on every deploy.
func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	gormDB, err := connection.ConnectGORMWithRetry(connection.PostgresConfig{
		Host:     os.Getenv("DB_HOST"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		Port:     os.Getenv("DB_PORT"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}, 5)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	service := user.NewService(user.NewRepository(gormDB))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	u, err := service.ProvisionAdmin(ctx, user.AdminConfig{
		Email:    os.Getenv("ADMIN_EMAIL"),
		Password: os.Getenv("ADMIN_PASSWORD"),
		Name:     os.Getenv("ADMIN_NAME"),
	})
	if err != nil {
		logger.Fatal("provision admin failed", zap.Error(err))
	}

	logger.Info("admin user provisioned",
		zap.String("id", u.ID.String()),
		zap.String("email", u.Email),
	)
}
