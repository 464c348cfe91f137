package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"timetracker/internal/agency"
	"timetracker/internal/authz"
	"timetracker/internal/client"
	"timetracker/internal/clientjob"
	"timetracker/internal/employee"
	"timetracker/internal/messaging/kafka"
	"timetracker/internal/timerecord"
	"timetracker/internal/user"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authzRepo := authz.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	clientRepo := client.NewRepository(gormDB)
	clientJobRepo := clientjob.NewRepository(gormDB)
	agencyRepo := agency.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	timeRecordRepo := timerecord.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	authzService := authz.NewService(authzRepo)
	userService := user.NewService(userRepo)
	clientService := client.NewService(db, clientRepo, outboxRepo, authzService)
	clientJobService := clientjob.NewService(clientJobRepo, authzService, rdb)
	agencyService := agency.NewService(agencyRepo, authzService)
	employeeService := employee.NewService(employeeRepo, authzService, agencyRepo, timeRecordRepo)
	timeRecordService := timerecord.NewService(db, timeRecordRepo, employeeRepo, clientJobRepo, authzService)

	// --- Handlers ---
	userHandler := user.NewHandler(userService)
	clientHandler := client.NewHandler(clientService)
	clientJobHandler := clientjob.NewHandler(clientJobService)
	agencyHandler := agency.NewHandler(agencyService)
	employeeHandler := employee.NewHandler(employeeService)
	timeRecordHandler := timerecord.NewHandler(timeRecordService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		user.RegisterRoutes(api, userHandler)
		client.RegisterRoutes(api, clientHandler)
		clientjob.RegisterRoutes(api, clientJobHandler)
		agency.RegisterRoutes(api, agencyHandler)
		employee.RegisterRoutes(api, employeeHandler)
		timerecord.RegisterRoutes(api, timeRecordHandler)
	}

	return nil
}
