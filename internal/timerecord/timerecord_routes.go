package timerecord

import (
	"github.com/gin-gonic/gin"

	"timetracker/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	clock := r.Group("/clients/:client_id/employees/:employee_id")
	clock.Use(middleware.AuthMiddleware())
	{
		clock.POST("/clock-in", h.ClockIn)
		clock.POST("/clock-out", h.ClockOut)
		clock.GET("/time-records", h.ListForEmployee)
		clock.GET("/time-records/summary", h.Summary)
	}

	queue := r.Group("/clients/:client_id/time-records")
	queue.Use(middleware.AuthMiddleware())
	{
		queue.GET("/unapproved", h.ListUnapproved)
	}

	records := r.Group("/time-records")
	records.Use(middleware.AuthMiddleware())
	{
		records.POST("/:record_id/approve", h.Approve)
	}
}
