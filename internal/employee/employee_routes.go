package employee

import (
	"github.com/gin-gonic/gin"

	"timetracker/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	employees := r.Group("/clients/:client_id/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", h.GetAll)
		employees.POST("", h.Create)
		employees.GET("/:employee_id", h.Get)
		employees.POST("/:employee_id/approve", h.Approve)
	}
}
