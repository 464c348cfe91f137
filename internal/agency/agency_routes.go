package agency

import (
	"github.com/gin-gonic/gin"

	"timetracker/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	agencies := r.Group("/agencies")
	agencies.Use(middleware.AuthMiddleware())
	{
		agencies.GET("", h.GetAll)
		agencies.POST("", h.Create)
		agencies.GET("/:agency_slug", h.GetBySlug)
		agencies.POST("/join", h.Join)
	}

	contracts := r.Group("/agencies/:agency_slug/contracts")
	contracts.Use(middleware.AuthMiddleware())
	{
		contracts.GET("/pending", h.ListPending)
		contracts.POST("/:contract_id/approve", h.ApproveEmployee)
	}
}
