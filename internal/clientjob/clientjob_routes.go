package clientjob

import (
	"github.com/gin-gonic/gin"

	"timetracker/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	jobs := r.Group("/clients/:client_id/jobs")
	jobs.Use(middleware.AuthMiddleware())
	{
		jobs.GET("", h.GetAll)
		jobs.GET("/options", h.GetOptions)
		jobs.POST("", h.Create)
		jobs.GET("/:job_slug", h.GetBySlug)
		jobs.PUT("/:job_id", h.Update)
	}
}
