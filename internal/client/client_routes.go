package client

import (
	"github.com/gin-gonic/gin"

	"timetracker/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	clients := r.Group("/clients")
	clients.Use(middleware.AuthMiddleware())
	{
		clients.GET("", h.GetAll)
		clients.POST("", h.Create)
		clients.GET("/slug/:client_slug", h.GetBySlug)
	}

	admins := r.Group("/clients/:client_id/admins")
	admins.Use(middleware.AuthMiddleware())
	{
		admins.GET("", h.ListAdmins)
		admins.POST("", h.AddAdmin)
		admins.POST("/invites", h.Invite)
	}

	invites := r.Group("/admin-invites")
	invites.Use(middleware.AuthMiddleware())
	{
		invites.POST("/:token/accept", h.AcceptInvite)
	}
}
