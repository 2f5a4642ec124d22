package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/handlers"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/middleware"
)

func RegisterAdminRoutes(r gin.IRouter) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/audit/entity/:entityType/:entityId", handlers.GetEntityAuditLogs)
		admin.GET("/audit/user/:userId", handlers.GetUserAuditLogs)
	}
}
