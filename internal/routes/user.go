package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/handlers"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/middleware"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/models"
)

func RegisterUserRoutes(r gin.IRouter) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/doctors", handlers.GetDoctors)
		users.GET("/patients", middleware.RequireRoles(models.RoleDoctor, models.RoleAdmin), handlers.GetPatients)
	}
}
