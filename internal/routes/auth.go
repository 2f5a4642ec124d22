package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/handlers"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/middleware"
)

func RegisterAuthRoutes(r gin.IRouter) {
	r.POST("/register", handlers.Register)
	r.POST("/login", handlers.Login)
	r.GET("/me", middleware.AuthMiddleware(), handlers.Me)
	// Logout needs claims from AuthMiddleware for token revocation
	r.POST("/logout", middleware.AuthMiddleware(), handlers.Logout)
}
