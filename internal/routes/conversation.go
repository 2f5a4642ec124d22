package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/handlers"
	"github.com/sikandarmalik/healthcare-messaging-app/internal/middleware"
)

func RegisterConversationRoutes(r gin.IRouter) {
	conversations := r.Group("/conversations")
	conversations.Use(middleware.AuthMiddleware())
	{
		conversations.POST("", handlers.CreateConversation)
		conversations.GET("", handlers.ListConversations)
		conversations.GET("/:id", handlers.GetConversation)
		conversations.PATCH("/:id/status", handlers.UpdateConversationStatus)

		// Message ledger, nested under its conversation
		conversations.GET("/:id/messages", handlers.ListMessages)
		conversations.POST("/:id/messages", middleware.MessageRateLimit(), handlers.SendMessage)
		conversations.POST("/:id/messages/with-attachment", middleware.MessageRateLimit(), handlers.SendMessageWithAttachment)
		conversations.PATCH("/:id/messages/:messageId/read", handlers.MarkMessageAsRead)
		conversations.POST("/:id/messages/mark-read", handlers.MarkConversationAsRead)
	}
}
