package router

import (
	"github.com/labstack/echo/v4"

	"marketcore/internal/adapter/api/handler"
	"marketcore/internal/adapter/api/middleware"
)

// SetupChatRouter registers conversation and message routes. All of them
// need a viewer identity.
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, identity *middleware.IdentityMiddleware) {
	conversations := e.Group("/v1/conversations")
	conversations.Use(identity.Identify)

	conversations.GET("", chatHandler.GetConversations)                             // GET /v1/conversations?q=
	conversations.GET("/:id/messages", chatHandler.GetMessages)                     // GET /v1/conversations/:id/messages?tz=
	conversations.POST("/:id/messages", chatHandler.SendMessage)                    // POST /v1/conversations/:id/messages
	conversations.PUT("/:id/read", chatHandler.MarkConversationRead)                // PUT /v1/conversations/:id/read
	conversations.PUT("/:id/messages/:messageId/read", chatHandler.MarkMessageRead) // PUT /v1/conversations/:id/messages/:messageId/read
}
