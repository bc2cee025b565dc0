package router

import (
	"sportmeet/core/middleware"
	"sportmeet/modules/chat/controller"

	"github.com/labstack/echo/v4"
)

type ChatRouter struct {
	ChatController *controller.ChatController
}

func NewChatRouter(chatController *controller.ChatController) *ChatRouter {
	return &ChatRouter{ChatController: chatController}
}

func (r *ChatRouter) Setup(g *echo.Group, mw *middleware.Middleware) {
	chat := g.Group("/events/:id/chat", mw.AuthMiddleware())
	chat.GET("", r.ChatController.GetChatHistory)
	chat.POST("", r.ChatController.PostMessage)
}
