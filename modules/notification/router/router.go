package router

import (
	"sportmeet/core/middleware"
	"sportmeet/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

type NotificationRouter struct {
	controller *controller.LiveController
}

func NewNotificationRouter(controller *controller.LiveController) *NotificationRouter {
	return &NotificationRouter{controller: controller}
}

func (r *NotificationRouter) Setup(g *echo.Group, mw *middleware.Middleware) {
	g.GET("/ws", r.controller.Connect, mw.AuthMiddleware())
}
