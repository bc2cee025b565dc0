package notification

import (
	"sportmeet/core/middleware"
	"sportmeet/modules/notification/controller"
	"sportmeet/modules/notification/hub"
	"sportmeet/modules/notification/router"

	"github.com/labstack/echo/v4"
)

// Init registers the live channel on g.
func Init(g *echo.Group, mw *middleware.Middleware, h *hub.Hub, members controller.MembershipSource, send controller.MessageSender) *controller.LiveController {
	ctrl := controller.NewLiveController(h, members, send)

	router.NewNotificationRouter(ctrl).Setup(g, mw)

	return ctrl
}
