package chat

import (
	"sportmeet/core/activity"
	"sportmeet/core/database"
	"sportmeet/core/middleware"
	"sportmeet/modules/chat/controller"
	"sportmeet/modules/chat/repository"
	"sportmeet/modules/chat/router"
	"sportmeet/modules/chat/service"
	notifService "sportmeet/modules/notification/service"

	"github.com/labstack/echo/v4"
)

func Init(g *echo.Group, db database.Database, mw *middleware.Middleware, events service.EventDirectory, notifier notifService.Notifier, publisher activity.Publisher) *service.ChatService {
	repo := repository.NewMessageRepository(db)
	svc := service.NewChatService(repo, events, notifier, publisher)
	ctrl := controller.NewChatController(svc)

	router.NewChatRouter(ctrl).Setup(g, mw)

	return svc
}
