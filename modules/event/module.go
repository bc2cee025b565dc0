package event

import (
	"sportmeet/core/activity"
	"sportmeet/core/database"
	"sportmeet/core/middleware"
	"sportmeet/modules/event/controller"
	"sportmeet/modules/event/repository"
	"sportmeet/modules/event/router"
	"sportmeet/modules/event/service"
	notifService "sportmeet/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Module exposes the event services other modules depend on.
type Module struct {
	Repository    *repository.EventRepository
	Events        *service.EventService
	Registrations *service.RegistrationService
}

// Init initializes the event module and registers its routes
func Init(g *echo.Group, db database.Database, mw *middleware.Middleware, notifier notifService.Notifier, publisher activity.Publisher) *Module {
	repo := repository.NewEventRepository(db)
	events := service.NewEventService(repo, notifier, publisher)
	registrations := service.NewRegistrationService(repo, notifier, publisher)
	ctrl := controller.NewEventController(events, registrations)

	router.NewEventRouter(ctrl).Setup(g, mw)

	return &Module{Repository: repo, Events: events, Registrations: registrations}
}
