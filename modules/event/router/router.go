package router

import (
	"sportmeet/core/middleware"
	"sportmeet/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{EventController: eventController}
}

// Setup registers event routes under g, which is the /api/v1 group.
func (r *EventRouter) Setup(g *echo.Group, mw *middleware.Middleware) {
	events := g.Group("/events")
	events.GET("", r.EventController.ListEvents)
	events.GET("/:id", r.EventController.GetEvent, mw.OptionalAuthMiddleware())

	protected := events.Group("", mw.AuthMiddleware())
	protected.POST("", r.EventController.CreateEvent)
	protected.PUT("/:id", r.EventController.UpdateEvent)
	protected.POST("/:id/register", r.EventController.RegisterForEvent)
	protected.GET("/:id/participants", r.EventController.GetEventParticipants)

	users := g.Group("/users", mw.AuthMiddleware())
	users.GET("/myevents", r.EventController.GetMyEvents)
	users.GET("/myevents/ids", r.EventController.GetMyEventIDs)
}
