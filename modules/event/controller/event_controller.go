package controller

import (
	"sportmeet/core/controller"
	"sportmeet/core/errors"
	"sportmeet/core/utils"
	"sportmeet/modules/access"
	"sportmeet/modules/event/dto"
	"sportmeet/modules/event/service"
	"sportmeet/modules/event/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EventController handles event HTTP requests
type EventController struct {
	controller.BaseController
	EventService        service.EventServiceInterface
	RegistrationService service.RegistrationServiceInterface
}

func NewEventController(events service.EventServiceInterface, registrations service.RegistrationServiceInterface) *EventController {
	return &EventController{
		BaseController:      controller.NewBaseController(),
		EventService:        events,
		RegistrationService: registrations,
	}
}

func (c *EventController) eventID(ctx echo.Context) (uuid.UUID, *errors.AppError) {
	id := utils.ToUUID(ctx.Param("id"))
	if id == uuid.Nil {
		return uuid.Nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return id, nil
}

// ListEvents handles GET /events
// @Summary List events
// @Tags Event
// @Produce json
// @Param category query string false "Category"
// @Param skillLevel query string false "Skill level"
// @Param maxFee query int false "Maximum entry fee"
// @Param search query string false "Title substring"
// @Param startDate query string false "RFC3339 or YYYY-MM-DD"
// @Param endDate query string false "RFC3339 or YYYY-MM-DD"
// @Success 200 {array} dto.EventResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /events [get]
func (c *EventController) ListEvents(ctx echo.Context) error {
	query := new(dto.ListEventsQuery)
	if err := ctx.Bind(query); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid query parameters", nil)
	}

	filter, validationResult := validator.ParseListEventsQuery(query)
	if validationResult.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid query parameters", validationResult)
	}

	events, appErr := c.EventService.List(ctx.Request().Context(), filter)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, events, "Get events success")
}

// GetEvent handles GET /events/:id
// @Summary Get an event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.EventDetailResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	principal := access.OptionalFromEcho(ctx)
	id, appErr := c.eventID(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	event, appErr := c.EventService.Get(ctx.Request().Context(), id, principal)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, event, "Get event success")
}

// CreateEvent handles POST /events
// @Summary Create an event
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.EventDetailResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 403 {object} controller.ErrorResponse
// @Router /events [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	principal, appErr := access.FromEcho(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	if appErr := access.RequireHost(principal); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	req := new(dto.CreateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}
	validationResult := validator.ValidateCreateEventRequest(req)
	if validationResult.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	event, appErr := c.EventService.Create(ctx.Request().Context(), principal, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, event, "Event created successfully")
}

// UpdateEvent handles PUT /events/:id
// @Summary Update an event
// @Description Only supplied fields change.
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateEventRequest true "Fields to change"
// @Success 200 {object} dto.EventDetailResponse
// @Failure 403 {object} controller.ErrorResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(ctx echo.Context) error {
	principal, appErr := access.FromEcho(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	id, appErr := c.eventID(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	req := new(dto.UpdateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}
	validationResult := validator.ValidateUpdateEventRequest(req)
	if validationResult.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	event, appErr := c.EventService.Update(ctx.Request().Context(), id, principal, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, event, "Event updated successfully")
}

// RegisterForEvent handles POST /events/:id/register
// @Summary Register for an event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.RegisterResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /events/{id}/register [post]
func (c *EventController) RegisterForEvent(ctx echo.Context) error {
	principal, appErr := access.FromEcho(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	id, appErr := c.eventID(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	resp, appErr := c.RegistrationService.Register(ctx.Request().Context(), id, principal)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, resp.Message)
}

// GetEventParticipants handles GET /events/:id/participants
// @Summary List participants in registration order
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ParticipantResponse
// @Failure 403 {object} controller.ErrorResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /events/{id}/participants [get]
func (c *EventController) GetEventParticipants(ctx echo.Context) error {
	principal, appErr := access.FromEcho(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	id, appErr := c.eventID(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	participants, appErr := c.RegistrationService.ListParticipants(ctx.Request().Context(), id, principal)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, participants, "Get participants success")
}

// GetMyEvents handles GET /users/myevents
// @Summary Events the caller registered for
// @Tags User
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.EventResponse
// @Router /users/myevents [get]
func (c *EventController) GetMyEvents(ctx echo.Context) error {
	principal, appErr := access.FromEcho(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	events, appErr := c.EventService.RegisteredEvents(ctx.Request().Context(), principal.ID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, events, "Get my events success")
}

// GetMyEventIDs handles GET /users/myevents/ids
// @Summary Ids of events the caller registered for or hosts
// @Tags User
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.MyEventIDsResponse
// @Router /users/myevents/ids [get]
func (c *EventController) GetMyEventIDs(ctx echo.Context) error {
	principal, appErr := access.FromEcho(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	ids, err := c.EventService.MyEventIDs(ctx.Request().Context(), principal.ID)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInternalServer, "failed to load event ids", err))
	}
	resp := dto.MyEventIDsResponse{EventIDs: make([]string, len(ids))}
	for i, id := range ids {
		resp.EventIDs[i] = id.String()
	}
	return c.SuccessResponse(ctx, resp, "Get my event ids success")
}
