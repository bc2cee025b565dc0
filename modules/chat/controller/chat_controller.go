package controller

import (
	"sportmeet/core/controller"
	"sportmeet/core/errors"
	"sportmeet/core/utils"
	"sportmeet/modules/access"
	"sportmeet/modules/chat/dto"
	"sportmeet/modules/chat/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ChatController struct {
	controller.BaseController
	ChatService service.ChatServiceInterface
}

func NewChatController(svc service.ChatServiceInterface) *ChatController {
	return &ChatController{
		BaseController: controller.NewBaseController(),
		ChatService:    svc,
	}
}

// GetChatHistory handles GET /events/:id/chat
// @Summary Chat history, oldest first
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.MessageResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /events/{id}/chat [get]
func (c *ChatController) GetChatHistory(ctx echo.Context) error {
	eventID := utils.ToUUID(ctx.Param("id"))
	if eventID == uuid.Nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrNotFound, "Event not found", nil))
	}

	messages, appErr := c.ChatService.History(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, messages, "Get chat history success")
}

// PostMessage handles POST /events/:id/chat
// @Summary Post a chat message
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.PostMessageRequest true "Message"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 403 {object} controller.ErrorResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /events/{id}/chat [post]
func (c *ChatController) PostMessage(ctx echo.Context) error {
	principal, appErr := access.FromEcho(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	eventID := utils.ToUUID(ctx.Param("id"))
	if eventID == uuid.Nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrNotFound, "Event not found", nil))
	}

	req := new(dto.PostMessageRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	msg, appErr := c.ChatService.Append(ctx.Request().Context(), eventID, principal, req.Body)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, msg, "Message sent")
}
