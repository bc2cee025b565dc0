package controller

import (
	"sportmeet/core/controller"
	"sportmeet/core/errors"
	"sportmeet/core/logger"
	"sportmeet/modules/access"
	"sportmeet/modules/user/dto"
	"sportmeet/modules/user/service"

	"github.com/labstack/echo/v4"
)

const pictureField = "profilePicture"

type UserController struct {
	controller.BaseController
	UserService service.UserServiceInterface
}

func NewUserController(users service.UserServiceInterface) *UserController {
	return &UserController{
		BaseController: controller.NewBaseController(),
		UserService:    users,
	}
}

// GetProfile handles GET /users/profile
// @Summary Get the caller's profile
// @Tags User
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} controller.ErrorResponse
// @Router /users/profile [get]
func (c *UserController) GetProfile(ctx echo.Context) error {
	principal, appErr := access.FromEcho(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	profile, appErr := c.UserService.GetProfile(ctx.Request().Context(), principal.ID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, profile, "Get profile success")
}

// UpdateProfilePicture handles PUT /users/profile-picture
// @Summary Upload a profile picture
// @Tags User
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param profilePicture formData file true "Image, at most 5MB"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /users/profile-picture [put]
func (c *UserController) UpdateProfilePicture(ctx echo.Context) error {
	principal, appErr := access.FromEcho(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	header, err := ctx.FormFile(pictureField)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "profilePicture file is required", nil)
	}
	file, err := header.Open()
	if err != nil {
		logger.Error("UserController:UpdateProfilePicture:Open:Error", err)
		return c.BadRequest(errors.ErrInvalidRequestData, "Could not read profilePicture", nil)
	}
	defer file.Close()

	profile, appErr := c.UserService.UpdatePicture(ctx.Request().Context(), principal.ID, dto.PictureUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Size:        header.Size,
		Body:        file,
	})
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, profile, "Profile picture updated")
}

// DeleteProfilePicture handles DELETE /users/profile-picture
// @Summary Remove the profile picture
// @Tags User
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /users/profile-picture [delete]
func (c *UserController) DeleteProfilePicture(ctx echo.Context) error {
	principal, appErr := access.FromEcho(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	profile, appErr := c.UserService.RemovePicture(ctx.Request().Context(), principal.ID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, profile, "Profile picture removed")
}
