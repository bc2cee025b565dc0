package router

import (
	"sportmeet/core/middleware"
	"sportmeet/modules/user/controller"

	"github.com/labstack/echo/v4"
)

type UserRouter struct {
	controller *controller.UserController
}

func NewUserRouter(controller *controller.UserController) *UserRouter {
	return &UserRouter{controller: controller}
}

func (r *UserRouter) Setup(g *echo.Group, mw *middleware.Middleware) {
	users := g.Group("/users", mw.AuthMiddleware())
	users.GET("/profile", r.controller.GetProfile)
	users.PUT("/profile-picture", r.controller.UpdateProfilePicture)
	users.DELETE("/profile-picture", r.controller.DeleteProfilePicture)
}
