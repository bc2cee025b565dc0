package router

import (
	"sportmeet/modules/news/controller"

	"github.com/labstack/echo/v4"
)

type NewsRouter struct {
	controller *controller.NewsController
}

func NewNewsRouter(controller *controller.NewsController) *NewsRouter {
	return &NewsRouter{controller: controller}
}

func (r *NewsRouter) Setup(g *echo.Group) {
	g.GET("/news", r.controller.GetSportsNews)
}
