package news

import (
	"sportmeet/core/config"
	"sportmeet/modules/news/controller"
	"sportmeet/modules/news/router"
	"sportmeet/modules/news/service"

	"github.com/labstack/echo/v4"
)

func Init(g *echo.Group, cfg config.NewsConfig, cache service.Cache) *service.NewsService {
	svc := service.NewNewsService(cfg, cache)
	ctrl := controller.NewNewsController(svc)

	router.NewNewsRouter(ctrl).Setup(g)

	return svc
}
