package controller

import (
	"sportmeet/core/controller"
	"sportmeet/modules/news/service"

	"github.com/labstack/echo/v4"
)

type NewsController struct {
	controller.BaseController
	NewsService service.NewsServiceInterface
}

func NewNewsController(news service.NewsServiceInterface) *NewsController {
	return &NewsController{
		BaseController: controller.NewBaseController(),
		NewsService:    news,
	}
}

// GetSportsNews handles GET /news
// @Summary Sports headlines
// @Description Pass-through of newsapi.org top headlines for the sports category.
// @Tags News
// @Produce json
// @Param country query string false "Two-letter country code"
// @Success 200 {object} object
// @Failure 500 {object} controller.ErrorResponse
// @Failure 502 {object} controller.ErrorResponse
// @Router /news [get]
func (c *NewsController) GetSportsNews(ctx echo.Context) error {
	news, appErr := c.NewsService.SportsHeadlines(ctx.Request().Context(), ctx.QueryParam("country"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, news, "Get news success")
}
