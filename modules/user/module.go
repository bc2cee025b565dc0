package user

import (
	"sportmeet/core/database"
	"sportmeet/core/middleware"
	"sportmeet/core/storage"
	"sportmeet/modules/user/controller"
	"sportmeet/modules/user/repository"
	"sportmeet/modules/user/router"
	"sportmeet/modules/user/service"

	"github.com/labstack/echo/v4"
)

// Init wires the profile endpoints. store may be nil when object storage is
// not configured.
func Init(g *echo.Group, db database.Database, mw *middleware.Middleware, store storage.ObjectStorage) *service.UserService {
	repo := repository.NewUserRepository(db)
	svc := service.NewUserService(repo, store)
	ctrl := controller.NewUserController(svc)

	router.NewUserRouter(ctrl).Setup(g, mw)

	return svc
}
