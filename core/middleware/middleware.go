package middleware

import (
	"strconv"
	"strings"
	"time"

	"sportmeet/core/constants"
	"sportmeet/core/controller"
	"sportmeet/core/errors"
	"sportmeet/core/logger"
	"sportmeet/core/metrics"
	"sportmeet/core/utils"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Middleware struct {
	controller.BaseController
}

func NewMiddleware() *Middleware {
	return &Middleware{
		BaseController: controller.NewBaseController(),
	}
}

// AuthMiddleware accepts a bearer token from the Authorization header, or from
// the token query parameter for clients that cannot set headers (websockets).
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return m.auth(true)
}

// OptionalAuthMiddleware lets anonymous requests through. A token that is
// present must still be valid.
func (m *Middleware) OptionalAuthMiddleware() echo.MiddlewareFunc {
	return m.auth(false)
}

func (m *Middleware) auth(required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := utils.GetTokenFromHeader(c.Request().Header.Get("Authorization"))
			if token == "" {
				token = c.QueryParam("token")
			}
			if token == "" {
				if !required {
					return next(c)
				}
				return m.ErrorResponse(c, errors.NewAppError(errors.ErrMissingAuthorizationHeader, "missing authorization token", nil))
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				logger.Debug("Middleware:AuthMiddleware:ValidateAndParseToken:Error", "error", err)
				var appErr *errors.AppError
				if errors.As(err, &appErr) {
					return m.ErrorResponse(c, appErr)
				}
				return m.ErrorResponse(c, errors.NewAppError(errors.ErrUnauthorized, "invalid token", err))
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// RequestLogger logs one line per request and records request metrics.
func (m *Middleware) RequestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			route := v.RoutePath
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequests.WithLabelValues(v.Method, route, strconv.Itoa(v.Status)).Inc()
			metrics.HTTPDuration.WithLabelValues(v.Method, route).Observe(v.Latency.Seconds())

			args := []any{
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"latency_ms", v.Latency.Round(time.Microsecond).Seconds() * 1000,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				args = append(args, "error", v.Error)
			}
			if v.Status >= 500 {
				logger.Error("HTTP:Request", args...)
			} else {
				logger.Info("HTTP:Request", args...)
			}
			return nil
		},
	})
}

// Recover turns handler panics into a 500 response.
func (m *Middleware) Recover() echo.MiddlewareFunc {
	return echomw.RecoverWithConfig(echomw.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("HTTP:Recover", "error", err, "path", c.Request().URL.Path, "stack", string(stack))
			return err
		},
	})
}

// Timeout bounds request handling time. Long-lived live-channel upgrades are
// skipped.
func (m *Middleware) Timeout() echo.MiddlewareFunc {
	return echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasSuffix(c.Path(), "/ws")
		},
		Timeout: constants.DefaultRequestTimeout,
	})
}
