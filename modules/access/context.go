package access

import (
	"sportmeet/core/constants"
	"sportmeet/core/errors"
	"sportmeet/core/utils"

	"github.com/labstack/echo/v4"
)

// FromEcho reads the principal the auth middleware stored on the context.
func FromEcho(c echo.Context) (Principal, *errors.AppError) {
	claims, ok := c.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return Principal{}, errors.NewAppError(errors.ErrUnauthorized, "user not authenticated", nil)
	}
	return FromClaims(claims), nil
}

// OptionalFromEcho returns the zero Principal for anonymous requests. The zero
// Principal owns nothing, so it only ever sees public views.
func OptionalFromEcho(c echo.Context) Principal {
	p, appErr := FromEcho(c)
	if appErr != nil {
		return Principal{}
	}
	return p
}

func FromClaims(claims *utils.TokenClaims) Principal {
	return Principal{ID: claims.UserID, Role: ParseRole(claims.Role)}
}
