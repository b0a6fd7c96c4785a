package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"treinoexpresso/cmd/internal/domain/entity"
	"treinoexpresso/cmd/internal/utils"
	"treinoexpresso/cmd/internal/utils/apierror"
)

type UserResolver interface {
	ResolveUser(token *utils.TokenData) (*entity.User, apierror.ErrorResponse)
}

type AuthMiddlewareConfig struct {
	Users UserResolver

	// Verify checks the raw Authorization header. Defaults to utils.ValidateToken.
	Verify func(header string) (*utils.TokenData, error)
}

// NewAuthMiddleware creates the handler with dependencies injected
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	verify := cfg.Verify
	if verify == nil {
		verify = utils.ValidateToken
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData, err := verify(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			user, apierr := cfg.Users.ResolveUser(tokenData)
			if apierr != nil {
				return c.JSON(apierr.Code(), apierr)
			}

			c.Set(utils.UserContextKey, user)
			c.Set("sub", tokenData.Sub)
			return next(c)
		}
	}
}
