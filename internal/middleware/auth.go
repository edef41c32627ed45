package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/waylo/waylo-api/internal/models"
	"github.com/waylo/waylo-api/internal/services"
	"github.com/waylo/waylo-api/pkg/errors"
)

// Context keys set by TokenAuth.
const (
	ContextUserKey  = "auth_user"
	ContextTokenKey = "auth_token"
)

// TokenAuth validates the Authorization header against the token store and
// attaches the resolved account to the request context. All credential
// failures map to 401; infrastructure failures to 503.
func TokenAuth(auth *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)

			user, token, err := auth.Authenticate(header)
			if err != nil {
				switch errors.Code(err) {
				case errors.ErrCodeMalformedCredential,
					errors.ErrCodeInvalidCredential,
					errors.ErrCodeAccountInactive:
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
				default:
					return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "authentication unavailable"})
				}
			}

			c.Set(ContextUserKey, user)
			c.Set(ContextTokenKey, token)
			return next(c)
		}
	}
}

// OptionalTokenAuth attaches the account when an Authorization header is
// present and falls through silently when there is none, so public routes
// can honor viewer-dependent visibility. A header that is present but bad
// is still rejected.
func OptionalTokenAuth(auth *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			user, token, err := auth.Authenticate(header)
			if err != nil {
				switch errors.Code(err) {
				case errors.ErrCodeMalformedCredential,
					errors.ErrCodeInvalidCredential,
					errors.ErrCodeAccountInactive:
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
				default:
					return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "authentication unavailable"})
				}
			}

			c.Set(ContextUserKey, user)
			c.Set(ContextTokenKey, token)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated account attached by TokenAuth, or
// nil on unauthenticated routes.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(ContextUserKey).(*models.User)
	return user
}
