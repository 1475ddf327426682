package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/artefacto/heritage-api/internal/repository"
)

// RequireAdmin returns a middleware that loads the authenticated user's row
// and rejects the request with 403 unless the admin flag is set. The role is
// checked against the database rather than a token claim so a demoted admin
// loses access as soon as their row changes, not at token expiry. It assumes
// JWTAuth has already stored the user id in the context.
func RequireAdmin(users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := c.Get(ContextUserID).(uint64)
			if !ok || uid == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"status": "error", "message": "unauthorized",
				})
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByID(ctx, uid)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return c.JSON(http.StatusUnauthorized, echo.Map{
						"status": "error", "message": "unauthorized",
					})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"status": "error", "message": "server error",
				})
			}
			if !u.IsAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{
					"status": "error", "message": "admin access required",
				})
			}
			return next(c)
		}
	}
}
