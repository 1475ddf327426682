package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/artefacto/heritage-api/internal/utils"
)

// Context keys populated by JWTAuth.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's user id and email into the request context. The secret
// must match the one used when issuing tokens. Missing, malformed, and
// expired tokens all yield 401 with the uniform error envelope.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"status": "error", "message": "missing bearer token",
				})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			uid, email, err := utils.ParseAuthToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"status": "error", "message": "invalid or expired token",
				})
			}
			c.Set(ContextUserID, uid)
			c.Set(ContextEmail, email)
			return next(c)
		}
	}
}
