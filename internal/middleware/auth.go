package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rakhadavedra/user-management-service/pkg/errs"
	"github.com/rakhadavedra/user-management-service/pkg/response"
	"github.com/rakhadavedra/user-management-service/pkg/utils"
)

const (
	ContextKeyUserID = "userID"
	ContextKeyEmail  = "email"
)

// Auth rejects requests without a valid bearer token before the handler
// runs. On success the token's identity is placed on the echo context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				return response.WriteErrorResponse(c, errs.ErrInvalidToken, nil)
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			userID, email, err := utils.VerifyJWTToken(tokenString, jwtSecret)
			if err != nil {
				return response.WriteErrorResponse(c, errs.ErrInvalidToken, nil)
			}

			c.Set(ContextKeyUserID, userID)
			c.Set(ContextKeyEmail, email)

			return next(c)
		}
	}
}
