package middleware

import (
	"net/http"

	"coursehub/cmd/internal/domain/entity"
	"coursehub/cmd/internal/utils"
	"coursehub/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type UserRepository interface {
	FindByEmail(email string) (*entity.User, error)
}

type AuthMiddlewareConfig struct {
	UserRepo UserRepository
}

// RequireAuth rejects requests without a valid bearer token and loads
// the caller into the request context.
func RequireAuth(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData, err := utils.ParseTokenDataCtx(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			user, err := cfg.UserRepo.FindByEmail(tokenData.Email)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
			}

			if user == nil {
				// User deleted in DB but still has a valid token???
				return c.JSON(http.StatusUnauthorized, apierror.UserNotFoundError)
			}

			c.Set("user", user)
			c.Set("email", user.Email)
			return next(c)
		}
	}
}

// OptionalAuth loads the caller when a valid token is attached but
// lets anonymous requests straight through. Public GETs use it for
// per-user personalization.
func OptionalAuth(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData, err := utils.ParseTokenDataCtx(c)
			if err != nil {
				return next(c)
			}

			user, err := cfg.UserRepo.FindByEmail(tokenData.Email)
			if err != nil || user == nil {
				return next(c)
			}

			c.Set("user", user)
			c.Set("email", user.Email)
			return next(c)
		}
	}
}
