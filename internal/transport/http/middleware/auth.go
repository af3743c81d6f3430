package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arklim/shoplite-api/internal/core/domain"
	"github.com/arklim/shoplite-api/internal/usecase"
)

type errorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorEnvelope{Error: errorBody{Message: message, Status: status}})
}

// RequireAuth validates the Authorization header, loads the account behind
// the token, and stores it on the context.
func RequireAuth(auth *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, http.StatusUnauthorized, "invalid authorization format: expected 'Bearer <token>'")
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			abortWithError(c, http.StatusUnauthorized, "missing session token")
			return
		}

		user, err := auth.ParseSession(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrExpiredToken):
				abortWithError(c, http.StatusUnauthorized, "session token expired")
			case errors.Is(err, usecase.ErrInvalidToken):
				abortWithError(c, http.StatusUnauthorized, "invalid session token")
			case errors.Is(err, usecase.ErrUserNotFound):
				abortWithError(c, http.StatusUnauthorized, "account no longer exists")
			default:
				abortWithError(c, http.StatusInternalServerError, "authentication failed")
			}
			return
		}

		c.Set(CurrentUserKey, user)

		c.Next()
	}
}

// RequireRole checks whether the authenticated user holds any of the given
// roles. It must run after RequireAuth.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "authentication required")
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		abortWithError(c, http.StatusForbidden, "insufficient permissions")
	}
}

// CurrentUser retrieves the authenticated user from the context.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	val, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}

	user, ok := val.(*domain.User)
	if !ok || user == nil {
		return nil, false
	}

	return user, true
}
