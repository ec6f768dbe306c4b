package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"appointease-api/internal/auth"
	"appointease-api/internal/model"
	"appointease-api/internal/view"
)

const callerKey = "caller"

// UserResolver checks that a token subject still exists.
type UserResolver interface {
	UserByID(ctx context.Context, id string) (*model.User, error)
}

// Auth is the bearer guard for protected routes. It rejects with 401 when the
// header is absent or malformed, when the token fails verification, or when
// the token subject no longer exists; otherwise it attaches the resolved user
// to the request context.
func Auth(secret string, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "Invalid or missing authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		u, err := users.UserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			abortUnauthorized(c, "User not found")
			return
		}

		c.Set(callerKey, u)
		c.Next()
	}
}

// Caller returns the user the guard attached. Panics if called on a route the
// guard does not cover; that is a wiring bug, not a runtime condition.
func Caller(c *gin.Context) *model.User {
	return c.MustGet(callerKey).(*model.User)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, view.Fail(message, c.Request.URL.Path))
}
