package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/davryn/identity-service/pkg/helpers"
	"github.com/davryn/identity-service/pkg/response"
)

const CtxUserIDKey = "userID"

// Auth validates the bearer token from the access_token cookie or the
// Authorization header and injects the user id into the Gin context.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		userID, err := jwt.Verify(token)
		if err != nil {
			msg := "invalid access token"
			if errors.Is(err, helpers.ErrTokenExpired) {
				msg = "access token expired"
			}
			response.AbortError(c, http.StatusUnauthorized, msg, nil)
			return
		}
		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(helpers.AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
