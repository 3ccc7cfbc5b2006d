package middleware

import (
	"net/http"
	"strings"

	"github.com/farellandr/echallan/internal/helpers"
	"github.com/farellandr/echallan/internal/identity"
	"github.com/gin-gonic/gin"
)

const UserIDKey = "user_id"

func JWTAuthMiddleware(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			helpers.RespondWithError(c, http.StatusUnauthorized, "User must be authenticated.")
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || strings.TrimSpace(tokenString) == "" {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid authorization header format.")
			return
		}

		id, err := verifier.Verify(c.Request.Context(), strings.TrimSpace(tokenString))
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token.")
			return
		}

		c.Set(UserIDKey, id.UID)
		c.Next()
	}
}

// GetUserID returns the caller set by JWTAuthMiddleware, or "".
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
