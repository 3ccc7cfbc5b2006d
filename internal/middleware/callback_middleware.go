package middleware

import (
	"crypto/hmac"
	"net/http"

	"github.com/farellandr/echallan/internal/helpers"
	"github.com/gin-gonic/gin"
)

// CallbackTokenHeader is where payment gateways put the shared webhook
// token; it matches the header Xendit sends.
const CallbackTokenHeader = "X-Callback-Token"

// CallbackTokenQuery carries the token for providers that cannot set custom
// headers on notifications (Midtrans).
const CallbackTokenQuery = "callback_token"

// CallbackTokenMiddleware guards payment webhooks with a shared token. An
// empty token disables the check; config refuses one outside development.
func CallbackTokenMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		got := c.GetHeader(CallbackTokenHeader)
		if got == "" {
			got = c.Query(CallbackTokenQuery)
		}
		if !hmac.Equal([]byte(got), []byte(token)) {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid callback token.")
			return
		}
		c.Next()
	}
}
