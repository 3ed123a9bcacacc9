package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"reviews-web/internal/domains/review/access"
)

// LoginPath is where unauthenticated visitors of gated routes are sent
const LoginPath = "/login"

// RequireSession gates a route on an authenticated session. Anonymous requests
// are redirected to the login page and never reach the handler.
func RequireSession(who access.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := who.CurrentUser()
		if !ok {
			status := http.StatusSeeOther
			if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
				status = http.StatusFound
			}

			log.Debug().
				Str("request_id", c.GetString("request_id")).
				Str("path", c.Request.URL.Path).
				Msg("Session required, redirecting to login")

			c.Redirect(status, LoginPath)
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Next()
	}
}
