package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Middleware decodes the session cookie into the request context and
// attaches a cookie writer so resolvers can issue or clear sessions.
// A missing or invalid token leaves the request unauthenticated; the
// resolvers decide which operations require identity.
func Middleware(secret string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithCookieWriter(c.Request.Context(), c.Writer)

		if cookie, err := c.Request.Cookie(CookieName); err == nil && cookie.Value != "" {
			userID, err := VerifyToken(cookie.Value, secret)
			if err != nil {
				log.Debug().Err(err).Msg("rejecting session cookie")
			} else {
				ctx = WithUserID(ctx, userID)
			}
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
