// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"
	"time"

	"github.com/estim-games/estim-api/internal/domain/cart"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	cartOwnerKey = "cart_owner"
	sessionIDKey = "session_id"
)

// SessionConfig describes the guest session cookie
type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// CartSession resolves which cart a request works on. Authenticated users
// get their user cart; guests get a session cart keyed by a cookie that is
// issued on first contact. It must run after OptionalAuthMiddleware.
func CartSession(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := ""
		if raw, err := c.Cookie(cfg.CookieName); err == nil {
			if id, err := uuid.Parse(raw); err == nil {
				sessionID = id.String()
			}
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.CookieName, sessionID, int(cfg.MaxAge.Seconds()), "/", "", cfg.Secure, true)
		}
		c.Set(sessionIDKey, sessionID)

		if userID, ok := GetUserIDFromContext(c); ok {
			c.Set(cartOwnerKey, cart.UserOwner(userID))
		} else {
			c.Set(cartOwnerKey, cart.SessionOwner(sessionID))
		}

		c.Next()
	}
}

// GetCartOwner returns the cart owner key resolved by CartSession
func GetCartOwner(c *gin.Context) string {
	return c.GetString(cartOwnerKey)
}

// GetSessionID returns the guest session id resolved by CartSession
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
