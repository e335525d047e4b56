package gameapi

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/vinom-mines/service/i"
	"github.com/gin-gonic/gin"
)

const (
	// ContextSessionClaims is the key used to store token claims in the Gin context.
	ContextSessionClaims = "sessionClaims"

	// SessionClaim is the token claim naming the game session the bearer may play.
	SessionClaim = "sessionID"
)

// Authorize admits requests whose bearer token was issued for the session in the :ID path parameter.
func Authorize(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Retrieve the access token from the Authorization header.
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Status(http.StatusUnauthorized) // No token found in the header.
			c.Abort()
			return
		}

		// Split the "Bearer" prefix from the token.
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Status(http.StatusUnauthorized) // Malformed Authorization header.
			c.Abort()
			return
		}

		claims, err := ts.Decode(parts[1])
		if err != nil {
			c.Status(http.StatusUnauthorized)
			c.Abort()
			return
		}

		// A token opens exactly one session.
		sessionID, _ := claims[SessionClaim].(string)
		if sessionID == "" || !strings.EqualFold(sessionID, c.Param("ID")) {
			c.Status(http.StatusForbidden)
			c.Abort()
			return
		}

		c.Set(ContextSessionClaims, claims)
		c.Next()
	}
}
