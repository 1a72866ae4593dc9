package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "auth.identity"

// Middleware rejects requests without a valid bearer credential. The token is
// read from the Authorization header or, for websocket upgrades, the "token"
// query parameter.
func Middleware(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := v.Verify(TokenFromRequest(c.Request))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "unauthorized"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// TokenFromRequest extracts the raw bearer token.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// IdentityFrom returns the identity stored by Middleware.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}

// UserID returns the authenticated user id or "".
func UserID(c *gin.Context) string {
	identity, _ := IdentityFrom(c)
	return identity.UserID
}
