package identity

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stashd/stashd/pkg/stashd/apierr"
	"github.com/stashd/stashd/pkg/stashd/auth"
	"github.com/stashd/stashd/pkg/stashd/respond"
)

const (
	// ContextKeyIdentity is the key for the resolved Identity in gin context
	ContextKeyIdentity = "identity"
	// APITokenHeader carries the long-lived API access token
	APITokenHeader = "X-API-TOKEN"
	// APITokenQuery is the query-parameter fallback for the API token
	APITokenQuery = "api_token"
)

// Middleware resolves the dual authentication boundary. Requests carry
// either a session JWT (Authorization: Bearer) or a static API access
// token (X-API-TOKEN header or api_token query parameter); both yield the
// same Identity before any handler runs.
func Middleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := apiToken(c); token != "" {
			ident, err := FromAPIToken(db, token)
			if err != nil {
				respond.AbortError(c, err)
				return
			}
			c.Set(ContextKeyIdentity, ident)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respond.AbortError(c, apierr.ErrUnauthenticated)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			respond.AbortError(c, apierr.ErrUnauthenticated)
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			respond.AbortError(c, apierr.ErrUnauthenticated)
			return
		}

		ident, err := FromSession(claims)
		if err != nil {
			respond.AbortError(c, err)
			return
		}

		// First authenticated access provisions the user row.
		if _, err := EnsureUser(db, ident.OwnerKey); err != nil {
			respond.AbortError(c, err)
			return
		}

		c.Set(ContextKeyIdentity, ident)
		c.Next()
	}
}

func apiToken(c *gin.Context) string {
	if token := c.GetHeader(APITokenHeader); token != "" {
		return token
	}
	return c.Query(APITokenQuery)
}

// FromContext returns the Identity resolved by Middleware
func FromContext(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return Identity{}, false
	}
	ident, ok := v.(Identity)
	return ident, ok
}

// MustFromContext returns the Identity or aborts with ErrUnauthenticated.
// Handlers behind Middleware can rely on it being present.
func MustFromContext(c *gin.Context) (Identity, bool) {
	ident, ok := FromContext(c)
	if !ok {
		respond.AbortError(c, apierr.ErrUnauthenticated)
	}
	return ident, ok
}
