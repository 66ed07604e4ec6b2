// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the authentication gate. Every API route sits behind
// RequireAuth: it extracts the bearer token, verifies it through the supplied
// TokenVerifier, and attaches the decoded Identity to the Gin context as a
// typed value. Handlers read it back with IdentityFrom and never touch the
// Authorization header themselves.
//
// A request that fails verification is answered 401 with the uniform
// {"error":"Unauthorized"} body and the handler chain never runs, so no
// persistence call can be reached unauthenticated.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/renalhub/go-portal-backend/internal/auth"
)

// identityKey is the Gin context key under which the decoded caller is stored.
const identityKey = "identity"

// TokenVerifier turns a bearer token into an Identity or fails. Satisfied by
// *auth.TokenIssuer.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// RequireAuth returns the authentication gate. The Authorization header must
// carry "Bearer <token>"; anything else short-circuits with 401.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			unauthorized(c)
			return
		}
		ident, err := verifier.Verify(token)
		if err != nil {
			unauthorized(c)
			return
		}
		c.Set(identityKey, ident)
		// userID feeds the access log and the per-user rate-limit bucket.
		c.Set("userID", ident.ID)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"error":      "Unauthorized",
	})
}

// bearerToken extracts the credential from an Authorization header value.
// Scheme matching is case-insensitive; an empty string means no usable token.
func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// IdentityFrom returns the authenticated caller stored by RequireAuth. The
// boolean is false on routes that are not behind the gate.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	ident, ok := v.(auth.Identity)
	return ident, ok
}
