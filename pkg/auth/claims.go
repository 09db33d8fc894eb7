// Package auth provides JWT-based authentication for dealdesk-engine.
// It validates tokens issued by the DealDesk auth server using its JWKS
// endpoint and enforces role requirements for privileged operations.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
)

// Roles allowed to trigger matching runs.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Claims represents the JWT claims structure from the DealDesk auth server.
// It embeds RegisteredClaims for standard JWT fields (sub, iss, exp, etc.)
// and adds custom claims for user context.
type Claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email,omitempty"` // User email address
	Roles []string `json:"roles,omitempty"` // User roles
}

// HasAnyRole reports whether the claims carry at least one of the given roles.
func (c *Claims) HasAnyRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range c.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// GetUserIDFromContext extracts the user ID from JWT claims in the context.
// Returns empty string if not authenticated or claims are missing.
func GetUserIDFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Subject
}
