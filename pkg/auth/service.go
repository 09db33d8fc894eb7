package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/lindenrow/dealdesk-engine/pkg/config"
)

// AuthService validates incoming requests and produces claims.
type AuthService interface {
	// ValidateRequest extracts and validates the Bearer token on a request.
	ValidateRequest(r *http.Request) (*Claims, error)
}

type authService struct {
	keyfunc jwt.Keyfunc
	issuer  string
	enabled bool
	logger  *zap.Logger
}

// NewAuthService creates an AuthService backed by the configured JWKS
// endpoint. With verification disabled (local development) every request is
// treated as an admin user.
func NewAuthService(ctx context.Context, cfg *config.AuthConfig, logger *zap.Logger) (AuthService, error) {
	svc := &authService{
		issuer:  cfg.Issuer,
		enabled: cfg.EnableVerification,
		logger:  logger,
	}

	if cfg.EnableVerification {
		kf, err := keyfunc.NewDefaultCtx(ctx, []string{cfg.JWKSURL})
		if err != nil {
			return nil, fmt.Errorf("failed to create JWKS keyfunc for %s: %w", cfg.JWKSURL, err)
		}
		svc.keyfunc = kf.Keyfunc
	}

	return svc, nil
}

func (s *authService) ValidateRequest(r *http.Request) (*Claims, error) {
	if !s.enabled {
		// Local development: no auth server, everyone is an admin.
		return &Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "local-dev"},
			Roles:            []string{RoleAdmin},
		}, nil
	}

	tokenStr, err := extractBearerToken(r)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, s.keyfunc,
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	return claims, nil
}

// extractBearerToken pulls the token out of the Authorization header.
func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing Authorization header")
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", fmt.Errorf("Authorization header is not a Bearer token")
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", fmt.Errorf("empty Bearer token")
	}
	return token, nil
}
