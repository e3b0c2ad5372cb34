// Package auth provides authentication and authorization for the Servium API.
// It verifies JWT bearer credentials and enforces role-based write gating.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"

	"evalgo.org/servium/internal/config"
)

var (
	// ErrMissingCredential is returned when no Authorization value is present
	ErrMissingCredential = errors.New("authorization header not found")
	// ErrMalformedCredential is returned when the Authorization value is not
	// a "Bearer <token>" pair
	ErrMalformedCredential = errors.New("malformed authorization header")
	// ErrInvalidCredential is returned when the token fails signature or
	// expiry checks, or required claims cannot be extracted
	ErrInvalidCredential = errors.New("invalid token")
)

// Roles understood by the access gate.
const (
	RoleRead  = "read"
	RoleWrite = "write"
)

// Claims represents the JWT custom claims carried by a catalog credential.
type Claims struct {
	Email        string   `json:"email,omitempty"`
	Organization string   `json:"organization_uuid,omitempty"`
	Roles        []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the verified identity derived from a credential. It is
// reconstructed per request and never persisted.
type Principal struct {
	UUID         string
	Email        string
	Organization string
	Roles        []string
}

// HasRole reports whether the principal carries the given role.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Verifier validates bearer credentials and produces Principals.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a credential verifier from the application configuration.
func NewVerifier(cfg *config.Config) *Verifier {
	return &Verifier{secret: []byte(cfg.Security.JWTSecret)}
}

// VerifyAuthorization validates a raw Authorization header value and returns
// the Principal it carries.
//
// The scheme comparison is case-insensitive; an empty token half is treated
// as malformed rather than invalid. Rejections are audit logged by category
// only, never with the raw token.
func (v *Verifier) VerifyAuthorization(header string) (*Principal, error) {
	if header == "" {
		log.WithField("reason", "missing_credential").Warn("authorization rejected")
		return nil, ErrMissingCredential
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		log.WithField("reason", "malformed_credential").Warn("authorization rejected")
		return nil, ErrMalformedCredential
	}

	principal, err := v.verifyToken(strings.TrimSpace(parts[1]))
	if err != nil {
		log.WithField("reason", "invalid_credential").Warn("authorization rejected")
		return nil, err
	}

	log.WithField("principal", principal.UUID).Info("authenticated principal")
	return principal, nil
}

// verifyToken checks signature and expiry, then extracts the principal.
func (v *Verifier) verifyToken(tokenString string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidCredential
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject claim", ErrInvalidCredential)
	}

	roles := claims.Roles
	if roles == nil {
		roles = []string{}
	}

	return &Principal{
		UUID:         claims.Subject,
		Email:        claims.Email,
		Organization: claims.Organization,
		Roles:        roles,
	}, nil
}
