package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken mints a signed HS256 bearer token for the given subject.
// It backs the token CLI and the test suites; the HTTP surface itself only
// verifies credentials, it never issues them.
func GenerateToken(secret, subject, organization string, roles []string, expiration time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("signing secret is required")
	}
	if subject == "" {
		return "", fmt.Errorf("subject is required")
	}

	now := time.Now()
	claims := Claims{
		Organization: organization,
		Roles:        roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "servium",
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
