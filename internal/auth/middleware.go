package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// ContextKeyPrincipal is the key for storing the verified principal in context
const ContextKeyPrincipal = "principal"

// Middleware wires credential verification and role gating into echo.
type Middleware struct {
	verifier *Verifier
}

// NewMiddleware creates the authentication middleware around a verifier.
func NewMiddleware(verifier *Verifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// RequireAuth verifies the bearer credential before the handler runs and
// stores the resulting Principal in the request context. Verification always
// completes before any store access is attempted for the request.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)

		principal, err := m.verifier.VerifyAuthorization(header)
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingCredential):
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			case errors.Is(err, ErrMalformedCredential):
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			default:
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
		}

		c.Set(ContextKeyPrincipal, principal)
		return next(c)
	}
}

// RequireWriteOnMutation denies any non read-only method unless the verified
// principal carries the write role. Reads pass through with no role check.
// The decision depends only on (roles, method); it runs strictly after
// RequireAuth, so an unverified request never reaches this gate.
func (m *Middleware) RequireWriteOnMutation(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		method := c.Request().Method
		if method == http.MethodGet || method == http.MethodHead {
			return next(c)
		}

		principal, ok := GetPrincipal(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}

		if !principal.HasRole(RoleWrite) {
			log.WithFields(log.Fields{
				"principal": principal.UUID,
				"method":    method,
				"path":      c.Request().URL.Path,
			}).Warn("forbidden operation")
			return echo.NewHTTPError(http.StatusForbidden, "role not granted")
		}

		return next(c)
	}
}

// GetPrincipal extracts the verified principal from the echo context.
func GetPrincipal(c echo.Context) (*Principal, bool) {
	principal, ok := c.Get(ContextKeyPrincipal).(*Principal)
	return principal, ok
}
