// Package auth guards the admin surface (data import and seeding). Regular
// analytics endpoints are read-only and unauthenticated; only the endpoints
// that can write to the store require an admin credential.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// AdminKeyHeader carries the static admin key.
const AdminKeyHeader = "X-Admin-Key"

// Config controls how admin requests are verified. Either a static key, an
// HS256 JWT secret, or both may be configured. DevMode admits everything.
type Config struct {
	AdminAPIKey string
	JWTSecret   string
	DevMode     bool
}

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminOnly returns middleware that rejects requests lacking a valid admin
// credential. Accepted credentials:
//   - X-Admin-Key header matching the configured static key
//   - Authorization: Bearer <jwt> signed with the HS256 secret, role "admin"
func AdminOnly(cfg Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.DevMode {
				c.Set("admin", true)
				return next(c)
			}

			if cfg.AdminAPIKey != "" {
				if key := c.Request().Header.Get(AdminKeyHeader); key != "" {
					if key == cfg.AdminAPIKey {
						c.Set("admin", true)
						return next(c)
					}
					return echo.NewHTTPError(http.StatusForbidden, "invalid admin key")
				}
			}

			if cfg.JWTSecret != "" {
				tokenStr := bearerToken(c)
				if tokenStr != "" {
					claims := &adminClaims{}
					token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
						return []byte(cfg.JWTSecret), nil
					}, jwt.WithValidMethods([]string{"HS256"}))
					if err != nil || !token.Valid {
						return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
					}
					if claims.Role != "admin" {
						return echo.NewHTTPError(http.StatusForbidden, "admin role required")
					}
					c.Set("admin", true)
					c.Set("sub", claims.Subject)
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusUnauthorized, "admin credential required")
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// SignAdminToken issues an HS256 admin token. Used by operational tooling and
// tests; the server itself only verifies.
func SignAdminToken(secret, subject string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is empty")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, adminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	})
	return token.SignedString([]byte(secret))
}
