package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v5"
)

const subjectContextKey = "safar.subject"

// authMiddleware accepts `Authorization: Bearer <token>` where token is an
// HS256 JWT signed with the service secret and carrying a subject.
func (s *APIV1Service) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		token, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
			return []byte(s.Secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		c.Set(subjectContextKey, subject)
		return next(c)
	}
}

// owner returns the authenticated subject, or "" when auth is disabled.
func owner(c *echo.Context) string {
	subject, _ := c.Get(subjectContextKey).(string)
	return subject
}

// SignToken issues a bearer token for subject, valid for ttl.
func SignToken(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
