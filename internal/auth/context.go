package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ErrNoClaims is returned when no validated token is attached to the request.
var ErrNoClaims = errors.New("no authenticated claims in request context")

// ClaimsFromContext returns the validated claims the JWT middleware stored
// on the request. Handlers on secured routes use it to resolve the current
// tenant.
func ClaimsFromContext(c echo.Context) (*Claims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, ErrNoClaims
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrNoClaims
	}
	return claims, nil
}
