package jwtclaimsreader

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Claims holds what a session token asserts about its bearer
type Claims struct {
	SessionID string
	AccountID string
	Exp       float64
}

// SessionClaims reads the claims of the token validated for this request, if any
func SessionClaims(c *fiber.Ctx) Claims {
	var claims Claims
	if t, ok := c.Locals("user").(*jwt.Token); ok {
		mapClaims, ok := t.Claims.(jwt.MapClaims)
		if !ok {
			return claims
		}
		if value, ok := mapClaims["sid"].(string); ok {
			claims.SessionID = value
		}
		if value, ok := mapClaims["sub"].(string); ok {
			claims.AccountID = value
		}
		if value, ok := mapClaims["exp"].(float64); ok {
			claims.Exp = value
		}
	}

	return claims
}
