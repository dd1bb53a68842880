package webserver

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/webserver/jwtclaimsreader"
	"github.com/svera/snapgram/internal/webserver/model"
)

type activeSessions interface {
	Active(uuid string) (model.Session, error)
}

// RequireSession rejects requests not carrying a bearer token for a session
// which is still active, and makes that session available to the handlers
func RequireSession(jwtSecret []byte, sessions activeSessions) func(*fiber.Ctx) error {
	return jwtware.New(jwtware.Config{
		SigningKey:    jwtSecret,
		SigningMethod: "HS256",
		TokenLookup:   "header:Authorization",
		AuthScheme:    "Bearer",
		SuccessHandler: func(c *fiber.Ctx) error {
			claims := jwtclaimsreader.SessionClaims(c)
			session, err := sessions.Active(claims.SessionID)
			if err != nil || session.AccountUuid != claims.AccountID {
				return backend.ErrUnauthorized()
			}
			c.Locals("Session", session)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return backend.ErrUnauthorized()
		},
	})
}
