package account

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v4"
	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/webserver/model"
	"gorm.io/gorm"
)

// CurrentSession is the session ID clients use to refer to the one they are authenticated with
const CurrentSession = "current"

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateSession signs in an account and gives it a JWT
func (a *Controller) CreateSession(c *fiber.Ctx) error {
	var req credentials
	if err := c.BodyParser(&req); err != nil {
		return backend.ErrInvalidArgument("Invalid request body.")
	}

	if err := a.sessions.Purge(); err != nil {
		log.Error(err)
	}

	// If email or password are incorrect, do not allow access.
	account, err := a.accounts.FindByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.ErrInternalServerError
	}
	if err != nil || !account.CheckPassword(req.Password) {
		return backend.NewError(fiber.StatusUnauthorized, backend.TypeInvalidCredentials, "Invalid credentials. Please check the email and password.")
	}

	id, _ := model.NewID("")
	session := model.Session{
		Uuid:        id,
		AccountUuid: account.Uuid,
		Expire:      time.Now().UTC().Add(a.config.SessionTimeout),
	}
	if err := a.sessions.Create(&session); err != nil {
		return fiber.ErrInternalServerError
	}

	signedToken, err := GenerateToken(session, a.config.Secret)
	if err != nil {
		log.Error(err)
		return fiber.ErrInternalServerError
	}

	return c.Status(fiber.StatusCreated).JSON(session.ToBackend(signedToken))
}

// DeleteSession revokes a session of the account making the request
func (a *Controller) DeleteSession(c *fiber.Ctx) error {
	session := c.Locals("Session").(model.Session)

	id := c.Params("id")
	if id == CurrentSession {
		id = session.Uuid
	}

	err := a.sessions.Delete(session.AccountUuid, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return backend.NewError(fiber.StatusNotFound, backend.TypeSessionNotFound, "The current user session could not be found.")
	}
	if err != nil {
		return fiber.ErrInternalServerError
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func GenerateToken(session model.Session, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": session.Uuid,
		"sub": session.AccountUuid,
		"exp": jwt.NewNumericDate(session.Expire),
	})

	return token.SignedString(secret)
}
