package account

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/webserver/model"
	"gorm.io/gorm"
)

// Get returns the account owning the session of the request
func (a *Controller) Get(c *fiber.Ctx) error {
	session := c.Locals("Session").(model.Session)

	account, err := a.accounts.Find(session.AccountUuid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return backend.NewError(fiber.StatusNotFound, backend.TypeUserNotFound, "User with the requested ID could not be found.")
	}
	if err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(account.ToBackend())
}
