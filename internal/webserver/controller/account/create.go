package account

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/webserver/model"
)

type createRequest struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Create registers a new account
func (a *Controller) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return backend.ErrInvalidArgument("Invalid request body.")
	}

	id, err := model.NewID(req.UserID)
	if err != nil {
		return backend.ErrInvalidArgument(err.Error())
	}

	name, _ := model.Sanitize(strings.TrimSpace(req.Name)).(string)
	account := model.Account{
		Uuid:     id,
		Name:     name,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
	}

	if errs := account.Validate(); len(errs) > 0 {
		return backend.ErrInvalidArgument(firstError(errs))
	}

	if account.Password, err = model.Hash(req.Password); err != nil {
		log.Error(err)
		return fiber.ErrInternalServerError
	}

	if err := a.accounts.Create(&account); err != nil {
		if errors.Is(err, model.ErrDuplicated) {
			return backend.NewError(fiber.StatusConflict, backend.TypeUserAlreadyExists, "A user with the same id or email already exists.")
		}
		return fiber.ErrInternalServerError
	}

	return c.Status(fiber.StatusCreated).JSON(account.ToBackend())
}
