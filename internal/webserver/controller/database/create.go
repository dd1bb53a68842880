package database

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/webserver/model"
)

func (d *Controller) Create(c *fiber.Ctx) error {
	var req documentRequest
	if err := c.BodyParser(&req); err != nil {
		return backend.ErrInvalidArgument("Invalid request body.")
	}

	id, err := model.NewID(req.DocumentID)
	if err != nil {
		return backend.ErrInvalidArgument(err.Error())
	}

	data, err := attributes(req.Data)
	if err != nil {
		return err
	}

	doc := model.Document{
		Uuid:         id,
		DatabaseID:   c.Params("database"),
		CollectionID: c.Params("collection"),
	}
	if err := doc.SetAttributes(data); err != nil {
		return backend.ErrInvalidArgument(err.Error())
	}

	if err := d.repository.Create(&doc); err != nil {
		if errors.Is(err, model.ErrDuplicated) {
			return backend.NewError(fiber.StatusConflict, backend.TypeDocumentAlreadyExists, "Document with the requested ID already exists.")
		}
		return fiber.ErrInternalServerError
	}

	if err := d.idx.Index(doc.DatabaseID, doc.CollectionID, doc.Uuid, data); err != nil {
		log.Errorf("error indexing document %s: %s", doc.Uuid, err)
	}

	return c.Status(fiber.StatusCreated).JSON(doc.ToBackend())
}
