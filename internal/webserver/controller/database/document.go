package database

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/svera/snapgram/internal/backend"
)

func (d *Controller) Get(c *fiber.Ctx) error {
	doc, err := d.repository.Find(c.Params("database"), c.Params("collection"), c.Params("id"))
	if err != nil {
		return notFoundOr(err)
	}

	return c.JSON(doc.ToBackend())
}

// Update merges the attributes sent into the stored ones
func (d *Controller) Update(c *fiber.Ctx) error {
	var req documentRequest
	if err := c.BodyParser(&req); err != nil {
		return backend.ErrInvalidArgument("Invalid request body.")
	}

	changes, err := attributes(req.Data)
	if err != nil {
		return err
	}

	doc, err := d.repository.Update(c.Params("database"), c.Params("collection"), c.Params("id"), changes)
	if err != nil {
		return notFoundOr(err)
	}

	merged, err := doc.Attributes()
	if err == nil {
		err = d.idx.Index(doc.DatabaseID, doc.CollectionID, doc.Uuid, merged)
	}
	if err != nil {
		log.Errorf("error indexing document %s: %s", doc.Uuid, err)
	}

	return c.JSON(doc.ToBackend())
}

func (d *Controller) Delete(c *fiber.Ctx) error {
	databaseID, collectionID, id := c.Params("database"), c.Params("collection"), c.Params("id")

	if err := d.repository.Delete(databaseID, collectionID, id); err != nil {
		return notFoundOr(err)
	}

	if err := d.idx.Remove(databaseID, collectionID, id); err != nil {
		log.Errorf("error removing document %s from index: %s", id, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
