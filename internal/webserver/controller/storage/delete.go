package storage

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

func (s *Controller) Delete(c *fiber.Ctx) error {
	file, err := s.find(c)
	if err != nil {
		return err
	}

	if err := s.repository.Delete(file.BucketID, file.Uuid); err != nil {
		return fiber.ErrInternalServerError
	}

	if err := s.appFs.Remove(file.Path()); err != nil {
		log.Errorf("error removing file '%s': %s", file.Path(), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
