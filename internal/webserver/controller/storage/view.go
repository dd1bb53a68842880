package storage

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/afero"
	"github.com/svera/snapgram/internal/backend"
)

// View sends the file contents as they were uploaded
func (s *Controller) View(c *fiber.Ctx) error {
	file, err := s.find(c)
	if err != nil {
		return err
	}

	contents, err := afero.ReadFile(s.appFs, file.Path())
	if err != nil {
		log.Errorf("error reading file '%s': %s", file.Path(), err)
		return backend.ErrFileNotFound()
	}

	c.Set(fiber.HeaderContentType, file.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", file.Name))
	return c.Send(contents)
}
