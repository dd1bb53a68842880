package storage

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/preview"
)

var gravities = map[backend.Gravity]struct{}{
	backend.GravityCenter:      {},
	backend.GravityTop:         {},
	backend.GravityTopLeft:     {},
	backend.GravityTopRight:    {},
	backend.GravityLeft:        {},
	backend.GravityRight:       {},
	backend.GravityBottom:      {},
	backend.GravityBottomLeft:  {},
	backend.GravityBottomRight: {},
}

// Preview renders a JPEG copy of an image file resized as requested
func (s *Controller) Preview(c *fiber.Ctx) error {
	opts := backend.PreviewOptions{
		Width:   c.QueryInt("width"),
		Height:  c.QueryInt("height"),
		Gravity: backend.Gravity(c.Query("gravity", string(backend.GravityCenter))),
		Quality: c.QueryInt("quality", preview.DefaultQuality),
	}
	if err := validate(opts); err != nil {
		return err
	}

	file, err := s.find(c)
	if err != nil {
		return err
	}

	fileReader, err := s.appFs.Open(file.Path())
	if err != nil {
		log.Errorf("error opening file '%s': %s", file.Path(), err)
		return backend.ErrFileNotFound()
	}
	defer fileReader.Close()

	image, err := preview.Render(fileReader, opts)
	if errors.Is(err, preview.ErrUnsupported) {
		return backend.NewError(fiber.StatusBadRequest, backend.TypeImageUnsupported, "Preview is not available for this file type.")
	}
	if err != nil {
		log.Error(err)
		return fiber.ErrInternalServerError
	}

	c.Set(fiber.HeaderCacheControl, fmt.Sprintf("public, max-age=%d", s.config.ClientImageCacheTTL))
	c.Response().Header.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(image)
}

func validate(opts backend.PreviewOptions) error {
	if opts.Width < 0 || opts.Width > preview.MaxDimension {
		return backend.ErrInvalidArgument(fmt.Sprintf("Invalid width param: Value must be a valid range between 0 and %d.", preview.MaxDimension))
	}
	if opts.Height < 0 || opts.Height > preview.MaxDimension {
		return backend.ErrInvalidArgument(fmt.Sprintf("Invalid height param: Value must be a valid range between 0 and %d.", preview.MaxDimension))
	}
	if opts.Quality < 0 || opts.Quality > 100 {
		return backend.ErrInvalidArgument("Invalid quality param: Value must be a valid range between 0 and 100.")
	}
	if _, ok := gravities[opts.Gravity]; !ok {
		return backend.ErrInvalidArgument(fmt.Sprintf("Invalid gravity param: %q is not a valid gravity.", opts.Gravity))
	}
	return nil
}
