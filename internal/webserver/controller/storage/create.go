package storage

import (
	"errors"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/afero"
	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/webserver/model"
	"github.com/valyala/fasthttp"
)

// Create stores the file sent in the "file" multipart field
func (s *Controller) Create(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
		return backend.ErrInvalidArgument("No file sent.")
	}
	if err != nil {
		log.Error(err)
		return fiber.ErrInternalServerError
	}

	if !s.allowed(fileHeader.Filename) {
		return backend.NewError(fiber.StatusBadRequest, backend.TypeFileTypeUnsupported, "The given file extension is not supported.")
	}

	if fileHeader.Size > s.config.UploadMaxSize {
		return backend.NewError(fiber.StatusBadRequest, backend.TypeFileTooLarge, "File size not allowed.")
	}

	id, err := model.NewID(c.FormValue("fileId"))
	if err != nil {
		return backend.ErrInvalidArgument(err.Error())
	}

	fileReader, err := fileHeader.Open()
	if err != nil {
		log.Error(err)
		return fiber.ErrInternalServerError
	}
	defer fileReader.Close()

	contents, err := io.ReadAll(fileReader)
	if err != nil {
		log.Error(err)
		return fiber.ErrInternalServerError
	}

	name, _ := model.Sanitize(fileHeader.Filename).(string)
	file := model.File{
		Uuid:     id,
		BucketID: c.Params("bucket"),
		Name:     name,
		MimeType: http.DetectContentType(contents),
		Size:     int64(len(contents)),
	}

	if err := s.repository.Create(&file); err != nil {
		if errors.Is(err, model.ErrDuplicated) {
			return backend.NewError(fiber.StatusConflict, backend.TypeFileAlreadyExists, "A storage file with the requested ID already exists.")
		}
		return fiber.ErrInternalServerError
	}

	if err := s.write(file, contents); err != nil {
		log.Errorf("error saving file '%s': %s", file.Path(), err)
		if err := s.repository.Delete(file.BucketID, file.Uuid); err != nil {
			log.Errorf("error rolling back file '%s': %s", file.Path(), err)
		}
		return fiber.ErrInternalServerError
	}

	return c.Status(fiber.StatusCreated).JSON(file.ToBackend())
}

func (s *Controller) write(file model.File, contents []byte) error {
	if err := s.appFs.MkdirAll(file.BucketID, 0755); err != nil {
		return err
	}
	return afero.WriteFile(s.appFs, file.Path(), contents, 0644)
}
