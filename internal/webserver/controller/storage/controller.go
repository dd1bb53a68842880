package storage

import (
	"errors"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/webserver/model"
	"gorm.io/gorm"
)

type fileRepository interface {
	Create(file *model.File) error
	Find(bucketID, uuid string) (model.File, error)
	Delete(bucketID, uuid string) error
}

type Controller struct {
	repository fileRepository
	appFs      afero.Fs
	config     Config
}

type Config struct {
	UploadMaxSize int64
	// AllowedExtensions is a glob the lowercased file name must match, such as *.{jpg,png}
	AllowedExtensions   string
	ClientImageCacheTTL int
}

func NewController(repository fileRepository, appFs afero.Fs, cfg Config) *Controller {
	return &Controller{
		repository: repository,
		appFs:      appFs,
		config:     cfg,
	}
}

func (s *Controller) allowed(fileName string) bool {
	if s.config.AllowedExtensions == "" {
		return true
	}
	matched, err := doublestar.Match(s.config.AllowedExtensions, strings.ToLower(path.Base(fileName)))
	return err == nil && matched
}

func (s *Controller) find(c *fiber.Ctx) (model.File, error) {
	file, err := s.repository.Find(c.Params("bucket"), c.Params("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return file, backend.ErrFileNotFound()
	}
	if err != nil {
		return file, fiber.ErrInternalServerError
	}
	return file, nil
}
