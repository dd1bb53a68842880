package webserver

import (
	"embed"
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/webserver/infrastructure"
)

var (
	//go:embed embedded
	embedded embed.FS

	viewsFS fs.FS
)

// multipartOverhead leaves room in the request body for the multipart
// envelope surrounding an upload of the maximum allowed size
const multipartOverhead = 1 << 20

type Config struct {
	Version             string
	JwtSecret           []byte
	SessionTimeout      time.Duration
	UploadMaxSize       int64
	AllowedExtensions   string
	ClientImageCacheTTL int
	LogRequests         bool
}

func init() {
	var err error

	viewsFS, err = fs.Sub(embedded, "embedded/views")
	if err != nil {
		log.Fatal(err)
	}
}

// New builds a new Fiber application and set up the required routes
func New(cfg Config, controllers Controllers) *fiber.App {
	engine, err := infrastructure.TemplateEngine(viewsFS)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		Views:                 engine,
		AppName:               cfg.Version,
		BodyLimit:             int(cfg.UploadMaxSize) + multipartOverhead,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	if cfg.LogRequests {
		app.Use(logger.New())
	}

	routes(app, controllers)
	return app
}

// errorHandler renders every failure as the JSON error payload clients expect
func errorHandler(c *fiber.Ctx, err error) error {
	var backendErr *backend.Error
	if !errors.As(err, &backendErr) {
		// Status code defaults to 500
		backendErr = backend.NewError(fiber.StatusInternalServerError, backend.TypeServerError, "Server Error")

		// Retrieve the custom status code if it's a *fiber.Error
		var e *fiber.Error
		if errors.As(err, &e) {
			backendErr = backend.NewError(e.Code, errorType(e.Code), e.Message)
		} else {
			log.Println(err)
		}
	}

	return c.Status(backendErr.Code).JSON(backendErr)
}

func errorType(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return backend.TypeRouteNotFound
	case fiber.StatusUnauthorized, fiber.StatusForbidden:
		return backend.TypeUnauthorized
	case fiber.StatusRequestEntityTooLarge:
		return backend.TypeFileTooLarge
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return backend.TypeArgumentInvalid
	case fiber.StatusInternalServerError:
		return backend.TypeServerError
	}
	return backend.TypeUnknown
}
