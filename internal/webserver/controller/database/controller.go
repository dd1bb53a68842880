package database

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/webserver/model"
	"gorm.io/gorm"
)

type documentRepository interface {
	Create(doc *model.Document) error
	Find(databaseID, collectionID, uuid string) (model.Document, error)
	Update(databaseID, collectionID, uuid string, changes map[string]any) (model.Document, error)
	Delete(databaseID, collectionID, uuid string) error
	List(databaseID, collectionID string, opts model.ListOptions) ([]model.Document, int64, error)
}

type idx interface {
	Index(databaseID, collectionID, documentID string, attributes map[string]any) error
	Remove(databaseID, collectionID, documentID string) error
	Search(databaseID, collectionID, attribute, terms string) ([]string, error)
}

type Controller struct {
	repository documentRepository
	idx        idx
}

func NewController(repository documentRepository, idx idx) *Controller {
	return &Controller{
		repository: repository,
		idx:        idx,
	}
}

type documentRequest struct {
	DocumentID string         `json:"documentId"`
	Data       map[string]any `json:"data"`
}

// attributes checks and sanitizes the attributes sent by a client
func attributes(data map[string]any) (map[string]any, error) {
	if data == nil {
		return nil, backend.NewError(fiber.StatusBadRequest, backend.TypeArgumentInvalid, "Param \"data\" is not a valid JSON object.")
	}
	for name := range data {
		if !model.ValidAttribute(name) {
			return nil, backend.NewError(fiber.StatusBadRequest, backend.TypeArgumentInvalid, fmt.Sprintf("Invalid document structure: Unknown attribute: %q.", name))
		}
	}
	return model.Sanitize(data).(map[string]any), nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return backend.ErrDocumentNotFound()
	}
	return fiber.ErrInternalServerError
}
