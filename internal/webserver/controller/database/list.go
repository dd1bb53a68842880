package database

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/svera/snapgram/internal/backend"
	"github.com/svera/snapgram/internal/webserver/model"
)

// List returns the documents of a collection narrowed, sorted and paginated
// by the JSON encoded queries sent as queries[] parameters
func (d *Controller) List(c *fiber.Ctx) error {
	databaseID, collectionID := c.Params("database"), c.Params("collection")

	opts, err := d.listOptions(c, databaseID, collectionID)
	if err != nil {
		return err
	}

	docs, total, err := d.repository.List(databaseID, collectionID, opts)
	if errors.Is(err, model.ErrCursorNotFound) {
		return backend.NewError(fiber.StatusBadRequest, backend.TypeQueryInvalid, fmt.Sprintf("Document '%s' for the 'cursor' value not found.", opts.CursorAfter))
	}
	if errors.Is(err, model.ErrInvalidAttribute) {
		return backend.NewError(fiber.StatusBadRequest, backend.TypeQueryInvalid, err.Error())
	}
	if err != nil {
		return fiber.ErrInternalServerError
	}

	list := backend.DocumentList{
		Total:     int(total),
		Documents: make([]backend.Document, len(docs)),
	}
	for i := range docs {
		list.Documents[i] = docs[i].ToBackend()
	}
	return c.JSON(list)
}

func (d *Controller) listOptions(c *fiber.Ctx, databaseID, collectionID string) (model.ListOptions, error) {
	var opts model.ListOptions

	for _, raw := range c.Context().QueryArgs().PeekMulti("queries[]") {
		q, err := backend.ParseQuery(string(raw))
		if err != nil {
			return opts, backend.NewError(fiber.StatusBadRequest, backend.TypeQueryInvalid, err.Error())
		}

		switch q.Method {
		case backend.MethodEqual:
			opts.Filters = append(opts.Filters, model.Filter{Attribute: q.Attribute, Values: q.Values})
		case backend.MethodSearch:
			terms, _ := q.Text()
			ids, err := d.idx.Search(databaseID, collectionID, q.Attribute, terms)
			if err != nil {
				log.Errorf("error searching documents: %s", err)
				return opts, fiber.ErrInternalServerError
			}
			opts.IDs = intersect(opts.IDs, ids)
		case backend.MethodOrderAsc, backend.MethodOrderDesc:
			opts.OrderBy = q.Attribute
			opts.Desc = q.Method == backend.MethodOrderDesc
		case backend.MethodLimit:
			opts.Limit, _ = q.Int()
		case backend.MethodCursorAfter:
			opts.CursorAfter, _ = q.Text()
		}
	}

	return opts, nil
}

// intersect narrows the IDs already allowed, nil meaning any
func intersect(allowed, ids []string) []string {
	if allowed == nil {
		return ids
	}
	found := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		found[id] = struct{}{}
	}
	both := []string{}
	for _, id := range allowed {
		if _, ok := found[id]; ok {
			both = append(both, id)
		}
	}
	return both
}
