package model

import (
	"errors"
	"fmt"
	"log"
	"regexp"

	"github.com/svera/snapgram/internal/backend"
	"gorm.io/gorm"
)

var (
	ErrInvalidAttribute = errors.New("invalid attribute")
	ErrCursorNotFound   = errors.New("cursor document not found")
)

const AttributePattern = `^[A-Za-z][A-Za-z0-9_]{0,63}$`

var attributeRegexp = regexp.MustCompile(AttributePattern)

// Filter keeps documents whose attribute equals any of values
type Filter struct {
	Attribute string
	Values    []any
}

type ListOptions struct {
	Filters []Filter
	// IDs, if not nil, restricts the listing to these documents
	IDs         []string
	OrderBy     string
	Desc        bool
	Limit       int
	CursorAfter string
}

type DocumentRepository struct {
	DB *gorm.DB
}

// Create stores doc, returning ErrDuplicated if its uuid is already taken in the collection
func (r *DocumentRepository) Create(doc *Document) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&Document{}).Where("database_id = ? AND collection_id = ? AND uuid = ?", doc.DatabaseID, doc.CollectionID, doc.Uuid).Count(&count)
		if count > 0 {
			return ErrDuplicated
		}
		revision, err := nextRevision(tx)
		if err != nil {
			return err
		}
		doc.Revision = revision
		return tx.Create(doc).Error
	})
	if err != nil && !errors.Is(err, ErrDuplicated) {
		log.Printf("error creating document: %s\n", err)
	}
	return err
}

func (r *DocumentRepository) Find(databaseID, collectionID, uuid string) (Document, error) {
	doc := Document{}
	result := r.DB.Where("database_id = ? AND collection_id = ? AND uuid = ?", databaseID, collectionID, uuid).Take(&doc)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		log.Printf("error retrieving document: %s\n", result.Error)
	}
	return doc, result.Error
}

// Update merges changes into the document attributes
func (r *DocumentRepository) Update(databaseID, collectionID, uuid string, changes map[string]any) (Document, error) {
	var doc Document
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("database_id = ? AND collection_id = ? AND uuid = ?", databaseID, collectionID, uuid).Take(&doc).Error; err != nil {
			return err
		}
		attributes, err := doc.Attributes()
		if err != nil {
			return err
		}
		for k, v := range changes {
			attributes[k] = v
		}
		if err := doc.SetAttributes(attributes); err != nil {
			return err
		}
		if doc.Revision, err = nextRevision(tx); err != nil {
			return err
		}
		return tx.Save(&doc).Error
	})
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("error updating document: %s\n", err)
	}
	return doc, err
}

// Delete removes a document, returning gorm.ErrRecordNotFound if there is none
func (r *DocumentRepository) Delete(databaseID, collectionID, uuid string) error {
	result := r.DB.Where("database_id = ? AND collection_id = ? AND uuid = ?", databaseID, collectionID, uuid).Delete(&Document{})
	if result.Error != nil {
		log.Printf("error deleting document: %s\n", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns a page of the documents in a collection matching opts, along
// with the total number of matching documents regardless of cursor and limit
func (r *DocumentRepository) List(databaseID, collectionID string, opts ListOptions) ([]Document, int64, error) {
	docs := []Document{}
	if opts.IDs != nil && len(opts.IDs) == 0 {
		return docs, 0, nil
	}

	query := r.DB.Model(&Document{}).Where("database_id = ? AND collection_id = ?", databaseID, collectionID)
	for _, filter := range opts.Filters {
		column, err := attributeColumn(filter.Attribute)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where(column+" IN ?", filter.Values)
	}
	if opts.IDs != nil {
		query = query.Where("uuid IN ?", opts.IDs)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("error counting documents: %s\n", err)
		return nil, 0, err
	}

	column, direction, comparison := "id", "ASC", ">"
	if opts.OrderBy != "" {
		var err error
		if column, err = attributeColumn(opts.OrderBy); err != nil {
			return nil, 0, err
		}
	}
	if opts.Desc {
		direction, comparison = "DESC", "<"
	}

	page := query
	if opts.CursorAfter != "" {
		cursor, err := r.Find(databaseID, collectionID, opts.CursorAfter)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrCursorNotFound
		}
		if err != nil {
			return nil, 0, err
		}
		key := fmt.Sprintf("(SELECT %s FROM documents WHERE id = ?)", column)
		page = page.Where(
			fmt.Sprintf("(%[1]s %[2]s %[3]s OR (%[1]s = %[3]s AND id %[2]s ?))", column, comparison, key),
			cursor.ID, cursor.ID, cursor.ID,
		)
	}

	result := page.Order(column + " " + direction).Order("id " + direction).Scopes(Limit(opts.Limit)).Find(&docs)
	if result.Error != nil {
		log.Printf("error listing documents: %s\n", result.Error)
		return nil, 0, result.Error
	}
	return docs, total, nil
}

// ValidAttribute reports whether name can be used as a document attribute
func ValidAttribute(name string) bool {
	return attributeRegexp.MatchString(name)
}

// attributeColumn maps a document attribute to the SQL expression holding its value
func attributeColumn(attribute string) (string, error) {
	switch attribute {
	case backend.AttrID:
		return "uuid", nil
	case backend.AttrCreatedAt:
		return "id", nil
	case backend.AttrUpdatedAt:
		return "revision", nil
	}
	if !ValidAttribute(attribute) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAttribute, attribute)
	}
	return fmt.Sprintf("json_extract(data, '$.%s')", attribute), nil
}

func nextRevision(tx *gorm.DB) (int64, error) {
	var revision int64
	err := tx.Model(&Document{}).Select("COALESCE(MAX(revision), 0)").Scan(&revision).Error
	return revision + 1, err
}
