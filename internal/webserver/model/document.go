package model

import (
	"encoding/json"
	"time"

	"github.com/svera/snapgram/internal/backend"
)

// Document is a schemaless JSON object stored in a collection of a database
type Document struct {
	ID           uint `gorm:"primarykey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Uuid         string `gorm:"uniqueIndex:idx_document_key"`
	DatabaseID   string `gorm:"uniqueIndex:idx_document_key"`
	CollectionID string `gorm:"uniqueIndex:idx_document_key;index"`
	// Revision grows on every write across all documents, so it orders them by update
	Revision int64 `gorm:"index"`
	Data     string
}

func (d Document) Attributes() (map[string]any, error) {
	attributes := map[string]any{}
	if d.Data == "" {
		return attributes, nil
	}
	err := json.Unmarshal([]byte(d.Data), &attributes)
	return attributes, err
}

func (d *Document) SetAttributes(attributes map[string]any) error {
	data, err := json.Marshal(attributes)
	if err != nil {
		return err
	}
	d.Data = string(data)
	return nil
}

func (d Document) ToBackend() backend.Document {
	data := d.Data
	if data == "" {
		data = "{}"
	}
	return backend.Document{
		ID:           d.Uuid,
		CollectionID: d.CollectionID,
		DatabaseID:   d.DatabaseID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		Data:         json.RawMessage(data),
	}
}
