package model

import (
	"path"
	"time"

	"github.com/svera/snapgram/internal/backend"
)

// File is the metadata of an uploaded file, whose contents live in the storage filesystem
type File struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	Uuid      string `gorm:"uniqueIndex:idx_file_key"`
	BucketID  string `gorm:"uniqueIndex:idx_file_key"`
	Name      string
	MimeType  string
	Size      int64
}

// Path returns where the file contents are stored, relative to the storage root
func (f File) Path() string {
	return path.Join(f.BucketID, f.Uuid)
}

func (f File) ToBackend() backend.File {
	return backend.File{
		ID:        f.Uuid,
		BucketID:  f.BucketID,
		CreatedAt: f.CreatedAt,
		Name:      f.Name,
		MimeType:  f.MimeType,
		Size:      f.Size,
	}
}
