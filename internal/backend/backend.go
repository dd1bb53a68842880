// Package backend describes the contract between snapgram and the platform that
// stores its accounts, documents and files.
package backend

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// IDUnique asks the platform to generate a new identifier for the resource being created
const IDUnique = "unique()"

// System attributes every document carries
const (
	AttrID        = "$id"
	AttrCreatedAt = "$createdAt"
	AttrUpdatedAt = "$updatedAt"
)

// Config identifies the platform resources the application keeps its data in
type Config struct {
	Endpoint          string `env:"SNAPGRAM_ENDPOINT" env-default:"http://localhost:3000/v1"`
	DatabaseID        string `env:"SNAPGRAM_DATABASE_ID" env-default:"snapgram"`
	UserCollectionID  string `env:"SNAPGRAM_USER_COLLECTION_ID" env-default:"users"`
	PostCollectionID  string `env:"SNAPGRAM_POST_COLLECTION_ID" env-default:"posts"`
	SavesCollectionID string `env:"SNAPGRAM_SAVES_COLLECTION_ID" env-default:"saves"`
	StorageID         string `env:"SNAPGRAM_STORAGE_ID" env-default:"media"`
}

// LoadConfig reads the configuration from environment variables, falling back to defaults
func LoadConfig() (Config, error) {
	var cfg Config
	err := cleanenv.ReadEnv(&cfg)
	return cfg, err
}

type Account struct {
	ID        string    `json:"$id"`
	CreatedAt time.Time `json:"$createdAt"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
}

// Session is returned when an account signs in. Secret must be presented
// by the client on every request made on behalf of the account.
type Session struct {
	ID        string    `json:"$id"`
	AccountID string    `json:"userId"`
	Secret    string    `json:"secret"`
	Expire    time.Time `json:"expire"`
}

type Document struct {
	ID           string          `json:"$id"`
	CollectionID string          `json:"$collectionId"`
	DatabaseID   string          `json:"$databaseId"`
	CreatedAt    time.Time       `json:"$createdAt"`
	UpdatedAt    time.Time       `json:"$updatedAt"`
	Data         json.RawMessage `json:"data"`
}

// Decode unmarshals the document attributes into v
func (d Document) Decode(v any) error {
	if len(d.Data) == 0 {
		return nil
	}
	return json.Unmarshal(d.Data, v)
}

type DocumentList struct {
	Total     int        `json:"total"`
	Documents []Document `json:"documents"`
}

type File struct {
	ID        string    `json:"$id"`
	BucketID  string    `json:"bucketId"`
	CreatedAt time.Time `json:"$createdAt"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mimeType"`
	Size      int64     `json:"sizeOriginal"`
}

// InputFile holds the contents of a file to be uploaded
type InputFile struct {
	Name string
	Data []byte
}

type Gravity string

const (
	GravityCenter      Gravity = "center"
	GravityTop         Gravity = "top"
	GravityTopLeft     Gravity = "top-left"
	GravityTopRight    Gravity = "top-right"
	GravityLeft        Gravity = "left"
	GravityRight       Gravity = "right"
	GravityBottom      Gravity = "bottom"
	GravityBottomLeft  Gravity = "bottom-left"
	GravityBottomRight Gravity = "bottom-right"
)

// PreviewOptions controls how an image preview is cropped and encoded.
// A zero width or height keeps the aspect ratio of the original.
type PreviewOptions struct {
	Width   int
	Height  int
	Gravity Gravity
	Quality int
}

// Accounts manages the account bound to the client and its sessions
type Accounts interface {
	Create(ctx context.Context, id, email, password, name string) (Account, error)
	// Get returns the account owning the current session
	Get(ctx context.Context) (Account, error)
	CreateEmailSession(ctx context.Context, email, password string) (Session, error)
	// DeleteSession accepts "current" to close the session in use
	DeleteSession(ctx context.Context, sessionID string) error
}

// Databases gives access to the document store
type Databases interface {
	CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (Document, error)
	GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (Document, error)
	ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...Query) (DocumentList, error)
	// UpdateDocument merges data into the stored attributes
	UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data any) (Document, error)
	DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error
}

// Storage gives access to file buckets
type Storage interface {
	CreateFile(ctx context.Context, bucketID, fileID string, file InputFile) (File, error)
	DeleteFile(ctx context.Context, bucketID, fileID string) error
	GetFilePreview(bucketID, fileID string, opts PreviewOptions) (*url.URL, error)
}

type Avatars interface {
	GetInitials(name string) *url.URL
}

// Client groups every service the platform offers. Tests replace it with a fake.
type Client struct {
	Accounts  Accounts
	Databases Databases
	Storage   Storage
	Avatars   Avatars
}
