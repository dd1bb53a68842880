package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/svera/snapgram/internal/backend"
)

type storage struct {
	client *Client
}

func (s storage) CreateFile(ctx context.Context, bucketID, fileID string, file backend.InputFile) (backend.File, error) {
	var created backend.File
	err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   []string{"storage", "buckets", bucketID, "files"},
		body: func(a *fiber.Agent) {
			args := fiber.AcquireArgs()
			defer fiber.ReleaseArgs(args)
			args.Set("fileId", fileID)
			a.FileData(&fiber.FormFile{Fieldname: "file", Name: file.Name, Content: file.Data}).MultipartForm(args)
		},
	}, &created)
	return created, err
}

func (s storage) DeleteFile(ctx context.Context, bucketID, fileID string) error {
	return s.client.do(ctx, request{
		method: http.MethodDelete,
		path:   []string{"storage", "buckets", bucketID, "files", fileID},
	}, nil)
}

// GetFilePreview builds the URL the preview is served at, without requesting it
func (s storage) GetFilePreview(bucketID, fileID string, opts backend.PreviewOptions) (*url.URL, error) {
	if bucketID == "" || fileID == "" {
		return nil, backend.ErrInvalidArgument("bucket and file IDs are required")
	}
	return s.client.url(url.Values{
		"width":   {fmt.Sprint(opts.Width)},
		"height":  {fmt.Sprint(opts.Height)},
		"gravity": {string(opts.Gravity)},
		"quality": {fmt.Sprint(opts.Quality)},
	}, "storage", "buckets", bucketID, "files", fileID, "preview"), nil
}

type avatars struct {
	client *Client
}

func (s avatars) GetInitials(name string) *url.URL {
	return s.client.url(url.Values{"name": {name}}, "avatars", "initials")
}
