package api

import (
	"context"
	"errors"

	"github.com/svera/snapgram/internal/backend"
	"go.uber.org/zap"
)

func (s *Service) UploadFile(ctx context.Context, file backend.InputFile) (backend.File, error) {
	uploaded, err := s.client.Storage.CreateFile(ctx, s.config.StorageID, backend.IDUnique, file)
	if err != nil {
		return backend.File{}, s.fail(opUploadFile, err, zap.String("name", file.Name))
	}
	return uploaded, nil
}

// GetFilePreview returns the URL of a square, top anchored preview of an uploaded image
func (s *Service) GetFilePreview(fileID string) (string, error) {
	if fileID == "" {
		return "", s.failWith(opGetFilePreview, ReasonInvalid, errors.New("file ID is required"))
	}

	fileURL, err := s.client.Storage.GetFilePreview(s.config.StorageID, fileID, backend.PreviewOptions{
		Width:   previewSize,
		Height:  previewSize,
		Gravity: backend.GravityTop,
		Quality: previewQuality,
	})
	if err != nil {
		return "", s.fail(opGetFilePreview, err, zap.String("fileId", fileID))
	}
	return fileURL.String(), nil
}

func (s *Service) DeleteFile(ctx context.Context, fileID string) error {
	if err := s.client.Storage.DeleteFile(ctx, s.config.StorageID, fileID); err != nil {
		return s.fail(opDeleteFile, err, zap.String("fileId", fileID))
	}
	return nil
}

// discardFile removes a file that is no longer referenced by any document.
// Failures are logged only, the caller is already reporting its own.
func (s *Service) discardFile(ctx context.Context, fileID string) {
	if err := s.DeleteFile(context.WithoutCancel(ctx), fileID); err != nil {
		s.logger.Warn("file left behind", zap.String("fileId", fileID))
	}
}
