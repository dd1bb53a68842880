package api

import (
	"context"
	"errors"

	"github.com/svera/snapgram/internal/backend"
	"go.uber.org/zap"
)

// SavePost records that userID saved postID
func (s *Service) SavePost(ctx context.Context, postID, userID string) (Save, error) {
	doc, err := s.client.Databases.CreateDocument(ctx, s.config.DatabaseID, s.config.SavesCollectionID, backend.IDUnique, saveAttributes{
		User: userID,
		Post: postID,
	})
	if err != nil {
		return Save{}, s.fail(opSavePost, err, zap.String("postId", postID), zap.String("userId", userID))
	}

	saved, err := saveFromDocument(doc)
	if err != nil {
		return Save{}, s.failWith(opSavePost, ReasonInvalid, err)
	}
	return saved, nil
}

func (s *Service) DeleteSavedPost(ctx context.Context, savedRecordID string) error {
	if err := s.client.Databases.DeleteDocument(ctx, s.config.DatabaseID, s.config.SavesCollectionID, savedRecordID); err != nil {
		return s.fail(opDeleteSavedPost, err, zap.String("savedRecordId", savedRecordID))
	}
	return nil
}

// GetSavedRecord finds the association created when userID saved postID
func (s *Service) GetSavedRecord(ctx context.Context, userID, postID string) (Save, error) {
	list, err := s.client.Databases.ListDocuments(ctx, s.config.DatabaseID, s.config.SavesCollectionID,
		backend.Equal("user", userID),
		backend.Equal("post", postID),
		backend.Limit(1),
	)
	if err != nil {
		return Save{}, s.fail(opGetSavedRecord, err, zap.String("postId", postID), zap.String("userId", userID))
	}
	if len(list.Documents) == 0 {
		return Save{}, &Error{Op: opGetSavedRecord, Reason: ReasonNotFound, Err: errors.New("post not saved")}
	}

	saved, err := saveFromDocument(list.Documents[0])
	if err != nil {
		return Save{}, s.failWith(opGetSavedRecord, ReasonInvalid, err)
	}
	return saved, nil
}
