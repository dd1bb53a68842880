// Package api is the data access layer of snapgram. Every operation maps to a
// single platform call, or to a short sequence of calls that compensates its
// own partial failures.
package api

import (
	"errors"

	"github.com/svera/snapgram/internal/backend"
	"go.uber.org/zap"
)

// PostsPerPage is the size of every page of the recent posts listing
const PostsPerPage = 6

// Preview geometry used for post images
const (
	previewSize    = 2000
	previewQuality = 100
)

const (
	opCreateUserAccount = "create user account"
	opSaveUserToDB      = "save user to db"
	opSignInAccount     = "sign in account"
	opSignOutAccount    = "sign out account"
	opGetCurrentUser    = "get current user"
	opGetUserByID       = "get user by id"
	opCreatePost        = "create post"
	opUploadFile        = "upload file"
	opGetFilePreview    = "get file preview"
	opDeleteFile        = "delete file"
	opGetRecentPosts    = "get recent posts"
	opGetInfinitePosts  = "get infinite posts"
	opSearchPosts       = "search posts"
	opLikePost          = "like post"
	opSavePost          = "save post"
	opDeleteSavedPost   = "delete saved post"
	opGetSavedRecord    = "get saved record"
	opGetPostByID       = "get post by id"
	opUpdatePost        = "update post"
	opDeletePost        = "delete post"
)

// Service is stateless apart from its injected collaborators and is safe for concurrent use
type Service struct {
	client backend.Client
	config backend.Config
	logger *zap.Logger
}

func New(client backend.Client, cfg backend.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// fail logs err once and wraps it into an *Error for op. Errors already
// wrapped by a nested operation are returned untouched.
func (s *Service) fail(op string, err error, fields ...zap.Field) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return s.failWith(op, classify(err), err, fields...)
}

func (s *Service) failWith(op string, reason Reason, err error, fields ...zap.Field) error {
	s.logger.Error("operation failed",
		append([]zap.Field{
			zap.String("op", op),
			zap.Stringer("reason", reason),
			zap.Error(err),
		}, fields...)...,
	)
	return &Error{Op: op, Reason: reason, Err: err}
}
