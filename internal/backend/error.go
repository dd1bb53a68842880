package backend

import (
	"fmt"
	"net/http"
)

// Error types sent by the platform
const (
	TypeUnknown               = "general_unknown"
	TypeArgumentInvalid       = "general_argument_invalid"
	TypeQueryInvalid          = "general_query_invalid"
	TypeRouteNotFound         = "general_route_not_found"
	TypeServerError           = "general_server_error"
	TypeUnauthorized          = "user_unauthorized"
	TypeInvalidCredentials    = "user_invalid_credentials"
	TypeUserAlreadyExists     = "user_already_exists"
	TypeUserNotFound          = "user_not_found"
	TypeSessionNotFound       = "user_session_not_found"
	TypeDocumentNotFound      = "document_not_found"
	TypeDocumentAlreadyExists = "document_already_exists"
	TypeFileNotFound          = "storage_file_not_found"
	TypeFileAlreadyExists     = "storage_file_already_exists"
	TypeFileTypeUnsupported   = "storage_file_type_unsupported"
	TypeFileTooLarge          = "storage_invalid_file_size"
	TypeImageUnsupported      = "storage_image_unsupported"
)

// Error is the failure payload returned by the platform
type Error struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(code int, errorType, message string) *Error {
	return &Error{Code: code, Type: errorType, Message: message}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Type, e.Code, e.Message)
}

func ErrDocumentNotFound() *Error {
	return NewError(http.StatusNotFound, TypeDocumentNotFound, "Document with the requested ID could not be found.")
}

func ErrFileNotFound() *Error {
	return NewError(http.StatusNotFound, TypeFileNotFound, "The requested file could not be found.")
}

func ErrUnauthorized() *Error {
	return NewError(http.StatusUnauthorized, TypeUnauthorized, "The current user is not authorized to perform the requested action.")
}

func ErrInvalidArgument(message string) *Error {
	return NewError(http.StatusBadRequest, TypeArgumentInvalid, message)
}
