package core

import "errors"

// Error codes for domain errors surfaced to the requesting client.
const (
	ErrCodeNotJoined      = "not_joined"
	ErrCodeBadRequest     = "bad_request"
	ErrCodeUnknownMessage = "invalid_message"
)

// ErrRoomNotFound is returned by admin queries for an unknown room.
var ErrRoomNotFound = errors.New("room not found")

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
