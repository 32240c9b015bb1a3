package app

import "errors"

// Error classes. Every error a service returns unwraps to exactly one of these.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal server error")
	ErrInvalidToken = errors.New("invalid token")
)

// Error carries a client-facing message, its class and an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind error, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func internalError(message string, err error) *Error {
	return wrapError(ErrInternal, message, err)
}

var (
	ErrInvalidPayload      = newError(ErrValidation, "invalid request payload")
	ErrAllFieldsRequired   = newError(ErrValidation, "all fields are required")
	ErrPasswordsRequired   = newError(ErrValidation, "old and new password are required")
	ErrIdentifierRequired  = newError(ErrValidation, "username or email is required")
	ErrAvatarRequired      = newError(ErrValidation, "avatar file is required")
	ErrCoverImageRequired  = newError(ErrValidation, "cover image file is required")
	ErrInvalidOldPassword  = newError(ErrValidation, "invalid old password")
	ErrUsernameRequired    = newError(ErrValidation, "username is missing")
	ErrSelfSubscription    = newError(ErrValidation, "cannot subscribe to your own channel")
	ErrUserExists          = newError(ErrConflict, "user with email or username already exists")
	ErrEmailTaken          = newError(ErrConflict, "email is already in use")
	ErrUserNotFound        = newError(ErrNotFound, "user does not exist")
	ErrChannelNotFound     = newError(ErrNotFound, "channel does not exist")
	ErrVideoNotFound       = newError(ErrNotFound, "video does not exist")
	ErrInvalidCredentials  = newError(ErrUnauthorized, "invalid user credentials")
	ErrUnauthorizedRequest = newError(ErrUnauthorized, "unauthorized request")
	ErrInvalidAccessToken  = newError(ErrUnauthorized, "invalid access token")
	ErrRefreshTokenReused  = newError(ErrUnauthorized, "refresh token is expired or used")
)
