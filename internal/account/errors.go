package account

import (
	"errors"

	"github.com/binhbb2204/manga-catalog/internal/upload"
)

var (
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidUsername   = errors.New("username may only contain letters, digits, '.', '_' and '-'")
	ErrWeakPassword      = errors.New("password must be at least 6 characters")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrNotFound          = errors.New("user not found")
	ErrBadCredentials    = errors.New("invalid username or password")
	ErrInvalidCode       = errors.New("invalid status code")
	ErrAlreadySet        = errors.New("user already has this status")
	ErrNotInList         = errors.New("manga is not in the list")
	ErrInvalidOp         = errors.New("invalid list operation")
	ErrInvalidQuery      = errors.New("invalid query")
	ErrInvalidRole       = errors.New("invalid role")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrForbidden         = errors.New("insufficient permissions")
	ErrSelfDelete        = errors.New("admins cannot delete their own account")

	ErrBadFileType = upload.ErrBadFileType
	ErrTooLarge    = upload.ErrTooLarge
)
