package catalog

import (
	"errors"

	"github.com/binhbb2204/manga-catalog/internal/upload"
)

var (
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5 in steps of 0.5")
	ErrInvalidID       = errors.New("manga id must be 11 digits")
	ErrDuplicateID     = errors.New("manga with this id already exists")
	ErrUploadFailed    = errors.New("failed to store cover image")
	ErrNotFound        = errors.New("manga not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("only mangaka and admins can add manga")

	ErrBadFileType = upload.ErrBadFileType
	ErrTooLarge    = upload.ErrTooLarge
)
