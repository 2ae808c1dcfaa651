// Package store persists domain records as JSON documents keyed by kind and
// id. Writes replace the whole document; there is no cross-request locking,
// so concurrent writers to one id race and the last write wins.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/binhbb2204/manga-catalog/pkg/logger"
)

type Kind string

const (
	KindUser  Kind = "users"
	KindManga Kind = "manga"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid record id")
)

// Record is one raw stored document.
type Record struct {
	ID   string
	Data []byte
}

type Store interface {
	Load(kind Kind, id string, v interface{}) error
	Save(kind Kind, id string, v interface{}) error
	Delete(kind Kind, id string) error
	Exists(kind Kind, id string) (bool, error)
	// List returns every parseable document of kind. Unreadable or non-JSON
	// documents are logged and skipped.
	List(kind Kind) ([]Record, error)
	Ping() error
	Close() error
}

// ValidateID rejects ids that could escape a kind's namespace on disk.
func ValidateID(id string) error {
	if id == "" || id == "." || id == ".." || len(id) > 128 {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}
	if strings.HasPrefix(id, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// LoadAll decodes every document of kind into T, skipping documents that do
// not decode.
func LoadAll[T any](s Store, kind Kind) ([]T, error) {
	records, err := s.List(kind)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(records))
	for _, rec := range records {
		var v T
		if err := json.Unmarshal(rec.Data, &v); err != nil {
			logger.Warn("store_record_skipped", "kind", string(kind), "id", rec.ID, "error", err.Error())
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func encode(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return data, nil
}

func decode(kind Kind, id string, data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("corrupt %s record %q: %w", kind, id, err)
	}
	return nil
}
