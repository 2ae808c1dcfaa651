package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/binhbb2204/manga-catalog/pkg/logger"
)

const fileExt = ".json"

// FileStore keeps one JSON file per record under root/<kind>/<id>.json.
type FileStore struct {
	root string
	log  *logger.Logger
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", root, err)
	}
	return &FileStore{
		root: root,
		log:  logger.WithContext("component", "file_store"),
	}, nil
}

func (s *FileStore) dir(kind Kind) (string, error) {
	d := filepath.Join(s.root, string(kind))
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", kind, err)
	}
	return d, nil
}

func (s *FileStore) path(kind Kind, id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	d, err := s.dir(kind)
	if err != nil {
		return "", err
	}
	return filepath.Join(d, id+fileExt), nil
}

func (s *FileStore) Load(kind Kind, id string, v interface{}) error {
	p, err := s.path(kind, id)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read %s record %q: %w", kind, id, err)
	}
	return decode(kind, id, data, v)
}

// Save writes to a temp file in the same directory and renames it over the
// target, so readers never observe a partially written document.
func (s *FileStore) Save(kind Kind, id string, v interface{}) error {
	p, err := s.path(kind, id)
	if err != nil {
		return err
	}
	data, err := encode(v)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "."+id+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s record %q: %w", kind, id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s record %q: %w", kind, id, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s record %q: %w", kind, id, err)
	}
	return nil
}

func (s *FileStore) Delete(kind Kind, id string) error {
	p, err := s.path(kind, id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s record %q: %w", kind, id, err)
	}
	return nil
}

func (s *FileStore) Exists(kind Kind, id string) (bool, error) {
	p, err := s.path(kind, id)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *FileStore) List(kind Kind) ([]Record, error) {
	d, err := s.dir(kind)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
			continue
		}
		id := strings.TrimSuffix(name, fileExt)
		data, err := os.ReadFile(filepath.Join(d, name))
		if err != nil {
			s.log.Warn("record_unreadable", "kind", string(kind), "id", id, "error", err.Error())
			continue
		}
		if !json.Valid(data) {
			s.log.Warn("record_unparsable", "kind", string(kind), "id", id)
			continue
		}
		records = append(records, Record{ID: id, Data: data})
	}
	return records, nil
}

func (s *FileStore) Ping() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.root)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
