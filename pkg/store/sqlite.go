package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/binhbb2204/manga-catalog/pkg/database"
	"github.com/binhbb2204/manga-catalog/pkg/logger"
)

// SQLiteStore keeps documents in a single records(kind, id, data) table.
// Each Save is an upsert, so a single write is atomic per key.
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, log: logger.WithContext("component", "sqlite_store")}, nil
}

func (s *SQLiteStore) Load(kind Kind, id string, v interface{}) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	var data string
	err := s.db.QueryRow(`SELECT data FROM records WHERE kind = ? AND id = ?`, string(kind), id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read %s record %q: %w", kind, id, err)
	}
	return decode(kind, id, []byte(data), v)
}

func (s *SQLiteStore) Save(kind Kind, id string, v interface{}) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	data, err := encode(v)
	if err != nil {
		return err
	}
	query := `INSERT INTO records (kind, id, data, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	          ON CONFLICT(kind, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`
	if _, err := s.db.Exec(query, string(kind), id, string(data)); err != nil {
		return fmt.Errorf("failed to write %s record %q: %w", kind, id, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(kind Kind, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	res, err := s.db.Exec(`DELETE FROM records WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s record %q: %w", kind, id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Exists(kind Kind, id string) (bool, error) {
	if err := ValidateID(id); err != nil {
		return false, err
	}
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM records WHERE kind = ? AND id = ?)`, string(kind), id).Scan(&exists)
	return exists, err
}

func (s *SQLiteStore) List(kind Kind) ([]Record, error) {
	rows, err := s.db.Query(`SELECT id, data FROM records WHERE kind = ? ORDER BY id`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			s.log.Warn("record_unreadable", "kind", string(kind), "error", err.Error())
			continue
		}
		if !json.Valid([]byte(data)) {
			s.log.Warn("record_unparsable", "kind", string(kind), "id", id)
			continue
		}
		records = append(records, Record{ID: id, Data: []byte(data)})
	}
	return records, rows.Err()
}

// Exec runs a raw statement; tests use it to plant corrupt rows.
func (s *SQLiteStore) Exec(query string, args ...interface{}) error {
	_, err := s.db.Exec(query, args...)
	return err
}

func (s *SQLiteStore) Ping() error  { return s.db.Ping() }
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Open returns the backend named by driver ("file" or "sqlite").
func Open(driver, dataDir, dbPath string) (Store, error) {
	switch driver {
	case "", "file":
		return NewFileStore(dataDir)
	case "sqlite":
		return NewSQLiteStore(dbPath)
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}
