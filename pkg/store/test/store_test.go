package test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/binhbb2204/manga-catalog/pkg/store"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func init() {
	logger.Init(logger.ERROR, false, nil)
}

func backends(t *testing.T) map[string]store.Store {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	sq, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	t.Cleanup(func() { sq.Close() })
	return map[string]store.Store{"file": fs, "sqlite": sq}
}

func TestStoreContract(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.Save(store.KindUser, "alice", doc{Name: "alice", Count: 1}); err != nil {
				t.Fatalf("save: %v", err)
			}
			var got doc
			if err := st.Load(store.KindUser, "alice", &got); err != nil {
				t.Fatalf("load: %v", err)
			}
			if got.Name != "alice" || got.Count != 1 {
				t.Errorf("unexpected doc %+v", got)
			}

			if err := st.Save(store.KindUser, "alice", doc{Name: "alice", Count: 2}); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			st.Load(store.KindUser, "alice", &got)
			if got.Count != 2 {
				t.Errorf("overwrite not applied, count=%d", got.Count)
			}

			ok, err := st.Exists(store.KindUser, "alice")
			if err != nil || !ok {
				t.Errorf("exists = %v, %v", ok, err)
			}
			ok, _ = st.Exists(store.KindManga, "alice")
			if ok {
				t.Error("kinds must not share a namespace")
			}

			if err := st.Delete(store.KindUser, "alice"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if err := st.Load(store.KindUser, "alice", &got); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("expected ErrNotFound after delete, got %v", err)
			}
			if err := st.Delete(store.KindUser, "alice"); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("expected ErrNotFound on second delete, got %v", err)
			}
		})
	}
}

func TestStoreRejectsUnsafeIDs(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"", "..", "../etc", "a/b", ".hidden", "bad id"} {
				if err := st.Save(store.KindUser, id, doc{}); !errors.Is(err, store.ErrInvalidID) {
					t.Errorf("save %q: expected ErrInvalidID, got %v", id, err)
				}
			}
		})
	}
}

func TestStoreListAndLoadAll(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, n := range []string{"c", "a", "b"} {
				st.Save(store.KindManga, n, doc{Name: n})
			}
			records, err := st.List(store.KindManga)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(records) != 3 || records[0].ID != "a" || records[2].ID != "c" {
				t.Errorf("unexpected records %+v", records)
			}

			docs, err := store.LoadAll[doc](st, store.KindManga)
			if err != nil || len(docs) != 3 {
				t.Fatalf("load all: %d, %v", len(docs), err)
			}

			empty, err := store.LoadAll[doc](st, store.KindUser)
			if err != nil || len(empty) != 0 {
				t.Errorf("expected empty kind, got %d, %v", len(empty), err)
			}
		})
	}
}

func TestFileStoreSkipsCorruptDocuments(t *testing.T) {
	root := t.TempDir()
	st, err := store.NewFileStore(root)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	st.Save(store.KindUser, "good", doc{Name: "good"})
	if err := os.WriteFile(filepath.Join(root, "users", "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	os.WriteFile(filepath.Join(root, "users", "notes.txt"), []byte("ignored"), 0o644)

	records, err := st.List(store.KindUser)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].ID != "good" {
		t.Errorf("expected only the good record, got %+v", records)
	}

	var d doc
	if err := st.Load(store.KindUser, "broken", &d); err == nil {
		t.Error("expected decode error loading corrupt record")
	}
}

func TestSQLiteStoreSkipsCorruptRows(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	defer st.Close()

	st.Save(store.KindUser, "good", doc{Name: "good"})
	if err := st.Exec(`INSERT INTO records (kind, id, data) VALUES (?, ?, ?)`, "users", "broken", "{not json"); err != nil {
		t.Fatalf("plant corrupt row: %v", err)
	}
	docs, err := store.LoadAll[doc](st, store.KindUser)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "good" {
		t.Errorf("expected only the good record, got %+v", docs)
	}
}

func TestOpen(t *testing.T) {
	st, err := store.Open("file", t.TempDir(), "")
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	if err := st.Ping(); err != nil {
		t.Errorf("ping: %v", err)
	}

	st, err = store.Open("sqlite", "", filepath.Join(t.TempDir(), "db", "catalog.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer st.Close()
	if err := st.Ping(); err != nil {
		t.Errorf("ping: %v", err)
	}

	if _, err := store.Open("redis", "", ""); err == nil {
		t.Error("expected error for unknown driver")
	}
}
