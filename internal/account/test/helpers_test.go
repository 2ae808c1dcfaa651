package test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/binhbb2204/manga-catalog/internal/account"
	"github.com/binhbb2204/manga-catalog/internal/upload"
	"github.com/binhbb2204/manga-catalog/pkg/config"
	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/binhbb2204/manga-catalog/pkg/models"
	"github.com/binhbb2204/manga-catalog/pkg/store"
)

func init() {
	logger.Init(logger.ERROR, false, nil)
}

// pngBytes is a 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

type recorder struct {
	types []string
}

func (r *recorder) Publish(eventType, message string, data interface{}) {
	r.types = append(r.types, eventType)
}

type fixture struct {
	svc       *account.Service
	store     store.Store
	avatarDir string
	events    *recorder
}

func setupAccountTest(t *testing.T) (*fixture, func()) {
	t.Helper()
	tmp := t.TempDir()
	st, err := store.NewFileStore(filepath.Join(tmp, "database"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	avatarDir := filepath.Join(tmp, "uploads", "avatars")
	rec := &recorder{}
	svc := account.NewService(st, upload.NewDir(avatarDir, "/uploads/avatars"), config.DefaultStatusCodes(), rec)
	return &fixture{svc: svc, store: st, avatarDir: avatarDir, events: rec}, func() { st.Close() }
}

// seedUser writes a user record directly, bypassing registration.
func seedUser(t *testing.T, st store.Store, username string, role models.Role, createdAt time.Time) {
	t.Helper()
	u := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         role,
		CreatedAt:    createdAt,
		Bookmarks:    []string{},
		Read:         []string{},
	}
	if err := st.Save(store.KindUser, username, &u); err != nil {
		t.Fatalf("seed %s: %v", username, err)
	}
}
