package test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/binhbb2204/manga-catalog/internal/account"
)

func TestSetAvatarRejectsOversize(t *testing.T) {
	f, cleanup := setupAccountTest(t)
	defer cleanup()
	if _, err := f.svc.Register("alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	first, err := f.svc.SetAvatar("alice", pngBytes, "image/png")
	if err != nil {
		t.Fatalf("set avatar: %v", err)
	}

	big := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, 6<<20)...)
	if _, err := f.svc.SetAvatar("alice", big, "image/png"); !errors.Is(err, account.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	u, _ := f.svc.GetProfile("alice")
	if u.Profile.Avatar != first.Profile.Avatar {
		t.Errorf("avatar changed after rejection: %s", u.Profile.Avatar)
	}
}

func TestSetAvatarRejectsText(t *testing.T) {
	f, cleanup := setupAccountTest(t)
	defer cleanup()
	if _, err := f.svc.Register("alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := f.svc.SetAvatar("alice", []byte("hello"), "text/plain"); !errors.Is(err, account.ErrBadFileType) {
		t.Fatalf("expected ErrBadFileType, got %v", err)
	}
	u, _ := f.svc.GetProfile("alice")
	if u.Profile.Avatar != "" {
		t.Errorf("avatar changed after rejection: %s", u.Profile.Avatar)
	}
}

func TestSetAvatarValidatesBeforeLookup(t *testing.T) {
	f, cleanup := setupAccountTest(t)
	defer cleanup()

	if _, err := f.svc.SetAvatar("ghost", []byte("hello"), "text/plain"); !errors.Is(err, account.ErrBadFileType) {
		t.Errorf("expected ErrBadFileType, got %v", err)
	}
	if _, err := f.svc.SetAvatar("ghost", pngBytes, "image/png"); !errors.Is(err, account.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetAvatarReplacesPreviousFile(t *testing.T) {
	f, cleanup := setupAccountTest(t)
	defer cleanup()
	if _, err := f.svc.Register("alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	first, err := f.svc.SetAvatar("alice", pngBytes, "image/png")
	if err != nil {
		t.Fatalf("first avatar: %v", err)
	}
	firstPath := filepath.Join(f.avatarDir, strings.TrimPrefix(first.Profile.Avatar, "/uploads/avatars/"))
	if _, err := os.Stat(firstPath); err != nil {
		t.Fatalf("first avatar not written: %v", err)
	}
	if !strings.HasSuffix(first.Profile.Avatar, ".png") {
		t.Errorf("expected .png avatar, got %s", first.Profile.Avatar)
	}

	second, err := f.svc.SetAvatar("alice", pngBytes, "image/png")
	if err != nil {
		t.Fatalf("second avatar: %v", err)
	}
	if second.Profile.Avatar == first.Profile.Avatar {
		t.Fatal("expected a new avatar name")
	}
	if _, err := os.Stat(firstPath); !os.IsNotExist(err) {
		t.Errorf("previous avatar not removed: %v", err)
	}
}
