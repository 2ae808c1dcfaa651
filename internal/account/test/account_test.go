package test

import (
	"errors"
	"testing"

	"github.com/binhbb2204/manga-catalog/internal/account"
	"github.com/binhbb2204/manga-catalog/internal/events"
	"github.com/binhbb2204/manga-catalog/pkg/models"
)

func TestRegisterDefaults(t *testing.T) {
	f, cleanup := setupAccountTest(t)
	defer cleanup()

	u, err := f.svc.Register("alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != models.RoleUser {
		t.Errorf("expected role user, got %s", u.Role)
	}
	if len(u.Bookmarks) != 0 || len(u.Read) != 0 || u.Profile.Avatar != "" {
		t.Errorf("expected empty defaults, got %+v", u)
	}
	if u.PasswordHash == "secret1" {
		t.Error("password stored in plaintext")
	}
	if len(f.events.types) != 1 || f.events.types[0] != events.TypeUserRegistered {
		t.Errorf("expected user_registered event, got %v", f.events.types)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	f, cleanup := setupAccountTest(t)
	defer cleanup()

	if _, err := f.svc.Register("alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := f.svc.Register("alice", "other@example.com", "secret1"); !errors.Is(err, account.ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
	if _, err := f.svc.Register("bob", "alice@example.com", "secret1"); !errors.Is(err, account.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
	// usernames are case-sensitive keys
	if _, err := f.svc.Register("Alice2", "alice2@example.com", "secret1"); err != nil {
		t.Errorf("unexpected error for distinct username: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	f, cleanup := setupAccountTest(t)
	defer cleanup()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     error
	}{
		{"missing username", "", "a@example.com", "secret1", account.ErrMissingField},
		{"missing email", "a", "", "secret1", account.ErrMissingField},
		{"missing password", "a", "a@example.com", "", account.ErrMissingField},
		{"short password", "a", "a@example.com", "12345", account.ErrWeakPassword},
		{"bad email", "a", "not-an-email", "secret1", account.ErrInvalidEmail},
		{"path in username", "../a", "a@example.com", "secret1", account.ErrInvalidUsername},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Register(tt.username, tt.email, tt.password); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	f, cleanup := setupAccountTest(t)
	defer cleanup()

	if _, err := f.svc.Register("alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := f.svc.Authenticate("alice", "secret1"); err != nil {
		t.Errorf("expected success, got %v", err)
	}
	if _, err := f.svc.Authenticate("alice", "wrong-password"); !errors.Is(err, account.ErrBadCredentials) {
		t.Errorf("expected ErrBadCredentials, got %v", err)
	}
	if _, err := f.svc.Authenticate("nobody", "secret1"); !errors.Is(err, account.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	f, cleanup := setupAccountTest(t)
	defer cleanup()

	if _, err := f.svc.Register("alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := f.svc.ChangePassword("alice", "wrong", "secret2"); !errors.Is(err, account.ErrBadCredentials) {
		t.Errorf("expected ErrBadCredentials, got %v", err)
	}
	if err := f.svc.ChangePassword("alice", "secret1", "123"); !errors.Is(err, account.ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
	if err := f.svc.ChangePassword("alice", "secret1", "secret2"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := f.svc.Authenticate("alice", "secret2"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestChangeRole(t *testing.T) {
	f, cleanup := setupAccountTest(t)
	defer cleanup()

	if _, err := f.svc.Register("alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := f.svc.ChangeRole("alice", "NOPE"); !errors.Is(err, account.ErrInvalidCode) {
		t.Errorf("expected ErrInvalidCode, got %v", err)
	}
	u, err := f.svc.ChangeRole("alice", "ADMIN-2025")
	if err != nil {
		t.Fatalf("change role: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Fatalf("expected admin, got %s", u.Role)
	}
	if _, err := f.svc.ChangeRole("alice", "ADMIN-2025"); !errors.Is(err, account.ErrAlreadySet) {
		t.Errorf("expected ErrAlreadySet, got %v", err)
	}
	stored, _ := f.svc.GetProfile("alice")
	if stored.Role != models.RoleAdmin {
		t.Errorf("role changed on AlreadySet: %s", stored.Role)
	}
	if _, err := f.svc.ChangeRole("ghost", "ADMIN-2025"); !errors.Is(err, account.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestToggleBookmarkIdempotentAdd(t *testing.T) {
	f, cleanup := setupAccountTest(t)
	defer cleanup()
	if _, err := f.svc.Register("alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	ids, changed, err := f.svc.ToggleBookmark("alice", "12345678901", account.OpAdd)
	if err != nil || !changed || len(ids) != 1 {
		t.Fatalf("first add: ids=%v changed=%v err=%v", ids, changed, err)
	}
	ids, changed, err = f.svc.ToggleBookmark("alice", "12345678901", account.OpAdd)
	if err != nil || changed || len(ids) != 1 {
		t.Fatalf("second add: ids=%v changed=%v err=%v", ids, changed, err)
	}
	stored, _ := f.svc.Bookmarks("alice")
	if len(stored) != 1 {
		t.Errorf("expected 1 stored bookmark, got %v", stored)
	}
}

func TestToggleRemoveAbsent(t *testing.T) {
	f, cleanup := setupAccountTest(t)
	defer cleanup()
	if _, err := f.svc.Register("alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := f.svc.ToggleRead("alice", "11111111111", account.OpAdd); err != nil {
		t.Fatalf("add: %v", err)
	}

	ids, changed, err := f.svc.ToggleRead("alice", "22222222222", account.OpRemove)
	if !errors.Is(err, account.ErrNotInList) {
		t.Fatalf("expected ErrNotInList, got %v", err)
	}
	if changed || len(ids) != 1 || ids[0] != "11111111111" {
		t.Errorf("unexpected result ids=%v changed=%v", ids, changed)
	}
	stored, _ := f.svc.ReadList("alice")
	if len(stored) != 1 {
		t.Errorf("stored read list altered: %v", stored)
	}
	bookmarks, _ := f.svc.Bookmarks("alice")
	if len(bookmarks) != 0 {
		t.Errorf("read list and bookmarks are not independent: %v", bookmarks)
	}

	ids, changed, err = f.svc.ToggleRead("alice", "11111111111", account.OpRemove)
	if err != nil || !changed || len(ids) != 0 {
		t.Errorf("remove present: ids=%v changed=%v err=%v", ids, changed, err)
	}
}

func TestToggleErrors(t *testing.T) {
	f, cleanup := setupAccountTest(t)
	defer cleanup()

	if _, _, err := f.svc.ToggleBookmark("ghost", "1", account.OpAdd); !errors.Is(err, account.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := f.svc.ToggleBookmark("ghost", "", account.OpAdd); !errors.Is(err, account.ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
	if _, _, err := f.svc.ToggleBookmark("ghost", "1", account.ListOp("flip")); !errors.Is(err, account.ErrInvalidOp) {
		t.Errorf("expected ErrInvalidOp, got %v", err)
	}
}
