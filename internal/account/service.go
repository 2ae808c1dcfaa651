// Package account implements user accounts: registration, credentials,
// profiles, reading lists, role upgrades and the admin-only operations
// over all accounts. Every call re-reads the records it needs from the
// store.
package account

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/binhbb2204/manga-catalog/internal/events"
	"github.com/binhbb2204/manga-catalog/internal/upload"
	"github.com/binhbb2204/manga-catalog/pkg/config"
	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/binhbb2204/manga-catalog/pkg/metrics"
	"github.com/binhbb2204/manga-catalog/pkg/models"
	"github.com/binhbb2204/manga-catalog/pkg/store"
	"github.com/binhbb2204/manga-catalog/pkg/utils"
	"github.com/google/uuid"
)

const minPasswordLength = 6

type Service struct {
	store   store.Store
	avatars *upload.Dir
	codes   config.StatusCodes
	events  events.Publisher
	log     *logger.Logger
	now     func() time.Time
}

func NewService(st store.Store, avatars *upload.Dir, codes config.StatusCodes, pub events.Publisher) *Service {
	if codes == nil {
		codes = config.DefaultStatusCodes()
	}
	if pub == nil {
		pub = events.Discard{}
	}
	return &Service{
		store:   st,
		avatars: avatars,
		codes:   codes,
		events:  pub,
		log:     logger.WithContext("component", "account"),
		now:     time.Now,
	}
}

// SetClock replaces the time source. Tests use it to pin "today".
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) load(username string) (*models.User, error) {
	if username == "" {
		return nil, ErrNotFound
	}
	var u models.User
	if err := s.store.Load(store.KindUser, username, &u); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user %s: %w", username, err)
	}
	u.Role = u.Role.Normalize()
	return &u, nil
}

func (s *Service) save(u *models.User) error {
	if err := s.store.Save(store.KindUser, u.Username, u); err != nil {
		return fmt.Errorf("save user %s: %w", u.Username, err)
	}
	return nil
}

func (s *Service) Register(username, email, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingField
	}
	if err := store.ValidateID(username); err != nil {
		return nil, ErrInvalidUsername
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, ErrInvalidEmail
	}

	exists, err := s.store.Exists(store.KindUser, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, ErrDuplicateUsername
	}
	users, err := store.LoadAll[models.User](s.store, store.KindUser)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for _, other := range users {
		if other.Email == email {
			return nil, ErrDuplicateEmail
		}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    s.now().UTC(),
		Bookmarks:    []string{},
		Read:         []string{},
	}
	if err := s.save(u); err != nil {
		return nil, err
	}

	metrics.IncrementRegistrations()
	s.log.Info("user_registered", "username", username)
	s.events.Publish(events.TypeUserRegistered, username+" registered", map[string]string{"username": username})
	return u, nil
}

func (s *Service) Authenticate(username, password string) (*models.User, error) {
	u, err := s.load(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.IncrementFailedLogins()
		}
		return nil, err
	}
	if err := utils.CheckPassword(u.PasswordHash, password); err != nil {
		metrics.IncrementFailedLogins()
		s.log.Warn("login_failed", "username", username)
		return nil, ErrBadCredentials
	}
	metrics.IncrementLogins()
	return u, nil
}

func (s *Service) GetProfile(username string) (*models.User, error) {
	return s.load(username)
}

func (s *Service) ChangePassword(username, current, next string) error {
	if current == "" || next == "" {
		return ErrMissingField
	}
	if len(next) < minPasswordLength {
		return ErrWeakPassword
	}
	u, err := s.load(username)
	if err != nil {
		return err
	}
	if err := utils.CheckPassword(u.PasswordHash, current); err != nil {
		return ErrBadCredentials
	}
	hash, err := utils.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	if err := s.save(u); err != nil {
		return err
	}
	s.log.Info("password_changed", "username", username)
	return nil
}

// SetAvatar validates and stores a new avatar image and points the user's
// profile at it. Rejected uploads leave the stored profile untouched.
func (s *Service) SetAvatar(username string, data []byte, mimeType string) (*models.User, error) {
	ext, err := upload.ValidateImage(data, mimeType)
	if err != nil {
		metrics.IncrementUploadsRejected()
		return nil, err
	}
	u, err := s.load(username)
	if err != nil {
		return nil, err
	}

	url, err := s.avatars.Save(uuid.NewString()+ext, data)
	if err != nil {
		return nil, err
	}
	previous := u.Profile.Avatar
	u.Profile.Avatar = url
	if err := s.save(u); err != nil {
		s.avatars.Remove(url)
		return nil, err
	}
	if previous != "" && !strings.Contains(previous, "default") {
		s.avatars.Remove(previous)
	}
	s.log.Info("avatar_updated", "username", username, "url", url)
	return u, nil
}

// ChangeRole applies the role granted by statusCode.
func (s *Service) ChangeRole(username, statusCode string) (*models.User, error) {
	if strings.TrimSpace(statusCode) == "" {
		return nil, ErrMissingField
	}
	u, err := s.load(username)
	if err != nil {
		return nil, err
	}
	role, ok := s.codes.Lookup(statusCode)
	if !ok {
		return nil, ErrInvalidCode
	}
	if u.Role == role {
		return nil, ErrAlreadySet
	}
	previous := u.Role
	u.Role = role
	if err := s.save(u); err != nil {
		return nil, err
	}
	s.log.Info("role_changed", "username", username, "from", string(previous), "to", string(role))
	s.events.Publish(events.TypeRoleChanged, username+" is now "+string(role),
		map[string]string{"username": username, "role": string(role)})
	return u, nil
}
