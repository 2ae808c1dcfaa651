package account

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/binhbb2204/manga-catalog/internal/events"
	"github.com/binhbb2204/manga-catalog/pkg/models"
	"github.com/binhbb2204/manga-catalog/pkg/store"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	chartDays       = 30
)

type UserQuery struct {
	Search    string
	Role      string
	DateRange string
	Sort      string
	Page      int
	Limit     int
}

type UserPage struct {
	Users       []models.User
	TotalUsers  int
	TotalPages  int
	CurrentPage int
	Limit       int
}

// requireAdmin re-reads the caller's own record. A missing caller is
// unauthenticated; any role other than admin is forbidden.
func (s *Service) requireAdmin(adminUsername string) (*models.User, error) {
	if adminUsername == "" {
		return nil, ErrUnauthenticated
	}
	admin, err := s.load(adminUsername)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if admin.Role != models.RoleAdmin {
		s.log.Warn("admin_access_denied", "username", adminUsername, "role", string(admin.Role))
		return nil, ErrForbidden
	}
	return admin, nil
}

// RequireAdmin returns nil when the stored role of username is admin.
func (s *Service) RequireAdmin(username string) error {
	_, err := s.requireAdmin(username)
	return err
}

// RoleOf returns the stored role of username.
func (s *Service) RoleOf(username string) (models.Role, error) {
	u, err := s.load(username)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (s *Service) ListUsers(adminUsername string, q UserQuery) (*UserPage, error) {
	if _, err := s.requireAdmin(adminUsername); err != nil {
		return nil, err
	}

	var roleFilter models.Role
	if q.Role != "" && q.Role != "all" {
		role, err := models.ParseRole(q.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: status %q", ErrInvalidQuery, q.Role)
		}
		roleFilter = role
	}
	since, err := rangeStart(q.DateRange, s.now())
	if err != nil {
		return nil, err
	}
	less, err := sortOrder(q.Sort)
	if err != nil {
		return nil, err
	}

	users, err := store.LoadAll[models.User](s.store, store.KindUser)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	search := strings.ToLower(q.Search)
	filtered := make([]models.User, 0, len(users))
	for _, u := range users {
		u.Role = u.Role.Normalize()
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Username), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		if roleFilter != "" && u.Role != roleFilter {
			continue
		}
		if !since.IsZero() && u.CreatedAt.Before(since) {
			continue
		}
		filtered = append(filtered, u)
	}
	if less != nil {
		sort.SliceStable(filtered, func(i, j int) bool { return less(filtered[i], filtered[j]) })
	}

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	total := len(filtered)
	result := &UserPage{
		Users:       []models.User{},
		TotalUsers:  total,
		TotalPages:  (total + limit - 1) / limit,
		CurrentPage: page,
		Limit:       limit,
	}
	if page > result.TotalPages {
		return result, nil
	}
	start := (page - 1) * limit
	if start < total {
		end := start + limit
		if end > total {
			end = total
		}
		result.Users = filtered[start:end]
	}
	return result, nil
}

func rangeStart(dateRange string, now time.Time) (time.Time, error) {
	switch dateRange {
	case "", "all":
		return time.Time{}, nil
	case "today":
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "month":
		return now.AddDate(0, -1, 0), nil
	case "year":
		return now.AddDate(-1, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w: dateRange %q", ErrInvalidQuery, dateRange)
}

func sortOrder(key string) (func(a, b models.User) bool, error) {
	switch key {
	case "":
		return nil, nil
	case "date-desc":
		return func(a, b models.User) bool { return a.CreatedAt.After(b.CreatedAt) }, nil
	case "date-asc":
		return func(a, b models.User) bool { return a.CreatedAt.Before(b.CreatedAt) }, nil
	case "name-asc", "name-desc":
		// Collator is not safe for concurrent use; one per call.
		c := collate.New(language.Und, collate.IgnoreCase)
		if key == "name-asc" {
			return func(a, b models.User) bool { return c.CompareString(a.Username, b.Username) < 0 }, nil
		}
		return func(a, b models.User) bool { return c.CompareString(a.Username, b.Username) > 0 }, nil
	}
	return nil, fmt.Errorf("%w: sort %q", ErrInvalidQuery, key)
}

func (s *Service) GetUser(adminUsername, target string) (*models.User, error) {
	if _, err := s.requireAdmin(adminUsername); err != nil {
		return nil, err
	}
	return s.load(target)
}

func (s *Service) UpdateUserRole(adminUsername, target, role string) (*models.User, error) {
	newRole, err := models.ParseRole(role)
	if err != nil {
		return nil, ErrInvalidRole
	}
	if _, err := s.requireAdmin(adminUsername); err != nil {
		return nil, err
	}
	return s.setRole(adminUsername, target, newRole)
}

func (s *Service) setRole(adminUsername, target string, role models.Role) (*models.User, error) {
	u, err := s.load(target)
	if err != nil {
		return nil, err
	}
	u.Role = role
	if err := s.save(u); err != nil {
		return nil, err
	}
	s.log.Info("admin_role_updated", "admin", adminUsername, "username", target, "role", string(role))
	s.events.Publish(events.TypeRoleChanged, target+" is now "+string(role),
		map[string]string{"username": target, "role": string(role), "by": adminUsername})
	return u, nil
}

func (s *Service) DeleteUser(adminUsername, target string) error {
	if target == "" {
		return ErrMissingField
	}
	if target == adminUsername {
		return ErrSelfDelete
	}
	if _, err := s.requireAdmin(adminUsername); err != nil {
		return err
	}
	return s.remove(adminUsername, target)
}

func (s *Service) remove(adminUsername, target string) error {
	u, err := s.load(target)
	if err != nil {
		return err
	}
	if err := s.store.Delete(store.KindUser, target); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user %s: %w", target, err)
	}
	if u.Profile.Avatar != "" && !strings.Contains(u.Profile.Avatar, "default") {
		s.avatars.Remove(u.Profile.Avatar)
	}
	s.log.Info("user_deleted", "admin", adminUsername, "username", target)
	s.events.Publish(events.TypeUserDeleted, target+" was deleted",
		map[string]string{"username": target, "by": adminUsername})
	return nil
}

// BulkDelete deletes every target it can and returns how many it deleted.
// A list naming the admin is rejected before anything is deleted.
func (s *Service) BulkDelete(adminUsername string, targets []string) (int, error) {
	if len(targets) == 0 {
		return 0, ErrMissingField
	}
	for _, t := range targets {
		if t == adminUsername {
			return 0, ErrSelfDelete
		}
	}
	if _, err := s.requireAdmin(adminUsername); err != nil {
		return 0, err
	}
	deleted := 0
	for _, t := range targets {
		if err := s.remove(adminUsername, t); err != nil {
			s.log.Warn("bulk_delete_skipped", "username", t, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

// BulkUpdateRole is best-effort like BulkDelete.
func (s *Service) BulkUpdateRole(adminUsername string, targets []string, role string) (int, error) {
	if len(targets) == 0 {
		return 0, ErrMissingField
	}
	newRole, err := models.ParseRole(role)
	if err != nil {
		return 0, ErrInvalidRole
	}
	if _, err := s.requireAdmin(adminUsername); err != nil {
		return 0, err
	}
	updated := 0
	for _, t := range targets {
		if _, err := s.setRole(adminUsername, t, newRole); err != nil {
			s.log.Warn("bulk_update_skipped", "username", t, "error", err)
			continue
		}
		updated++
	}
	return updated, nil
}

func (s *Service) Statistics(adminUsername string) (*models.Statistics, error) {
	if _, err := s.requireAdmin(adminUsername); err != nil {
		return nil, err
	}
	users, err := store.LoadAll[models.User](s.store, store.KindUser)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	now := s.now().UTC()
	stats := &models.Statistics{
		TotalUsers:   len(users),
		CountsByRole: make(map[models.Role]int, len(models.Roles)),
		GeneratedAt:  now,
	}
	for _, r := range models.Roles {
		stats.CountsByRole[r] = 0
	}

	perDay := make(map[string]int)
	for _, u := range users {
		stats.CountsByRole[u.Role.Normalize()]++
		if !u.CreatedAt.IsZero() {
			perDay[u.CreatedAt.UTC().Format("2006-01-02")]++
		}
	}
	stats.RegularUsers = stats.CountsByRole[models.RoleUser]
	stats.MangakaUsers = stats.CountsByRole[models.RoleMangaka]
	stats.AdminUsers = stats.CountsByRole[models.RoleAdmin]

	stats.RegistrationChart = make([]models.DailyCount, 0, chartDays)
	for i := chartDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		stats.RegistrationChart = append(stats.RegistrationChart, models.DailyCount{Date: day, Count: perDay[day]})
	}
	return stats, nil
}
