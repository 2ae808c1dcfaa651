// Package catalog stores manga records and their cover images.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/binhbb2204/manga-catalog/internal/account"
	"github.com/binhbb2204/manga-catalog/internal/events"
	"github.com/binhbb2204/manga-catalog/internal/upload"
	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/binhbb2204/manga-catalog/pkg/metrics"
	"github.com/binhbb2204/manga-catalog/pkg/models"
	"github.com/binhbb2204/manga-catalog/pkg/store"
	"github.com/binhbb2204/manga-catalog/pkg/utils"
)

const (
	IDLength     = 11
	LatestLimit  = 10
	idRetryLimit = 5
)

// RoleLookup resolves a username to its stored role. It must return
// account.ErrNotFound for unknown users.
type RoleLookup interface {
	RoleOf(username string) (models.Role, error)
}

type NewManga struct {
	ID          string
	Title       string
	Description string
	Genres      []string
	Rating      float64
	CoverURL    string
}

// Image is an uploaded file body with its declared content type.
type Image struct {
	Data     []byte
	MimeType string
}

type Service struct {
	store  store.Store
	covers *upload.Dir
	roles  RoleLookup
	events events.Publisher
	log    *logger.Logger
	now    func() time.Time
	newID  func() (string, error)
}

func NewService(st store.Store, covers *upload.Dir, roles RoleLookup, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Discard{}
	}
	return &Service{
		store:  st,
		covers: covers,
		roles:  roles,
		events: pub,
		log:    logger.WithContext("component", "catalog"),
		now:    time.Now,
		newID:  func() (string, error) { return utils.GenerateDigits(IDLength) },
	}
}

func (s *Service) SetClock(now func() time.Time) { s.now = now }

// SetIDSource replaces the id generator.
func (s *Service) SetIDSource(gen func() (string, error)) { s.newID = gen }

// allocateID returns an id with no stored record, retrying on collision.
func (s *Service) allocateID() (string, error) {
	for attempt := 0; attempt < idRetryLimit; attempt++ {
		id, err := s.newID()
		if err != nil {
			return "", err
		}
		exists, err := s.store.Exists(store.KindManga, id)
		if err != nil {
			return "", fmt.Errorf("check manga id: %w", err)
		}
		if !exists {
			return id, nil
		}
		s.log.Warn("manga_id_collision", "id", id, "attempt", attempt+1)
	}
	return "", ErrDuplicateID
}

func (s *Service) claimID(id string) (string, error) {
	if id == "" {
		return s.allocateID()
	}
	if !utils.IsDigits(id, IDLength) {
		return "", ErrInvalidID
	}
	exists, err := s.store.Exists(store.KindManga, id)
	if err != nil {
		return "", fmt.Errorf("check manga id: %w", err)
	}
	if exists {
		return "", ErrDuplicateID
	}
	return id, nil
}

// UploadCover stores a cover image ahead of CreateManga. The creator must be
// allowed to publish. When mangaID is empty a fresh id is allocated and
// returned with the cover URL.
func (s *Service) UploadCover(creator, mangaID string, data []byte, mimeType string) (string, string, error) {
	if err := s.authorize(creator); err != nil {
		return "", "", err
	}
	ext, err := upload.ValidateImage(data, mimeType)
	if err != nil {
		metrics.IncrementUploadsRejected()
		return "", "", err
	}
	id, err := s.claimID(mangaID)
	if err != nil {
		return "", "", err
	}
	url, err := s.covers.Save(coverName(id, ext), data)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	s.log.Info("cover_uploaded", "manga_id", id, "url", url)
	return url, id, nil
}

func coverName(id, ext string) string {
	return "manga_" + id + ext
}

func (s *Service) authorize(creator string) error {
	if creator == "" || s.roles == nil {
		return ErrUnauthenticated
	}
	role, err := s.roles.RoleOf(creator)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return ErrUnauthenticated
		}
		return err
	}
	if !role.CanPublish() {
		return ErrForbidden
	}
	return nil
}

func (s *Service) CreateManga(creator string, in NewManga, cover *Image) (*models.Manga, error) {
	genres := cleanGenres(in.Genres)
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" || len(genres) == 0 {
		return nil, ErrMissingField
	}
	if cover == nil && strings.TrimSpace(in.CoverURL) == "" {
		return nil, ErrMissingField
	}
	if !models.ValidRating(in.Rating) {
		return nil, ErrInvalidRating
	}
	if in.ID != "" && !utils.IsDigits(in.ID, IDLength) {
		return nil, ErrInvalidID
	}
	var coverExt string
	if cover != nil {
		ext, err := upload.ValidateImage(cover.Data, cover.MimeType)
		if err != nil {
			metrics.IncrementUploadsRejected()
			return nil, err
		}
		coverExt = ext
	}

	if err := s.authorize(creator); err != nil {
		return nil, err
	}
	id, err := s.claimID(in.ID)
	if err != nil {
		return nil, err
	}

	m := &models.Manga{
		ID:          id,
		Title:       title,
		Description: description,
		Genres:      genres,
		Rating:      in.Rating,
		CoverURL:    strings.TrimSpace(in.CoverURL),
		CreatedBy:   creator,
		CreatedAt:   s.now().UTC(),
	}
	if cover != nil {
		url, err := s.covers.Save(coverName(id, coverExt), cover.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		m.CoverURL = url
	}

	if err := s.store.Save(store.KindManga, id, m); err != nil {
		if cover != nil {
			s.covers.Remove(m.CoverURL)
		}
		return nil, fmt.Errorf("save manga %s: %w", id, err)
	}

	metrics.IncrementMangaCreated()
	s.log.Info("manga_added", "manga_id", id, "title", title, "created_by", creator)
	s.events.Publish(events.TypeMangaAdded, "New manga: "+title,
		map[string]string{"id": id, "title": title, "createdBy": creator})
	return m, nil
}

func cleanGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// Latest returns up to limit manga, newest first. limit outside 1..10
// means 10. An empty catalog yields an empty slice.
func (s *Service) Latest(limit int) ([]models.Manga, error) {
	if limit < 1 || limit > LatestLimit {
		limit = LatestLimit
	}
	return s.List(limit)
}

// List returns manga newest first, at most limit when limit > 0.
func (s *Service) List(limit int) ([]models.Manga, error) {
	all, err := store.LoadAll[models.Manga](s.store, store.KindManga)
	if err != nil {
		return nil, fmt.Errorf("list manga: %w", err)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	if all == nil {
		all = []models.Manga{}
	}
	return all, nil
}

func (s *Service) Get(id string) (*models.Manga, error) {
	var m models.Manga
	if err := s.store.Load(store.KindManga, id, &m); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load manga %s: %w", id, err)
	}
	return &m, nil
}
