package account

import "github.com/binhbb2204/manga-catalog/pkg/models"

type ListOp string

const (
	OpAdd    ListOp = "add"
	OpRemove ListOp = "remove"
)

func bookmarksOf(u *models.User) *[]string { return &u.Bookmarks }
func readOf(u *models.User) *[]string      { return &u.Read }

// ToggleBookmark adds or removes mangaID from the user's bookmarks. It
// returns the resulting set and whether it changed. Adding a present id
// succeeds without a write; removing an absent id returns ErrNotInList
// together with the unchanged set.
func (s *Service) ToggleBookmark(username, mangaID string, op ListOp) ([]string, bool, error) {
	return s.toggle(username, mangaID, op, bookmarksOf)
}

// ToggleRead is ToggleBookmark for the read list.
func (s *Service) ToggleRead(username, mangaID string, op ListOp) ([]string, bool, error) {
	return s.toggle(username, mangaID, op, readOf)
}

func (s *Service) Bookmarks(username string) ([]string, error) {
	return s.list(username, bookmarksOf)
}

func (s *Service) ReadList(username string) ([]string, error) {
	return s.list(username, readOf)
}

func (s *Service) list(username string, field func(*models.User) *[]string) ([]string, error) {
	u, err := s.load(username)
	if err != nil {
		return nil, err
	}
	return copyIDs(*field(u)), nil
}

func (s *Service) toggle(username, mangaID string, op ListOp, field func(*models.User) *[]string) ([]string, bool, error) {
	if mangaID == "" {
		return nil, false, ErrMissingField
	}
	if op != OpAdd && op != OpRemove {
		return nil, false, ErrInvalidOp
	}
	u, err := s.load(username)
	if err != nil {
		return nil, false, err
	}

	ids := field(u)
	idx := indexOf(*ids, mangaID)
	switch op {
	case OpAdd:
		if idx >= 0 {
			return copyIDs(*ids), false, nil
		}
		*ids = append(*ids, mangaID)
	case OpRemove:
		if idx < 0 {
			return copyIDs(*ids), false, ErrNotInList
		}
		*ids = append((*ids)[:idx], (*ids)[idx+1:]...)
	}

	if err := s.save(u); err != nil {
		return nil, false, err
	}
	s.log.Debug("list_updated", "username", username, "manga_id", mangaID, "op", string(op))
	return copyIDs(*ids), true, nil
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func copyIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
