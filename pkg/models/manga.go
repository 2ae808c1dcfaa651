package models

import (
	"math"
	"time"
)

const (
	MinRating = 1.0
	MaxRating = 5.0
)

type Manga struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genres      []string  `json:"genres"`
	Rating      float64   `json:"rating"`
	CoverURL    string    `json:"coverUrl"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ValidRating reports whether r is within [1,5] on a half-point step.
func ValidRating(r float64) bool {
	if r < MinRating || r > MaxRating {
		return false
	}
	return math.Mod(r*2, 1) == 0
}

type NewMangaRequest struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	Rating      float64  `json:"rating"`
	CoverURL    string   `json:"coverUrl"`
}

// ActorRef carries the legacy "currentUser" object some clients still send.
type ActorRef struct {
	Username string `json:"username"`
}

type AddMangaRequest struct {
	CurrentUser ActorRef        `json:"currentUser"`
	Manga       NewMangaRequest `json:"manga"`
}
