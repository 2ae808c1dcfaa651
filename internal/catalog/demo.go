package catalog

import (
	"time"

	"github.com/binhbb2204/manga-catalog/pkg/models"
)

type demoEntry struct {
	id          string
	title       string
	description string
	genres      []string
	rating      float64
	coverURL    string
}

var demoEntries = []demoEntry{
	{"12345678901", "Jujutsu Kaisen", "A teenager becomes a hunter of curses.",
		[]string{"Action", "Fantasy", "Adventure"}, 5.0,
		"https://cdn.animenewsnetwork.com/thumbnails/max400x400/cms/news.5/174892/jujutsu-kaisen.jpg"},
	{"12345678902", "Berserk", "Dark fantasy about a warrior with an enormous sword.",
		[]string{"Fantasy", "Action", "Horror"}, 5.0,
		"https://i.ebayimg.com/images/g/LasAAOSwKvZjEt35/s-l1200.jpg"},
	{"12345678903", "Attack on Titan", "Humanity fights back against giant titans.",
		[]string{"Action", "Drama", "Fantasy"}, 4.5,
		"https://d28hgpri8am2if.cloudfront.net/book_images/onix/cvr9781632364258/attack-on-titan-27-9781632364258_hr.jpg"},
	{"12345678904", "My Hero Academia", "A world where most people have superpowers.",
		[]string{"Action", "Comedy", "School"}, 4.5,
		"https://www.rightstufanime.com/images/productImages/9781421582696_manga-My-Hero-Academia-Graphic-Novel-1-primary.jpg"},
	{"12345678905", "Demon Slayer", "A boy becomes a demon hunter.",
		[]string{"Action", "Historical", "Supernatural"}, 4.5,
		"https://m.media-amazon.com/images/I/51VXDZfB6YL._AC_UF1000,1000_QL80_.jpg"},
	{"12345678906", "One Piece", "Pirates search for a legendary treasure.",
		[]string{"Adventure", "Comedy", "Fantasy"}, 5.0,
		"https://m.media-amazon.com/images/I/8146xwSYvOL._AC_UF1000,1000_QL80_.jpg"},
	{"12345678907", "Naruto", "A young ninja with a demon sealed inside him.",
		[]string{"Action", "Adventure", "Martial Arts"}, 4.5,
		"https://m.media-amazon.com/images/I/51qU7IRyiYL._AC_UF1000,1000_QL80_.jpg"},
	{"12345678908", "Chainsaw Man", "A young man with a chainsaw for a head hunts devils.",
		[]string{"Action", "Horror", "Supernatural"}, 5.0,
		"https://m.media-amazon.com/images/I/81-t1V3OOuL._AC_UF1000,1000_QL80_.jpg"},
	{"12345678909", "Tokyo Ghoul", "A student turns half-ghoul and has to live in both worlds.",
		[]string{"Action", "Horror", "Supernatural"}, 4.5,
		"https://m.media-amazon.com/images/I/81fZizQbICL._AC_UF1000,1000_QL80_.jpg"},
	{"12345678910", "Akame ga Kill!", "A band of assassins fights a corrupt empire.",
		[]string{"Action", "Fantasy", "Drama"}, 4.5,
		"https://m.media-amazon.com/images/I/91lK3rEWw1L._AC_UF1000,1000_QL80_.jpg"},
}

// DemoCatalog returns the placeholder catalog shown while no manga exist.
// Entry i is dated i+1 days before now, so the slice is newest first.
func DemoCatalog(now time.Time) []models.Manga {
	out := make([]models.Manga, 0, len(demoEntries))
	for i, e := range demoEntries {
		out = append(out, models.Manga{
			ID:          e.id,
			Title:       e.title,
			Description: e.description,
			Genres:      append([]string(nil), e.genres...),
			Rating:      e.rating,
			CoverURL:    e.coverURL,
			CreatedBy:   "admin",
			CreatedAt:   now.Add(-time.Duration(i+1) * 24 * time.Hour).UTC(),
		})
	}
	return out
}
