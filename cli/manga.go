package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type mangaView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genres      []string  `json:"genres"`
	Rating      float64   `json:"rating"`
	CoverURL    string    `json:"coverUrl"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

var (
	mangaID          string
	mangaTitle       string
	mangaDescription string
	mangaGenres      []string
	mangaRating      float64
	mangaCover       string
	mangaCoverURL    string
)

var mangaCmd = &cobra.Command{
	Use:   "manga",
	Short: "Manga catalog commands",
	Long:  `Browse the catalog and add new manga.`,
}

var mangaLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the newest manga",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		res, err := c.do("GET", "/api/manga/latest", nil)
		if err != nil {
			return err
		}
		if err := check("Listing", res); err != nil {
			return err
		}
		var out struct {
			Manga []mangaView `json:"manga"`
			Demo  bool        `json:"demo"`
		}
		res.decode(&out)
		if len(out.Manga) == 0 {
			fmt.Println("The catalog is empty.")
			return nil
		}
		if out.Demo {
			printInfo("Showing demo entries; the catalog is empty")
		}
		printMangaList(out.Manga)
		return nil
	},
}

var mangaInfoCmd = &cobra.Command{
	Use:   "info [manga-id]",
	Short: "Show one manga",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		res, err := c.do("GET", "/api/manga/"+args[0], nil)
		if err != nil {
			return err
		}
		if err := check("Lookup", res); err != nil {
			return err
		}
		var out struct {
			Manga mangaView `json:"manga"`
		}
		res.decode(&out)
		m := out.Manga
		fmt.Printf("%s\n", m.Title)
		fmt.Printf("ID: %s\n", m.ID)
		fmt.Printf("Genres: %s\n", strings.Join(m.Genres, ", "))
		fmt.Printf("Rating: %.1f\n", m.Rating)
		if m.CoverURL != "" {
			fmt.Printf("Cover: %s\n", m.CoverURL)
		}
		fmt.Printf("Added by %s on %s\n", m.CreatedBy, m.CreatedAt.Local().Format("2006-01-02"))
		if m.Description != "" {
			fmt.Printf("\n%s\n", m.Description)
		}
		return nil
	},
}

var mangaAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a manga (mangaka or admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if mangaTitle == "" || mangaDescription == "" || len(mangaGenres) == 0 {
			return fmt.Errorf("title, description and at least one genre are required")
		}
		if mangaCover == "" && mangaCoverURL == "" {
			return fmt.Errorf("a cover is required (--cover or --cover-url)")
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.requireLogin(); err != nil {
			return err
		}

		body := map[string]interface{}{
			"manga": map[string]interface{}{
				"id":          mangaID,
				"title":       mangaTitle,
				"description": mangaDescription,
				"genres":      mangaGenres,
				"rating":      mangaRating,
				"coverUrl":    mangaCoverURL,
			},
		}
		var res *apiResponse
		if mangaCover != "" {
			payload, _ := json.Marshal(body)
			res, err = c.upload("/api/manga/add", "cover", mangaCover, map[string]string{"manga": string(payload)})
		} else {
			res, err = c.do("POST", "/api/manga/add", body)
		}
		if err != nil {
			return err
		}
		if err := check("Add manga", res); err != nil {
			return err
		}
		var out struct {
			MangaID string `json:"mangaId"`
		}
		res.decode(&out)
		printSuccess(fmt.Sprintf("Added %q", mangaTitle))
		fmt.Printf("ID: %s\n", out.MangaID)
		return nil
	},
}

var mangaCoverCmd = &cobra.Command{
	Use:   "upload-cover [image-file]",
	Short: "Upload a cover image ahead of adding a manga",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.requireLogin(); err != nil {
			return err
		}
		values := map[string]string{}
		if mangaID != "" {
			values["mangaId"] = mangaID
		}
		res, err := c.upload("/api/manga/upload-cover", "cover", args[0], values)
		if err != nil {
			return err
		}
		if err := check("Cover upload", res); err != nil {
			return err
		}
		var out struct {
			CoverURL string `json:"coverUrl"`
			MangaID  string `json:"mangaId"`
		}
		res.decode(&out)
		printSuccess("Cover uploaded")
		fmt.Printf("Manga ID: %s\n", out.MangaID)
		fmt.Printf("Cover URL: %s\n", out.CoverURL)
		fmt.Printf("Next: mangactl manga add --id %s --cover-url %s ...\n", out.MangaID, out.CoverURL)
		return nil
	},
}

func printMangaList(list []mangaView) {
	for i, m := range list {
		fmt.Printf("%d. %s\n", i+1, m.Title)
		fmt.Printf("   ID: %s\n", m.ID)
		fmt.Printf("   Genres: %s\n", strings.Join(m.Genres, ", "))
		fmt.Printf("   Rating: %.1f\n", m.Rating)
		if m.Description != "" {
			desc := m.Description
			if len(desc) > 100 {
				desc = desc[:100] + "..."
			}
			fmt.Printf("   %s\n", desc)
		}
		fmt.Println()
	}
}

func init() {
	mangaAddCmd.Flags().StringVar(&mangaID, "id", "", "11 digit manga id (generated when empty)")
	mangaAddCmd.Flags().StringVar(&mangaTitle, "title", "", "Title")
	mangaAddCmd.Flags().StringVar(&mangaDescription, "description", "", "Description")
	mangaAddCmd.Flags().StringSliceVar(&mangaGenres, "genre", nil, "Genre (repeatable)")
	mangaAddCmd.Flags().Float64Var(&mangaRating, "rating", 0, "Rating from 0 to 5")
	mangaAddCmd.Flags().StringVar(&mangaCover, "cover", "", "Cover image file")
	mangaAddCmd.Flags().StringVar(&mangaCoverURL, "cover-url", "", "Previously uploaded cover URL")
	mangaCoverCmd.Flags().StringVar(&mangaID, "id", "", "Manga id the cover belongs to")

	mangaCmd.AddCommand(mangaLatestCmd, mangaInfoCmd, mangaAddCmd, mangaCoverCmd)
}
