package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/binhbb2204/manga-catalog/internal/account"
	"github.com/binhbb2204/manga-catalog/internal/catalog"
	"github.com/binhbb2204/manga-catalog/internal/events"
	"github.com/binhbb2204/manga-catalog/internal/upload"
	"github.com/binhbb2204/manga-catalog/pkg/config"
	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/binhbb2204/manga-catalog/pkg/models"
	"github.com/binhbb2204/manga-catalog/pkg/store"
)

func main() {
	adminName := flag.String("admin", "", "also create an admin account with this username")
	adminEmail := flag.String("admin-email", "", "email for the admin account")
	flag.Parse()

	fmt.Println("=== Manga Catalog Seeder ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(logger.LogLevel(cfg.LogLevel), false, os.Stdout)

	st, err := store.Open(cfg.StoreDriver, cfg.DataDir, cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	existing, err := store.LoadAll[models.Manga](st, store.KindManga)
	if err != nil {
		log.Fatalf("Failed to read catalog: %v", err)
	}
	fmt.Printf("Current manga count: %d\n", len(existing))

	added := 0
	for _, m := range catalog.DemoCatalog(time.Now().UTC()) {
		ok, err := st.Exists(store.KindManga, m.ID)
		if err != nil {
			log.Fatalf("Failed to check %s: %v", m.ID, err)
		}
		if ok {
			continue
		}
		if err := st.Save(store.KindManga, m.ID, m); err != nil {
			log.Fatalf("Failed to save %s: %v", m.ID, err)
		}
		added++
	}
	fmt.Printf("✓ Added %d manga\n", added)

	if *adminName == "" {
		return
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("SEED_ADMIN_PASSWORD must be set to create an admin account")
	}
	var adminCode string
	for code, role := range cfg.StatusCodes {
		if role == models.RoleAdmin {
			adminCode = code
			break
		}
	}
	if adminCode == "" {
		log.Fatal("No status code grants the admin role")
	}

	avatars := upload.NewDir(filepath.Join(cfg.UploadDir, "avatars"), "/uploads/avatars")
	accounts := account.NewService(st, avatars, cfg.StatusCodes, events.Discard{})
	if _, err := accounts.Register(*adminName, *adminEmail, password); err != nil && !errors.Is(err, account.ErrDuplicateUsername) {
		log.Fatalf("Failed to create admin: %v", err)
	}
	if _, err := accounts.ChangeRole(*adminName, adminCode); err != nil && !errors.Is(err, account.ErrAlreadySet) {
		log.Fatalf("Failed to promote admin: %v", err)
	}
	fmt.Printf("✓ Admin account %s ready\n", *adminName)
}
