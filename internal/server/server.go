// Package server wires services and handlers into the gin router.
package server

import (
	"net/http"
	"path/filepath"

	"github.com/binhbb2204/manga-catalog/internal/account"
	"github.com/binhbb2204/manga-catalog/internal/admin"
	"github.com/binhbb2204/manga-catalog/internal/auth"
	"github.com/binhbb2204/manga-catalog/internal/catalog"
	"github.com/binhbb2204/manga-catalog/internal/events"
	"github.com/binhbb2204/manga-catalog/internal/health"
	"github.com/binhbb2204/manga-catalog/internal/manga"
	"github.com/binhbb2204/manga-catalog/internal/upload"
	"github.com/binhbb2204/manga-catalog/internal/user"
	"github.com/binhbb2204/manga-catalog/internal/websocket"
	"github.com/binhbb2204/manga-catalog/pkg/config"
	"github.com/binhbb2204/manga-catalog/pkg/metrics"
	"github.com/binhbb2204/manga-catalog/pkg/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const uploadsPrefix = "/uploads"

type Server struct {
	Accounts *account.Service
	Catalog  *catalog.Service
	Bus      *events.Bus
	Broker   *manga.NotificationBroker
	Feed     *websocket.Server

	blacklist *auth.Blacklist
	router    *gin.Engine
}

// New builds the services over st and registers every route.
func New(cfg *config.Config, st store.Store) *Server {
	broker := manga.NewBroker()
	bus := events.NewBus(broker)

	avatars := upload.NewDir(filepath.Join(cfg.UploadDir, "avatars"), uploadsPrefix+"/avatars")
	covers := upload.NewDir(filepath.Join(cfg.UploadDir, "covers"), uploadsPrefix+"/covers")

	accounts := account.NewService(st, avatars, cfg.StatusCodes, bus)
	mangaSvc := catalog.NewService(st, covers, accounts, bus)

	blacklist := auth.NewBlacklist()
	feed := websocket.NewServer(cfg.JWTSecret, accounts.RoleOf, blacklist.IsRevoked)
	bus.Subscribe(feed)

	s := &Server{
		Accounts: accounts,
		Catalog:  mangaSvc,
		Bus:      bus,
		Broker:   broker,
		Feed:     feed,

		blacklist: blacklist,
	}
	s.router = s.routes(cfg, st)
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Close() {
	s.Feed.Close()
}

func (s *Server) routes(cfg *config.Config, st store.Store) *gin.Engine {
	blacklist := s.blacklist
	authHandler := auth.NewHandler(cfg.JWTSecret, s.Accounts, blacklist)
	userHandler := user.NewHandler(s.Accounts)
	mangaHandler := manga.NewHandler(s.Catalog, cfg.DemoCatalogFallback)
	adminHandler := admin.NewHandler(s.Accounts, s.Catalog)
	healthHandler := health.NewHandler(st)
	metricsHandler := metrics.NewHandler()
	requireAuth := auth.AuthMiddleware(cfg.JWTSecret, blacklist)

	router := gin.New()
	router.Use(Recovery(), RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthHandler.Health)
	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/readyz", healthHandler.Readyz)
	router.GET("/metrics", metricsHandler.Metrics)
	router.Static(uploadsPrefix, cfg.UploadDir)

	api := router.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.GET("/profile/:username", userHandler.GetProfile)
		api.GET("/bookmarks/:username", userHandler.GetBookmarks)
		api.GET("/read/:username", userHandler.GetReadList)
		api.GET("/manga/latest", mangaHandler.GetLatest)
		api.GET("/manga/:id", mangaHandler.GetMangaByID)
		api.GET("/events", s.Broker.ServeSSE)
	}

	protected := router.Group("/api")
	protected.Use(requireAuth)
	{
		protected.POST("/logout", authHandler.Logout)
		protected.POST("/change-password", authHandler.ChangePassword)

		protected.POST("/bookmarks/add", userHandler.AddBookmark)
		protected.POST("/bookmarks/remove", userHandler.RemoveBookmark)
		protected.POST("/read/add", userHandler.AddRead)
		protected.POST("/read/remove", userHandler.RemoveRead)
		protected.POST("/profile/update-avatar", userHandler.UpdateAvatar)
		protected.POST("/profile/change-status", userHandler.ChangeStatus)

		protected.POST("/manga/upload-cover", mangaHandler.UploadCover)
		protected.POST("/manga/add", mangaHandler.AddManga)
	}

	adminGroup := router.Group("/api/admin")
	adminGroup.Use(requireAuth)
	{
		adminGroup.POST("/users", adminHandler.ListUsers)
		adminGroup.GET("/statistics", adminHandler.Statistics)
		adminGroup.GET("/user/:username", adminHandler.GetUser)
		adminGroup.POST("/update-user", adminHandler.UpdateUser)
		adminGroup.POST("/delete-user", adminHandler.DeleteUser)
		adminGroup.POST("/bulk-delete-users", adminHandler.BulkDelete)
		adminGroup.POST("/bulk-update-status", adminHandler.BulkUpdateStatus)
		adminGroup.GET("/manga", adminHandler.ListManga)
	}

	router.GET("/ws/events", s.Feed.HandleWebSocket)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "not found"})
	})
	return router
}
