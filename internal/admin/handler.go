// Package admin serves the admin panel API. Every request is authorized
// against the caller's stored role, not the token's role claim.
package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/binhbb2204/manga-catalog/internal/account"
	"github.com/binhbb2204/manga-catalog/internal/auth"
	"github.com/binhbb2204/manga-catalog/internal/catalog"
	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/binhbb2204/manga-catalog/pkg/models"
	"github.com/binhbb2204/manga-catalog/pkg/utils"
	"github.com/gin-gonic/gin"
)

const maxMangaPage = 100

type Handler struct {
	accounts *account.Service
	catalog  *catalog.Service
	log      *logger.Logger
}

func NewHandler(accounts *account.Service, mangaSvc *catalog.Service) *Handler {
	return &Handler{
		accounts: accounts,
		catalog:  mangaSvc,
		log:      logger.WithContext("component", "admin"),
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	var req models.ListUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	admin, ok := auth.ResolveActor(c, req.CurrentUser.Username)
	if !ok {
		return
	}
	f := req.EffectiveFilters()
	page, err := h.accounts.ListUsers(admin, account.UserQuery{
		Search:    f.Search,
		Role:      f.Status,
		DateRange: f.DateRange,
		Sort:      req.Sort,
		Page:      req.Page,
		Limit:     req.Limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{
		"users":       models.PublicUsers(page.Users),
		"totalUsers":  page.TotalUsers,
		"totalPages":  page.TotalPages,
		"currentPage": page.CurrentPage,
		"pagination": models.PaginationMeta{
			Page:       page.CurrentPage,
			Limit:      page.Limit,
			Total:      page.TotalUsers,
			TotalPages: page.TotalPages,
			HasNext:    page.CurrentPage < page.TotalPages,
			HasPrev:    page.CurrentPage > 1,
		},
	})
}

func (h *Handler) Statistics(c *gin.Context) {
	admin, ok := auth.ResolveActor(c, c.Query("username"))
	if !ok {
		return
	}
	stats, err := h.accounts.Statistics(admin)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{
		"totalUsers":        stats.TotalUsers,
		"regularUsers":      stats.RegularUsers,
		"mangakaUsers":      stats.MangakaUsers,
		"adminUsers":        stats.AdminUsers,
		"countsByRole":      stats.CountsByRole,
		"registrationChart": stats.RegistrationChart,
		"generatedAt":       stats.GeneratedAt,
	})
}

func (h *Handler) GetUser(c *gin.Context) {
	admin, ok := auth.ResolveActor(c, c.Query("admin"))
	if !ok {
		return
	}
	u, err := h.accounts.GetUser(admin, c.Param("username"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"user": u.Public()})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "username and status are required")
		return
	}
	admin, ok := auth.ResolveActor(c, req.AdminUsername)
	if !ok {
		return
	}
	u, err := h.accounts.UpdateUserRole(admin, req.Username, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{
		"message": "User updated",
		"user":    u.Public(),
	})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	var req models.DeleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "username is required")
		return
	}
	admin, ok := auth.ResolveActor(c, req.AdminUsername)
	if !ok {
		return
	}
	if err := h.accounts.DeleteUser(admin, req.Username); err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"message": fmt.Sprintf("User %s deleted", req.Username)})
}

func (h *Handler) BulkDelete(c *gin.Context) {
	var req models.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	admin, ok := auth.ResolveActor(c, req.AdminUsername)
	if !ok {
		return
	}
	n, err := h.accounts.BulkDelete(admin, req.Usernames)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Deleted %d users", n),
		"deletedCount": n,
	})
}

func (h *Handler) BulkUpdateStatus(c *gin.Context) {
	var req models.BulkUpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	admin, ok := auth.ResolveActor(c, req.AdminUsername)
	if !ok {
		return
	}
	n, err := h.accounts.BulkUpdateRole(admin, req.Usernames, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Updated status of %d users", n),
		"updatedCount": n,
	})
}

// ListManga is the admin view of the whole catalog, newest first.
func (h *Handler) ListManga(c *gin.Context) {
	admin, ok := auth.ResolveActor(c, "")
	if !ok {
		return
	}
	if err := h.accounts.RequireAdmin(admin); err != nil {
		h.fail(c, err)
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit < 1 || limit > maxMangaPage {
		limit = maxMangaPage
	}
	list, err := h.catalog.List(limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"manga": list, "count": len(list)})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, account.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, account.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, account.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, account.ErrInvalidQuery),
		errors.Is(err, account.ErrInvalidRole),
		errors.Is(err, account.ErrMissingField),
		errors.Is(err, account.ErrSelfDelete):
		status = http.StatusBadRequest
	default:
		h.log.Error("admin_request_failed", "path", c.FullPath(), "error", err)
		utils.Fail(c, status, "internal server error")
		return
	}
	utils.Fail(c, status, err.Error())
}
