package user

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/binhbb2204/manga-catalog/internal/account"
	"github.com/binhbb2204/manga-catalog/internal/auth"
	"github.com/binhbb2204/manga-catalog/internal/upload"
	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/binhbb2204/manga-catalog/pkg/models"
	"github.com/binhbb2204/manga-catalog/pkg/utils"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is the slack allowed above MaxImageSize for form
// boundaries and other fields.
const multipartOverhead = 1 << 20

// Handler handles profile and reading-list requests
type Handler struct {
	accounts *account.Service
}

// NewHandler creates a new user handler
func NewHandler(accounts *account.Service) *Handler {
	return &Handler{accounts: accounts}
}

// GetProfile returns the public profile of any user
func (h *Handler) GetProfile(c *gin.Context) {
	u, err := h.accounts.GetProfile(c.Param("username"))
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			utils.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"user": u.Public()})
}

func (h *Handler) AddBookmark(c *gin.Context)    { h.toggle(c, "bookmarks", account.OpAdd) }
func (h *Handler) RemoveBookmark(c *gin.Context) { h.toggle(c, "bookmarks", account.OpRemove) }
func (h *Handler) AddRead(c *gin.Context)        { h.toggle(c, "read", account.OpAdd) }
func (h *Handler) RemoveRead(c *gin.Context)     { h.toggle(c, "read", account.OpRemove) }

func (h *Handler) toggle(c *gin.Context, list string, op account.ListOp) {
	var req models.MangaListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	username, ok := auth.ResolveActor(c, req.Username)
	if !ok {
		return
	}

	toggle := h.accounts.ToggleBookmark
	if list == "read" {
		toggle = h.accounts.ToggleRead
	}
	ids, changed, err := toggle(username, req.MangaID, op)
	switch {
	case errors.Is(err, account.ErrNotInList):
		c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error(), list: ids})
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	message := "Updated"
	if !changed {
		message = "Already in list"
	}
	utils.OK(c, http.StatusOK, gin.H{"message": message, list: ids})
}

func (h *Handler) GetBookmarks(c *gin.Context) {
	ids, err := h.accounts.Bookmarks(c.Param("username"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"bookmarks": ids})
}

func (h *Handler) GetReadList(c *gin.Context) {
	ids, err := h.accounts.ReadList(c.Param("username"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"read": ids})
}

// UpdateAvatar accepts a multipart upload with an "avatar" file field.
func (h *Handler) UpdateAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, upload.MaxImageSize+multipartOverhead)

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
			utils.Fail(c, http.StatusOK, account.ErrTooLarge.Error())
			return
		}
		utils.Fail(c, http.StatusOK, "avatar file is required")
		return
	}
	defer file.Close()

	username, ok := auth.ResolveActor(c, c.Request.FormValue("username"))
	if !ok {
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, upload.MaxImageSize+1))
	if err != nil {
		h.fail(c, fmt.Errorf("read avatar upload: %w", err))
		return
	}
	u, err := h.accounts.SetAvatar(username, data, header.Header.Get("Content-Type"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{
		"message":   "Avatar updated",
		"avatarUrl": u.Profile.Avatar,
		"user":      u.Public(),
	})
}

// ChangeStatus upgrades the caller's role with a status code.
func (h *Handler) ChangeStatus(c *gin.Context) {
	var req models.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	username, ok := auth.ResolveActor(c, req.Username)
	if !ok {
		return
	}
	u, err := h.accounts.ChangeRole(username, req.StatusCode)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{
		"message": "Status changed to " + string(u.Role),
		"user":    u.Public(),
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, account.ErrMissingField),
		errors.Is(err, account.ErrNotFound),
		errors.Is(err, account.ErrInvalidOp),
		errors.Is(err, account.ErrInvalidCode),
		errors.Is(err, account.ErrAlreadySet),
		errors.Is(err, account.ErrBadFileType),
		errors.Is(err, account.ErrTooLarge):
		utils.Fail(c, http.StatusOK, err.Error())
	default:
		logger.Error("user_request_failed", "path", c.FullPath(), "error", err)
		utils.Fail(c, http.StatusInternalServerError, "internal server error")
	}
}
