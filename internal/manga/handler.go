package manga

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/binhbb2204/manga-catalog/internal/auth"
	"github.com/binhbb2204/manga-catalog/internal/catalog"
	"github.com/binhbb2204/manga-catalog/internal/upload"
	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/binhbb2204/manga-catalog/pkg/models"
	"github.com/binhbb2204/manga-catalog/pkg/utils"
	"github.com/gin-gonic/gin"
)

const multipartOverhead = 1 << 20

// Handler handles catalog requests
type Handler struct {
	catalog      *catalog.Service
	demoFallback bool
}

// NewHandler creates a new manga handler. With demoFallback set, an empty
// catalog is presented as the placeholder demo set on /latest.
func NewHandler(svc *catalog.Service, demoFallback bool) *Handler {
	return &Handler{catalog: svc, demoFallback: demoFallback}
}

// UploadCover stores a cover image and returns its URL with the manga id it
// was stored under.
func (h *Handler) UploadCover(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, upload.MaxImageSize+multipartOverhead)

	img, err := formImage(c, "cover")
	if err != nil {
		h.fail(c, err)
		return
	}
	if img == nil {
		utils.Fail(c, http.StatusBadRequest, "cover file is required")
		return
	}
	url, id, err := h.catalog.UploadCover(auth.CurrentUser(c), c.Request.FormValue("mangaId"), img.Data, img.MimeType)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{
		"message":  "Cover uploaded",
		"coverUrl": url,
		"mangaId":  id,
	})
}

// AddManga accepts either a JSON body or a multipart form whose "manga"
// field holds the JSON body and whose optional "cover" field is the image.
func (h *Handler) AddManga(c *gin.Context) {
	var req models.AddMangaRequest
	var cover *catalog.Image

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, upload.MaxImageSize+multipartOverhead)
		img, err := formImage(c, "cover")
		if err != nil {
			h.fail(c, err)
			return
		}
		cover = img
		if err := json.Unmarshal([]byte(c.Request.FormValue("manga")), &req); err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid manga field")
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	creator, ok := auth.ResolveActor(c, req.CurrentUser.Username)
	if !ok {
		return
	}
	m, err := h.catalog.CreateManga(creator, catalog.NewManga{
		ID:          req.Manga.ID,
		Title:       req.Manga.Title,
		Description: req.Manga.Description,
		Genres:      req.Manga.Genres,
		Rating:      req.Manga.Rating,
		CoverURL:    req.Manga.CoverURL,
	}, cover)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{
		"message": "Manga added",
		"mangaId": m.ID,
		"manga":   m,
	})
}

// GetLatest returns the newest manga, at most 10
func (h *Handler) GetLatest(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.catalog.Latest(limit)
	if err != nil {
		logger.Error("latest_manga_failed", "error", err)
		utils.Fail(c, http.StatusInternalServerError, "failed to load manga")
		return
	}
	if len(list) == 0 && h.demoFallback {
		list = catalog.DemoCatalog(time.Now())
		if limit > 0 && limit < len(list) {
			list = list[:limit]
		}
		utils.OK(c, http.StatusOK, gin.H{"manga": list, "demo": true})
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"manga": list})
}

// GetMangaByID gets a manga by its id
func (h *Handler) GetMangaByID(c *gin.Context) {
	m, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"manga": m})
}

// formImage reads an optional file field. A missing field yields nil.
func formImage(c *gin.Context, field string) (*catalog.Image, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
			return nil, catalog.ErrTooLarge
		}
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, catalog.ErrMissingField
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, upload.MaxImageSize+1))
	if err != nil {
		return nil, catalog.ErrUploadFailed
	}
	return &catalog.Image{Data: data, MimeType: header.Header.Get("Content-Type")}, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrMissingField),
		errors.Is(err, catalog.ErrInvalidRating),
		errors.Is(err, catalog.ErrInvalidID),
		errors.Is(err, catalog.ErrDuplicateID),
		errors.Is(err, catalog.ErrBadFileType),
		errors.Is(err, catalog.ErrTooLarge):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, catalog.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, catalog.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrUploadFailed):
		logger.Error("cover_upload_failed", "error", err)
		utils.Fail(c, status, catalog.ErrUploadFailed.Error())
		return
	default:
		logger.Error("manga_request_failed", "path", c.FullPath(), "error", err)
		utils.Fail(c, status, "internal server error")
		return
	}
	utils.Fail(c, status, err.Error())
}
