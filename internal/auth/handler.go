package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/binhbb2204/manga-catalog/internal/account"
	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/binhbb2204/manga-catalog/pkg/models"
	"github.com/binhbb2204/manga-catalog/pkg/utils"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	JWTSecret string
	accounts  *account.Service
	blacklist *Blacklist
}

func NewHandler(jwtSecret string, accounts *account.Service, blacklist *Blacklist) *Handler {
	if blacklist == nil {
		blacklist = NewBlacklist()
	}
	return &Handler{
		JWTSecret: jwtSecret,
		accounts:  accounts,
		blacklist: blacklist,
	}
}

func (h *Handler) Blacklist() *Blacklist { return h.blacklist }

func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.accounts.Register(req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.issue(c, u, "Registration successful")
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		utils.Fail(c, http.StatusOK, account.ErrMissingField.Error())
		return
	}

	u, err := h.accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) || errors.Is(err, account.ErrBadCredentials) {
			utils.Fail(c, http.StatusOK, account.ErrBadCredentials.Error())
			return
		}
		h.fail(c, err)
		return
	}
	h.issue(c, u, "Login successful")
}

func (h *Handler) issue(c *gin.Context, u *models.User, message string) {
	token, err := utils.GenerateJWT(u.Username, u.Username, string(u.Role), h.JWTSecret)
	if err != nil {
		logger.Error("token_generation_failed", "username", u.Username, "error", err)
		utils.Fail(c, http.StatusInternalServerError, "failed to generate token")
		return
	}
	c.JSON(http.StatusOK, models.AuthResponse{
		Success:   true,
		Message:   message,
		Token:     token,
		ExpiresAt: time.Now().Add(utils.TokenTTL),
		User:      u.Public(),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	token := c.GetString(CtxTokenKey)
	if token == "" {
		utils.Fail(c, http.StatusUnauthorized, "authorization required")
		return
	}
	expiry, _ := c.Get(CtxExpiryKey)
	exp, _ := expiry.(time.Time)
	h.blacklist.Revoke(token, exp)
	logger.Info("user_logged_out", "username", CurrentUser(c))
	utils.OK(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	username, ok := ResolveActor(c, "")
	if !ok {
		return
	}
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "currentPassword and newPassword are required")
		return
	}
	if err := h.accounts.ChangePassword(username, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(c, err)
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// fail reports domain errors as success:false with status 200 and hides
// anything else behind a generic 500.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, account.ErrMissingField),
		errors.Is(err, account.ErrInvalidUsername),
		errors.Is(err, account.ErrWeakPassword),
		errors.Is(err, account.ErrInvalidEmail),
		errors.Is(err, account.ErrDuplicateUsername),
		errors.Is(err, account.ErrDuplicateEmail),
		errors.Is(err, account.ErrBadCredentials):
		utils.Fail(c, http.StatusOK, err.Error())
	case errors.Is(err, account.ErrNotFound):
		utils.Fail(c, http.StatusNotFound, err.Error())
	default:
		logger.Error("auth_request_failed", "path", c.FullPath(), "error", err)
		utils.Fail(c, http.StatusInternalServerError, "internal server error")
	}
}
