package test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/binhbb2204/manga-catalog/internal/auth"
	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/binhbb2204/manga-catalog/pkg/utils"
	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret-key-32-characters!!"

func init() {
	logger.Init(logger.ERROR, false, nil)
	gin.SetMode(gin.TestMode)
}

func setupRouter(blacklist *auth.Blacklist) *gin.Engine {
	router := gin.New()
	router.Use(auth.AuthMiddleware(testSecret, blacklist))
	router.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": auth.CurrentUser(c)})
	})
	router.POST("/act", func(c *gin.Context) {
		if _, ok := auth.ResolveActor(c, c.Query("as")); !ok {
			return
		}
		c.Status(http.StatusNoContent)
	})
	return router
}

func request(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	router := setupRouter(auth.NewBlacklist())
	if w := request(router, "GET", "/me", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestMiddlewareRejectsInvalidToken(t *testing.T) {
	router := setupRouter(auth.NewBlacklist())
	if w := request(router, "GET", "/me", "not-a-token"); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	other, _ := utils.GenerateJWT("alice", "alice", "user", "another-secret")
	if w := request(router, "GET", "/me", other); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for foreign signature, got %d", w.Code)
	}
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	router := setupRouter(auth.NewBlacklist())
	token, err := utils.GenerateJWT("alice", "alice", "user", testSecret)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	w := request(router, "GET", "/me", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != `{"username":"alice"}` {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestMiddlewareRejectsRevokedToken(t *testing.T) {
	blacklist := auth.NewBlacklist()
	router := setupRouter(blacklist)
	token, _ := utils.GenerateJWT("alice", "alice", "user", testSecret)

	blacklist.Revoke(token, time.Now().Add(time.Hour))
	if w := request(router, "GET", "/me", token); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for revoked token, got %d", w.Code)
	}
}

func TestBlacklistPrunesExpired(t *testing.T) {
	blacklist := auth.NewBlacklist()
	blacklist.Revoke("old", time.Now().Add(-time.Minute))
	blacklist.Revoke("new", time.Now().Add(time.Hour))
	if blacklist.IsRevoked("old") {
		t.Error("expired token should have been pruned")
	}
	if !blacklist.IsRevoked("new") || blacklist.Len() != 1 {
		t.Errorf("unexpected blacklist state, len=%d", blacklist.Len())
	}
}

func TestResolveActor(t *testing.T) {
	router := setupRouter(nil)
	token, _ := utils.GenerateJWT("alice", "alice", "user", testSecret)

	if w := request(router, "POST", "/act", token); w.Code != http.StatusNoContent {
		t.Errorf("expected 204 without claimed actor, got %d", w.Code)
	}
	if w := request(router, "POST", "/act?as=alice", token); w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for matching actor, got %d", w.Code)
	}
	if w := request(router, "POST", "/act?as=bob", token); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for mismatched actor, got %d", w.Code)
	}
}
