package auth

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/binhbb2204/manga-catalog/pkg/utils"
	"github.com/gin-gonic/gin"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUsernameKey = "username"
	CtxTokenKey    = "token"
	CtxExpiryKey   = "token_expiry"
)

// Blacklist holds logged-out tokens until they would have expired anyway.
type Blacklist struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func NewBlacklist() *Blacklist {
	return &Blacklist{tokens: make(map[string]time.Time)}
}

func (b *Blacklist) Revoke(token string, expiresAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = expiresAt
	b.pruneLocked(time.Now())
}

func (b *Blacklist) IsRevoked(token string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.tokens[token]
	return ok
}

func (b *Blacklist) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.tokens)
}

func (b *Blacklist) pruneLocked(now time.Time) {
	for t, exp := range b.tokens {
		if !exp.IsZero() && now.After(exp) {
			delete(b.tokens, t)
		}
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return token, token != ""
}

// AuthMiddleware requires a valid, non-revoked bearer token and stores the
// caller's identity in the gin context.
func AuthMiddleware(secret string, blacklist *Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.AbortFail(c, http.StatusUnauthorized, "authorization required")
			return
		}
		claims, err := utils.ValidateJWT(token, secret)
		if err != nil {
			utils.AbortFail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if blacklist != nil && blacklist.IsRevoked(token) {
			utils.AbortFail(c, http.StatusUnauthorized, "token has been revoked")
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUsernameKey, claims.Username)
		c.Set(CtxTokenKey, token)
		if claims.ExpiresAt != nil {
			c.Set(CtxExpiryKey, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// CurrentUser returns the username set by AuthMiddleware.
func CurrentUser(c *gin.Context) string {
	return c.GetString(CtxUsernameKey)
}

// ResolveActor returns the authenticated username. Older clients also name
// the actor in the request body; such a name must match the token or the
// request is rejected with 403.
func ResolveActor(c *gin.Context, claimed string) (string, bool) {
	username := CurrentUser(c)
	if username == "" {
		utils.AbortFail(c, http.StatusUnauthorized, "authorization required")
		return "", false
	}
	if claimed != "" && claimed != username {
		utils.AbortFail(c, http.StatusForbidden, "request user does not match token")
		return "", false
	}
	return username, true
}
