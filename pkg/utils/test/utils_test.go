package test

import (
	"strings"
	"testing"
	"time"

	"github.com/binhbb2204/manga-catalog/pkg/utils"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := utils.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash equals plaintext")
	}
	if err := utils.CheckPassword(hash, "secret1"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := utils.CheckPassword(hash, "secret2"); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := utils.GenerateJWT("id-1", "alice", "admin", "secret")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := utils.ValidateJWT(token, "secret")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Username != "alice" || claims.UserID != "id-1" || claims.Role != "admin" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if _, err := utils.ValidateJWT(token, "other"); err == nil {
		t.Error("token accepted with wrong secret")
	}
}

func TestJWTExpiry(t *testing.T) {
	prev := utils.TokenTTL
	utils.TokenTTL = -time.Minute
	defer func() { utils.TokenTTL = prev }()

	token, err := utils.GenerateJWT("id-1", "alice", "user", "secret")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := utils.ValidateJWT(token, "secret"); err == nil {
		t.Error("expired token accepted")
	}
}

func TestGenerateDigits(t *testing.T) {
	for i := 0; i < 20; i++ {
		id, err := utils.GenerateDigits(11)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !utils.IsDigits(id, 11) {
			t.Fatalf("not 11 digits: %q", id)
		}
	}
	if utils.IsDigits("1234567890a", 11) || utils.IsDigits("123", 11) {
		t.Error("IsDigits accepted invalid input")
	}
}

func TestGenerateID(t *testing.T) {
	a, _ := utils.GenerateID(8)
	b, _ := utils.GenerateID(8)
	if len(a) != 16 || a == b || strings.Trim(a, "0123456789abcdef") != "" {
		t.Errorf("unexpected ids %q %q", a, b)
	}
}
