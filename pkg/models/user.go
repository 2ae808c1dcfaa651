package models

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleUser    Role = "user"
	RoleMangaka Role = "mangaka"
	RoleAdmin   Role = "admin"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleUser, RoleMangaka, RoleAdmin}

// ParseRole accepts only the three known roles.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleMangaka, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Normalize maps a missing or unrecognised stored role to RoleUser.
func (r Role) Normalize() Role {
	if _, err := ParseRole(string(r)); err != nil {
		return RoleUser
	}
	return r
}

// CanPublish reports whether the role may add manga to the catalog.
func (r Role) CanPublish() bool {
	return r == RoleAdmin || r == RoleMangaka
}

type Profile struct {
	Avatar string `json:"avatar"`
}

// User is the stored account document. Field names match the documents
// written by earlier versions of the site.
type User struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password"`
	Role         Role      `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	Bookmarks    []string  `json:"bookmarks"`
	Read         []string  `json:"read"`
	Profile      Profile   `json:"profile"`
}

// PublicUser is the client-facing view of a User.
type PublicUser struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	Bookmarks []string  `json:"bookmarks"`
	Read      []string  `json:"read"`
	Profile   Profile   `json:"profile"`
}

func (u *User) Public() PublicUser {
	p := PublicUser{
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role.Normalize(),
		CreatedAt: u.CreatedAt,
		Bookmarks: u.Bookmarks,
		Read:      u.Read,
		Profile:   u.Profile,
	}
	if p.Bookmarks == nil {
		p.Bookmarks = []string{}
	}
	if p.Read == nil {
		p.Read = []string{}
	}
	return p
}

func PublicUsers(users []User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type MangaListRequest struct {
	Username string `json:"username"`
	MangaID  string `json:"mangaId"`
}

type ChangeStatusRequest struct {
	Username   string `json:"username"`
	StatusCode string `json:"statusCode"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      PublicUser `json:"user"`
}
