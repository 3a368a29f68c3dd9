package user

import (
	"strings"
	"time"
)

// Level assigned to every account created through registration.
const LevelStandard = "standard"

type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"-"` // bcrypt hash, never exposed in JSON
	Level     string `json:"level"`
	CreatedAt int64  `json:"createdAt"` // epoch millis
	UpdatedAt int64  `json:"updatedAt"`

	// Most recently issued session token. The authorizer treats any
	// other token for this user as superseded.
	LastToken string `json:"-"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateRequest carries a partial profile change. Empty fields are left
// untouched.
type UpdateRequest struct {
	FirstName string `json:"firstName" binding:"omitempty"`
	LastName  string `json:"lastName" binding:"omitempty"`
	Email     string `json:"email" binding:"omitempty,email"`
	Password  string `json:"password" binding:"omitempty,min=6"`
}

func (r UpdateRequest) Empty() bool {
	return r.FirstName == "" && r.LastName == "" && r.Email == "" && r.Password == ""
}

// NormalizeEmail canonicalizes an email address for use as the lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func TrimName(name string) string {
	return strings.TrimSpace(name)
}

func NowMillis() int64 {
	return time.Now().UnixMilli()
}
