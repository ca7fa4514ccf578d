// internal/core/domain/user.go
package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User is an account allowed to call the API.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	MobileNumber string    `json:"mobile_number"`
	Age          int       `json:"age"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Registration holds the fields submitted to create a user.
type Registration struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	MobileNumber string `json:"mobile_number"`
	Age          int    `json:"age"`
}

// Validate checks presence of every field and the email format.
func (r *Registration) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.MobileNumber = strings.TrimSpace(r.MobileNumber)
	if r.Name == "" || r.Email == "" || r.Password == "" || r.MobileNumber == "" || r.Age == 0 {
		return Invalid("All fields are required")
	}
	if !emailPattern.MatchString(r.Email) {
		return Invalid("Invalid email format")
	}
	if r.Age < 0 {
		return Invalid("age must be positive")
	}
	return nil
}

// Credentials are submitted at login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Credentials) Validate() error {
	c.Email = NormalizeEmail(c.Email)
	if c.Email == "" || c.Password == "" {
		return Invalid("Username or password missing")
	}
	return nil
}

// Session ties an issued token to a user until it expires or is revoked.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
