package model

import (
	"strings"
	"time"
)

// Account roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account holds login credentials for a player. The password hash never
// leaves the server.
type Account struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLogin    time.Time `json:"lastLogin"`
}

// Registration is the body of a sign-up request.
type Registration struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Validate normalises and checks the registration.
func (r *Registration) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = NormalizeEmail(r.Email)
	return check(r)
}

// Credentials is the body of a login request.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate normalises and checks the credentials.
func (c *Credentials) Validate() error {
	c.Email = NormalizeEmail(c.Email)
	return check(c)
}

// NormalizeEmail lower-cases and trims an address for lookups.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Session describes an authenticated client.
type Session struct {
	UserID          string    `json:"userId"`
	Username        string    `json:"username"`
	Role            string    `json:"role"`
	LoginTime       time.Time `json:"loginTime"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}

// Session builds the session view of a logged in account.
func (a Account) Session(loginTime time.Time) Session {
	return Session{
		UserID:          a.UserID,
		Username:        a.Username,
		Role:            a.Role,
		LoginTime:       loginTime,
		IsAuthenticated: true,
	}
}

// IsAdmin reports whether the session may manage content.
func (s Session) IsAdmin() bool {
	return s.IsAuthenticated && s.Role == RoleAdmin
}

// AuthResult is returned by register and login. User is nil for accounts
// without a player record, such as the seeded admin.
type AuthResult struct {
	Token   string  `json:"token"`
	Session Session `json:"session"`
	User    *User   `json:"user"`
}
