package domain

import (
	"net/mail"
	"strings"
	"time"
)

type Role string

const (
	RoleUser          Role = "user"
	RoleEstablishment Role = "establishment"
	RoleAdmin         Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleEstablishment, RoleAdmin:
		return true
	}
	return false
}

const MinPasswordLen = 6

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// NormalizeEmail trims and lower-cases; emails are unique in that form.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// ValidateCredentials checks the shape of a new account's email and password.
func ValidateCredentials(email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}

func ValidateEmail(email string) error {
	if email == "" {
		return Invalid("email", "required field")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Invalid("email", "invalid address")
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return Invalid("password", "required field")
	}
	if len(password) < MinPasswordLen {
		return Invalid("password", "must have at least 6 characters")
	}
	return nil
}

// UserPatch carries a partial account update; nil fields are left untouched.
// PasswordHash is already hashed.
type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Role         *Role
}

func (p UserPatch) Empty() bool { return p == UserPatch{} }

func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID int64
	Email  string
	Role   Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// CanManage reports whether p may modify the establishment owned by ownerID.
func (p Principal) CanManage(ownerID int64) bool { return p.IsAdmin() || p.UserID == ownerID }
