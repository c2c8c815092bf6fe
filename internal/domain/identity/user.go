package identity

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/floresya/backend/internal/domain/shared"
)

// Role represents a user role
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Password cost for bcrypt
const bcryptCost = 12

// User represents a customer or administrator account.
// Guest checkout is allowed, so most orders reference no user at all.
type User struct {
	shared.BaseAggregateRoot
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	FullName      string     `gorm:"not null" json:"full_name"`
	Phone         string     `json:"phone"`
	PasswordHash  string     `gorm:"column:password_hash" json:"-"`
	Role          Role       `gorm:"type:varchar(10);not null;default:'user'" json:"role"`
	EmailVerified bool       `gorm:"not null;default:false" json:"email_verified"`
	IsActive      bool       `gorm:"not null" json:"is_active"`
	LastLoginAt   *time.Time `json:"last_login_at"`
	DeletedAt     *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user.
// A password is required for admins; plain customers may register
// without one (they authenticate via order lookup links).
func NewUser(email, fullName, phone, password string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be user or admin")
	}
	if role == RoleAdmin && password == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Admin accounts require a password")
	}

	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FullName:          strings.TrimSpace(fullName),
		Phone:             strings.TrimSpace(phone),
		Role:              role,
		IsActive:          true,
	}

	if password != "" {
		if err := u.SetPassword(password); err != nil {
			return nil, err
		}
	}

	return u, nil
}

// UpdateProfile updates the user's editable profile fields
func (u *User) UpdateProfile(fullName, phone string) error {
	if strings.TrimSpace(fullName) == "" {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	u.FullName = strings.TrimSpace(fullName)
	u.Phone = strings.TrimSpace(phone)
	u.UpdatedAt = time.Now()
	return nil
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// VerifyEmail marks the email address as verified
func (u *User) VerifyEmail() {
	u.EmailVerified = true
	u.UpdatedAt = time.Now()
}

// RecordLogin records a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Deactivate soft deletes the user account
func (u *User) Deactivate() error {
	if !u.IsActive {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}
	now := time.Now()
	u.IsActive = false
	u.DeletedAt = &now
	u.UpdatedAt = now
	return nil
}

// Reactivate restores a deactivated user account
func (u *User) Reactivate() error {
	if u.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.IsActive = true
	u.DeletedAt = nil
	u.UpdatedAt = time.Now()
	return nil
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanLogin returns true if the account can authenticate
func (u *User) CanLogin() bool {
	return u.IsActive && u.PasswordHash != ""
}

// Validation functions

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}

	return nil
}
