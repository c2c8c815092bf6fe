package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/floresya/backend/internal/domain/identity"
)

// CreateUserRequest registers a new user account
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	FullName string `json:"full_name" binding:"required,min=1,max=200"`
	Phone    string `json:"phone" binding:"max=30"`
	Password string `json:"password" binding:"omitempty,min=8,max=128"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

// UpdateProfileRequest updates a user's profile
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required,min=1,max=200"`
	Phone    string `json:"phone" binding:"max=30"`
}

// ChangePasswordRequest replaces a user's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// LoginRequest authenticates an admin or registered customer
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token pair
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// UserListFilter represents user list filtering options
type UserListFilter struct {
	Page     int
	PageSize int
	Search   string
	Role     *identity.Role
	IsActive *bool
}

// UserResponse represents a user in responses
type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	FullName      string     `json:"full_name"`
	Phone         string     `json:"phone,omitempty"`
	Role          string     `json:"role"`
	EmailVerified bool       `json:"email_verified"`
	IsActive      bool       `json:"is_active"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToUserResponse converts a domain user to a response DTO
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		Phone:         u.Phone,
		Role:          u.Role.String(),
		EmailVerified: u.EmailVerified,
		IsActive:      u.IsActive,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
	}
}

// ToUserResponses converts domain users to response DTOs
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}
