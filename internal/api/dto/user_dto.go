package dto

import (
	"time"

	"github.com/spec-kit/service-requests/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	FullName        string `json:"fullName"`
	StudentID       string `json:"studentId"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLoginRequest payload for admin login.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public view of an end-user.
type UserResponse struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullName"`
	StudentID string `json:"studentId"`
	Email     string `json:"email"`
}

// AdminResponse is the public view of an administrator.
type AdminResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// NewUserResponse maps a user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, FullName: u.FullName, StudentID: u.StudentID, Email: u.Email}
}

// NewAdminResponse maps an admin.
func NewAdminResponse(a *domain.Admin) AdminResponse {
	return AdminResponse{ID: a.ID, Username: a.Username}
}
