package dto

import "github.com/spec-kit/store-service/internal/service"

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Username string `json:"username" xml:"username" form:"username" validate:"required"`
	Email    string `json:"email" xml:"email" form:"email" validate:"required,email"`
	Password string `json:"password" xml:"password" form:"password" validate:"required"`
	Role     *int   `json:"role,omitempty" xml:"role,omitempty" form:"role"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" xml:"email" form:"email" validate:"required"`
	Password string `json:"password" xml:"password" form:"password" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
	UserRole int    `json:"userRole"`
}

// NewAuthResponse flattens a session for the client.
func NewAuthResponse(s *service.Session) AuthResponse {
	return AuthResponse{
		UserID:   s.User.ID,
		Username: s.User.Username,
		Email:    s.User.Email,
		Token:    s.Token,
		UserRole: int(s.User.Role),
	}
}
