package dto

// RegisterRequest represents the request body for creating an account
// @Description Request body for registering a new user
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"s3cret-pass"`
	Name     string `json:"name" binding:"required" example:"Jane Doe"`
	Avatar   string `json:"avatar,omitempty" example:"https://example.com/avatar.png"`
}

// LoginRequest represents the request body for authentication
// @Description Request body for logging in with email and password
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// AuthResponse contains the issued token and the authenticated user
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
