package dto

import (
	"time"

	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/user"
	"github.com/google/uuid"
)

// UserResponse represents a user in API responses
// @Description Public user profile information
type UserResponse struct {
	ID        uuid.UUID `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email     string    `json:"email" example:"jane@example.com"`
	Name      string    `json:"name" example:"Jane Doe"`
	Avatar    string    `json:"avatar,omitempty" example:"https://example.com/avatar.png"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// UpdateProfileRequest represents the request body for updating a profile
type UpdateProfileRequest struct {
	Name   *string `json:"name,omitempty" example:"Jane D."`
	Avatar *string `json:"avatar,omitempty" example:"https://example.com/new.png"`
}

// UserListResponse represents a list of users
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total" example:"3"`
}

// ToUserResponse converts a user model to its API representation
func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

// ToUserListResponse converts a slice of user models
func ToUserListResponse(users []user.User) UserListResponse {
	resp := UserListResponse{
		Users: make([]UserResponse, 0, len(users)),
		Total: len(users),
	}
	for i := range users {
		resp.Users = append(resp.Users, ToUserResponse(&users[i]))
	}
	return resp
}
