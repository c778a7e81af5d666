package handlers

import (
	"net/http"

	"github.com/buihuuthinh2018/backend-crm-task/internal/api/dto"
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/middleware"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	service user.Service
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// GetMe godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse "Profile retrieved"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /api/users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToUserResponse(u)})
}

// UpdateMe godoc
// @Summary Update the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile update request"
// @Success 200 {object} dto.UserResponse "Profile updated"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /api/users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), userID, user.UpdateProfileInput{
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToUserResponse(u)})
}

// ListUsers godoc
// @Summary List active users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserListResponse "Users retrieved"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToUserListResponse(users)})
}

// SearchUsers godoc
// @Summary Search users by name or email
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Success 200 {object} dto.UserListResponse "Matching users"
// @Failure 400 {object} map[string]string "Missing query"
// @Router /api/users/search [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	users, err := h.service.SearchUsers(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToUserListResponse(users)})
}
