package handlers

import (
	"net/http"

	"github.com/buihuuthinh2018/backend-crm-task/internal/api/dto"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/user"
	"github.com/buihuuthinh2018/backend-crm-task/pkg/config"
	"github.com/buihuuthinh2018/backend-crm-task/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	users user.Service
	cfg   *config.AuthConfig
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(users user.Service, cfg *config.AuthConfig) *AuthHandler {
	return &AuthHandler{users: users, cfg: cfg}
}

// Register godoc
// @Summary Register a new account
// @Description Create a user account and return a signed token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 201 {object} dto.AuthResponse "Account created"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Email already registered"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.users.Register(c.Request.Context(), user.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Avatar:   req.Avatar,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.GenerateToken(u.ID, u.Email, h.cfg.JWTSecret, h.cfg.JWTIssuer, h.cfg.JWTExpiryHours)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.AuthResponse{
		Token: token,
		User:  dto.ToUserResponse(u),
	}})
}

// Login godoc
// @Summary Log in with email and password
// @Description Authenticate a user and return a signed token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.AuthResponse "Authenticated"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.GenerateToken(u.ID, u.Email, h.cfg.JWTSecret, h.cfg.JWTIssuer, h.cfg.JWTExpiryHours)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.AuthResponse{
		Token: token,
		User:  dto.ToUserResponse(u),
	}})
}
