package routes

import (
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/handlers"
	"github.com/gin-gonic/gin"
)

// AuthRoutes handles the setup of authentication routes
type AuthRoutes struct {
	handler *handlers.AuthHandler
}

// NewAuthRoutes creates a new AuthRoutes instance
func NewAuthRoutes(handler *handlers.AuthHandler) *AuthRoutes {
	return &AuthRoutes{handler: handler}
}

// RegisterRoutes registers the public authentication routes
func (ar *AuthRoutes) RegisterRoutes(router *gin.Engine) {
	authGroup := router.Group("/api/auth")

	authGroup.POST("/register", ar.handler.Register)
	authGroup.POST("/login", ar.handler.Login)
}
