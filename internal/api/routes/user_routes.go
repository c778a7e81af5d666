package routes

import (
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/handlers"
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// UserRoutes handles the setup of user-related routes
type UserRoutes struct {
	handler   *handlers.UserHandler
	jwtSecret string
}

// NewUserRoutes creates a new UserRoutes instance
func NewUserRoutes(handler *handlers.UserHandler, jwtSecret string) *UserRoutes {
	return &UserRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all user-related routes
func (ur *UserRoutes) RegisterRoutes(router *gin.Engine) {
	userGroup := router.Group("/api/users")
	userGroup.Use(middleware.NewAuthMiddleware(ur.jwtSecret))

	userGroup.GET("/me", ur.handler.GetMe)
	userGroup.PUT("/me", ur.handler.UpdateMe)
	userGroup.GET("", ur.handler.ListUsers)
	userGroup.GET("/search", ur.handler.SearchUsers)
}
