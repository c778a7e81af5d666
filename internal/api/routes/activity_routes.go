package routes

import (
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/handlers"
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// ActivityRoutes handles the setup of activity log routes
type ActivityRoutes struct {
	handler   *handlers.ActivityHandler
	jwtSecret string
}

// NewActivityRoutes creates a new ActivityRoutes instance
func NewActivityRoutes(handler *handlers.ActivityHandler, jwtSecret string) *ActivityRoutes {
	return &ActivityRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers all activity log routes
func (ar *ActivityRoutes) RegisterRoutes(router *gin.Engine) {
	logGroup := router.Group("/api/activity-logs")
	logGroup.Use(middleware.NewAuthMiddleware(ar.jwtSecret))

	logGroup.GET("/project/:projectId", ar.handler.ListByProject)
	logGroup.GET("/task/:taskId", ar.handler.ListByTask)
	logGroup.GET("/me", ar.handler.ListMine)
}
