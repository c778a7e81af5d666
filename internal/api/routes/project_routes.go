package routes

import (
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/handlers"
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// ProjectRoutes handles the setup of project-related routes
type ProjectRoutes struct {
	handler   *handlers.ProjectHandler
	jwtSecret string
}

// NewProjectRoutes creates a new ProjectRoutes instance
func NewProjectRoutes(handler *handlers.ProjectHandler, jwtSecret string) *ProjectRoutes {
	return &ProjectRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers all project-related routes
func (pr *ProjectRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	projectGroup := router.Group("/api/projects")
	projectGroup.Use(middleware.NewAuthMiddleware(pr.jwtSecret))

	projectGroup.POST("", cache.CacheInvalidate(), pr.handler.CreateProject)
	projectGroup.GET("", cache.CacheResponse(), pr.handler.ListProjects)
	projectGroup.GET("/:id", cache.CacheResponse(), pr.handler.GetProject)
	projectGroup.PUT("/:id", cache.CacheInvalidate(), pr.handler.UpdateProject)
	projectGroup.DELETE("/:id", cache.CacheInvalidate(), pr.handler.DeleteProject)

	projectGroup.GET("/:id/members", pr.handler.ListMembers)
	projectGroup.POST("/:id/members", cache.CacheInvalidate(), pr.handler.AddMember)
	projectGroup.PUT("/:id/members/:userId", cache.CacheInvalidate(), pr.handler.UpdateMemberRole)
	projectGroup.DELETE("/:id/members/:userId", cache.CacheInvalidate(), pr.handler.RemoveMember)
}
