package routes

import (
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/handlers"
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// TaskRoutes handles the setup of task-related routes
type TaskRoutes struct {
	handler   *handlers.TaskHandler
	jwtSecret string
}

// NewTaskRoutes creates a new TaskRoutes instance
func NewTaskRoutes(handler *handlers.TaskHandler, jwtSecret string) *TaskRoutes {
	return &TaskRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers all task-related routes
func (tr *TaskRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	taskGroup := router.Group("/api/tasks")
	taskGroup.Use(middleware.NewAuthMiddleware(tr.jwtSecret))

	// Static segments before the :id wildcard
	taskGroup.GET("/my-tasks", tr.handler.ListMyTasks)
	taskGroup.GET("/project/:projectId", cache.CacheResponse(), tr.handler.ListProjectTasks)

	taskGroup.POST("", cache.CacheInvalidate(), tr.handler.CreateTask)
	taskGroup.GET("/:id", tr.handler.GetTask)
	taskGroup.PUT("/:id", cache.CacheInvalidate(), tr.handler.UpdateTask)
	taskGroup.PATCH("/:id/status", cache.CacheInvalidate(), tr.handler.UpdateTaskStatus)
	taskGroup.DELETE("/:id", cache.CacheInvalidate(), tr.handler.DeleteTask)

	taskGroup.GET("/:id/members", tr.handler.ListTaskMembers)
	taskGroup.POST("/:id/members", cache.CacheInvalidate(), tr.handler.AddTaskMember)
	taskGroup.PUT("/:id/members/:userId", cache.CacheInvalidate(), tr.handler.UpdateTaskMemberRole)
	taskGroup.DELETE("/:id/members/:userId", cache.CacheInvalidate(), tr.handler.RemoveTaskMember)
}
