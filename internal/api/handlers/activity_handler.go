package handlers

import (
	"net/http"
	"strconv"

	"github.com/buihuuthinh2018/backend-crm-task/internal/api/dto"
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/middleware"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/activity"
	"github.com/gin-gonic/gin"
)

// ActivityHandler handles HTTP requests for the audit trail
type ActivityHandler struct {
	service activity.Service
}

// NewActivityHandler creates a new ActivityHandler instance
func NewActivityHandler(service activity.Service) *ActivityHandler {
	return &ActivityHandler{service: service}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

// ListByProject godoc
// @Summary List a project's activity log
// @Description Owners see every entry; members only see their own actions
// @Tags activity-logs
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID" format(uuid)
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ActivityLogListResponse "Log entries retrieved"
// @Failure 404 {object} map[string]string "Project not found"
// @Router /api/activity-logs/project/{projectId} [get]
func (h *ActivityHandler) ListByProject(c *gin.Context) {
	actorID, projectID, ok := actorAndID(c, "projectId")
	if !ok {
		return
	}

	limit, offset := pagination(c)
	page, err := h.service.ListByProject(c.Request.Context(), projectID, actorID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToActivityLogListResponse(page)})
}

// ListByTask godoc
// @Summary List a task's activity log
// @Description Any member of the task's project sees every entry for the task
// @Tags activity-logs
// @Produce json
// @Security BearerAuth
// @Param taskId path string true "Task ID" format(uuid)
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ActivityLogListResponse "Log entries retrieved"
// @Failure 404 {object} map[string]string "Task not found"
// @Router /api/activity-logs/task/{taskId} [get]
func (h *ActivityHandler) ListByTask(c *gin.Context) {
	actorID, taskID, ok := actorAndID(c, "taskId")
	if !ok {
		return
	}

	limit, offset := pagination(c)
	page, err := h.service.ListByTask(c.Request.Context(), taskID, actorID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToActivityLogListResponse(page)})
}

// ListMine godoc
// @Summary List the caller's own activity
// @Tags activity-logs
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ActivityLogListResponse "Log entries retrieved"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /api/activity-logs/me [get]
func (h *ActivityHandler) ListMine(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, offset := pagination(c)
	page, err := h.service.ListMine(c.Request.Context(), actorID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToActivityLogListResponse(page)})
}
