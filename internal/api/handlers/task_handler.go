package handlers

import (
	"net/http"

	"github.com/buihuuthinh2018/backend-crm-task/internal/api/dto"
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/middleware"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/membership"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/task"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskHandler handles HTTP requests for task operations
type TaskHandler struct {
	service task.Service
}

// NewTaskHandler creates a new TaskHandler instance
func NewTaskHandler(service task.Service) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTask godoc
// @Summary Create a new task
// @Description Create a task or subtask; the creator becomes its PRIMARY assignee
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param task body dto.CreateTaskRequest true "Task creation request"
// @Success 201 {object} dto.TaskResponse "Task created"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Project or parent not found"
// @Router /api/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.service.CreateTask(c.Request.Context(), actorID, task.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		ParentID:    req.ParentID,
		Status:      task.TaskStatus(req.Status),
		Priority:    task.TaskPriority(req.Priority),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": dto.ToTaskResponse(t)})
}

// GetTask godoc
// @Summary Get a task by ID
// @Description Get a task with its subtasks and assignees
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Success 200 {object} dto.TaskDetailsResponse "Task details retrieved"
// @Failure 404 {object} map[string]string "Task not found"
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	actorID, id, ok := actorAndID(c, "id")
	if !ok {
		return
	}

	details, err := h.service.GetTask(c.Request.Context(), actorID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToTaskDetailsResponse(details)})
}

// ListProjectTasks godoc
// @Summary List tasks in a project
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID" format(uuid)
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param top_level query bool false "Only top-level tasks"
// @Success 200 {object} dto.TaskListResponse "Tasks retrieved"
// @Failure 404 {object} map[string]string "Project not found"
// @Router /api/tasks/project/{projectId} [get]
func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	actorID, projectID, ok := actorAndID(c, "projectId")
	if !ok {
		return
	}

	var filter task.Filter
	if s := c.Query("status"); s != "" {
		status := task.TaskStatus(s)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
		filter.Status = &status
	}
	if p := c.Query("priority"); p != "" {
		priority := task.TaskPriority(p)
		if !priority.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority filter"})
			return
		}
		filter.Priority = &priority
	}
	filter.TopLevelOnly = c.Query("top_level") == "true"

	tasks, err := h.service.ListProjectTasks(c.Request.Context(), actorID, projectID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToTaskListResponse(tasks)})
}

// ListMyTasks godoc
// @Summary List tasks assigned to the caller
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TaskListResponse "Tasks retrieved"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /api/tasks/my-tasks [get]
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	tasks, err := h.service.ListMyTasks(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToTaskListResponse(tasks)})
}

// UpdateTask godoc
// @Summary Update a task
// @Description Update task fields; project owner, task creator or PRIMARY only
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Param task body dto.UpdateTaskRequest true "Task update request"
// @Success 200 {object} dto.TaskResponse "Task updated"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Task not found"
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actorID, id, ok := actorAndID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := task.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ParentID:    req.ParentID,
	}
	if req.Status != nil {
		status := task.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := task.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	t, err := h.service.UpdateTask(c.Request.Context(), actorID, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToTaskResponse(t)})
}

// UpdateTaskStatus godoc
// @Summary Update a task's status
// @Description Move a task to a new status; any project member may do this
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Param status body dto.UpdateTaskStatusRequest true "New status"
// @Success 200 {object} dto.TaskResponse "Status updated"
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 404 {object} map[string]string "Task not found"
// @Router /api/tasks/{id}/status [patch]
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	actorID, id, ok := actorAndID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.service.UpdateTaskStatus(c.Request.Context(), actorID, id, task.TaskStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToTaskResponse(t)})
}

// DeleteTask godoc
// @Summary Delete a task
// @Description Delete a task with its subtasks and assignments; project owner or task creator only
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Success 204 "Task deleted"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Task not found"
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actorID, id, ok := actorAndID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), actorID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTaskMembers godoc
// @Summary List task assignees
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Success 200 {array} dto.TaskMemberResponse "Assignees retrieved"
// @Failure 404 {object} map[string]string "Task not found"
// @Router /api/tasks/{id}/members [get]
func (h *TaskHandler) ListTaskMembers(c *gin.Context) {
	actorID, id, ok := actorAndID(c, "id")
	if !ok {
		return
	}

	members, err := h.service.ListTaskMembers(c.Request.Context(), actorID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.TaskMemberResponse, 0, len(members))
	for i := range members {
		resp = append(resp, dto.ToTaskMemberResponse(&members[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// AddTaskMember godoc
// @Summary Assign a user to a task
// @Description Assign a project member to the task. Assigning a new PRIMARY demotes the current one.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Param member body dto.AddTaskMemberRequest true "Assignment request"
// @Success 201 {object} dto.TaskMemberResponse "User assigned"
// @Failure 400 {object} map[string]string "Not a project member"
// @Failure 409 {object} map[string]string "Already assigned"
// @Router /api/tasks/{id}/members [post]
func (h *TaskHandler) AddTaskMember(c *gin.Context) {
	actorID, id, ok := actorAndID(c, "id")
	if !ok {
		return
	}

	var req dto.AddTaskMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.service.AddTaskMember(c.Request.Context(), actorID, id, req.UserID, membership.TaskRole(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": dto.ToTaskMemberResponse(m)})
}

// UpdateTaskMemberRole godoc
// @Summary Change a task assignee's role
// @Description Promote or demote an assignee. Promoting to PRIMARY demotes the current one.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Param userId path string true "Assignee user ID" format(uuid)
// @Param member body dto.UpdateTaskMemberRequest true "New role"
// @Success 200 {object} dto.TaskMemberResponse "Role updated"
// @Failure 404 {object} map[string]string "Assignee not found"
// @Router /api/tasks/{id}/members/{userId} [put]
func (h *TaskHandler) UpdateTaskMemberRole(c *gin.Context) {
	actorID, id, ok := actorAndID(c, "id")
	if !ok {
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
		return
	}

	var req dto.UpdateTaskMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.service.UpdateTaskMemberRole(c.Request.Context(), actorID, id, memberID, membership.TaskRole(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToTaskMemberResponse(m)})
}

// RemoveTaskMember godoc
// @Summary Unassign a user from a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" format(uuid)
// @Param userId path string true "Assignee user ID" format(uuid)
// @Success 204 "User unassigned"
// @Failure 404 {object} map[string]string "Assignee not found"
// @Router /api/tasks/{id}/members/{userId} [delete]
func (h *TaskHandler) RemoveTaskMember(c *gin.Context) {
	actorID, id, ok := actorAndID(c, "id")
	if !ok {
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
		return
	}

	if err := h.service.RemoveTaskMember(c.Request.Context(), actorID, id, memberID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
