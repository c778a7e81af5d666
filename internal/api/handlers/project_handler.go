package handlers

import (
	"net/http"

	"github.com/buihuuthinh2018/backend-crm-task/internal/api/dto"
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/middleware"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/membership"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/project"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectHandler handles HTTP requests for project operations
type ProjectHandler struct {
	service project.Service
}

// NewProjectHandler creates a new ProjectHandler instance
func NewProjectHandler(service project.Service) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func actorAndID(c *gin.Context, param string) (actorID, id uuid.UUID, ok bool) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return uuid.Nil, uuid.Nil, false
	}
	return actorID, id, true
}

// CreateProject godoc
// @Summary Create a new project
// @Description Create a project; the creator becomes its OWNER
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param project body dto.CreateProjectRequest true "Project creation request"
// @Success 201 {object} dto.ProjectResponse "Project created successfully"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /api/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.service.CreateProject(c.Request.Context(), actorID, project.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": dto.ToProjectResponse(p)})
}

// ListProjects godoc
// @Summary List the caller's projects
// @Description List every project the caller is a member of
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param include_archived query bool false "Include archived projects"
// @Success 200 {object} dto.ProjectListResponse "Projects retrieved"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /api/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	includeArchived := c.Query("include_archived") == "true"
	projects, err := h.service.ListProjects(c.Request.Context(), actorID, includeArchived)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToProjectListResponse(projects)})
}

// GetProject godoc
// @Summary Get a project by ID
// @Description Get a project with its members and task count
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} dto.ProjectDetailsResponse "Project details retrieved"
// @Failure 404 {object} map[string]string "Project not found"
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	actorID, id, ok := actorAndID(c, "id")
	if !ok {
		return
	}

	details, err := h.service.GetProject(c.Request.Context(), actorID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToProjectDetailsResponse(details)})
}

// UpdateProject godoc
// @Summary Update a project
// @Description Update project fields; owner only
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Param project body dto.UpdateProjectRequest true "Project update request"
// @Success 200 {object} dto.ProjectResponse "Project updated"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Project not found"
// @Router /api/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	actorID, id, ok := actorAndID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.service.UpdateProject(c.Request.Context(), actorID, id, project.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToProjectResponse(p)})
}

// DeleteProject godoc
// @Summary Archive a project
// @Description Archive a project; owner only. Tasks and logs are retained.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Success 204 "Project archived"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Project not found"
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	actorID, id, ok := actorAndID(c, "id")
	if !ok {
		return
	}

	if err := h.service.ArchiveProject(c.Request.Context(), actorID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMembers godoc
// @Summary List project members
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {array} dto.ProjectMemberResponse "Members retrieved"
// @Failure 404 {object} map[string]string "Project not found"
// @Router /api/projects/{id}/members [get]
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	actorID, id, ok := actorAndID(c, "id")
	if !ok {
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), actorID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.ProjectMemberResponse, 0, len(members))
	for i := range members {
		resp = append(resp, dto.ToProjectMemberResponse(&members[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// AddMember godoc
// @Summary Add a project member
// @Description Add a user to the project; owner only
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Param member body dto.AddProjectMemberRequest true "Member to add"
// @Success 201 {object} dto.ProjectMemberResponse "Member added"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Already a member"
// @Router /api/projects/{id}/members [post]
func (h *ProjectHandler) AddMember(c *gin.Context) {
	actorID, id, ok := actorAndID(c, "id")
	if !ok {
		return
	}

	var req dto.AddProjectMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.service.AddMember(c.Request.Context(), actorID, id, req.UserID, membership.ProjectRole(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": dto.ToProjectMemberResponse(m)})
}

// UpdateMemberRole godoc
// @Summary Change a project member's role
// @Description Change a member's role; owner only, never their own row
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Param userId path string true "Member user ID" format(uuid)
// @Param member body dto.UpdateProjectMemberRequest true "New role"
// @Success 200 {object} dto.ProjectMemberResponse "Role updated"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Member not found"
// @Router /api/projects/{id}/members/{userId} [put]
func (h *ProjectHandler) UpdateMemberRole(c *gin.Context) {
	actorID, id, ok := actorAndID(c, "id")
	if !ok {
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
		return
	}

	var req dto.UpdateProjectMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.service.UpdateMemberRole(c.Request.Context(), actorID, id, memberID, membership.ProjectRole(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToProjectMemberResponse(m)})
}

// RemoveMember godoc
// @Summary Remove a project member
// @Description Remove a member and all their task assignments in the project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Param userId path string true "Member user ID" format(uuid)
// @Success 204 "Member removed"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Member not found"
// @Router /api/projects/{id}/members/{userId} [delete]
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	actorID, id, ok := actorAndID(c, "id")
	if !ok {
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), actorID, id, memberID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
