package dto

import (
	"time"

	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/membership"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/project"
	"github.com/google/uuid"
)

// CreateProjectRequest represents the request body for creating a new project
// @Description Request body for creating a new project in the system
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required" example:"Website Redesign"`
	Description string `json:"description" example:"Relaunch of the marketing site"`
	Color       string `json:"color" example:"#3B82F6"`
}

// UpdateProjectRequest represents the request body for updating an existing project
// @Description Request body for updating project information
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" example:"Website Redesign v2"`
	Description *string `json:"description,omitempty" example:"Updated scope"`
	Color       *string `json:"color,omitempty" example:"#10B981"`
}

// ProjectResponse represents a project in API responses
// @Description Project information returned in API responses
type ProjectResponse struct {
	ID          uuid.UUID `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name        string    `json:"name" example:"Website Redesign"`
	Description string    `json:"description" example:"Relaunch of the marketing site"`
	Color       string    `json:"color" example:"#3B82F6"`
	IsArchived  bool      `json:"is_archived" example:"false"`
	CreatedAt   time.Time `json:"created_at" example:"2024-01-01T00:00:00Z"`
	UpdatedAt   time.Time `json:"updated_at" example:"2024-01-01T00:00:00Z"`
}

// ProjectDetailsResponse represents detailed project information including members
// @Description Detailed project information with related data
type ProjectDetailsResponse struct {
	Project    ProjectResponse         `json:"project"`
	Members    []ProjectMemberResponse `json:"members"`
	TasksCount int64                   `json:"tasks_count" example:"20"`
}

// ProjectMemberResponse represents a project member in API responses
// @Description Project member information
type ProjectMemberResponse struct {
	UserID   uuid.UUID `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Role     string    `json:"role" example:"MEMBER"`
	JoinedAt time.Time `json:"joined_at" example:"2024-03-15T09:00:00Z"`
}

// AddProjectMemberRequest represents the request body for adding a member
type AddProjectMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Role   string    `json:"role" example:"MEMBER"`
}

// UpdateProjectMemberRequest represents the request body for changing a member's role
type UpdateProjectMemberRequest struct {
	Role string `json:"role" binding:"required" example:"OWNER"`
}

// ProjectListResponse represents a list of the caller's projects
type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int               `json:"total" example:"4"`
}

// ToProjectResponse converts a project model to its API representation
func ToProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Color:       p.Color,
		IsArchived:  p.IsArchived,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProjectMemberResponse converts a membership row
func ToProjectMemberResponse(m *membership.ProjectMember) ProjectMemberResponse {
	return ProjectMemberResponse{
		UserID:   m.UserID,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
}

// ToProjectDetailsResponse converts a project with its members and task count
func ToProjectDetailsResponse(d *project.Details) ProjectDetailsResponse {
	resp := ProjectDetailsResponse{
		Project:    ToProjectResponse(d.Project),
		Members:    make([]ProjectMemberResponse, 0, len(d.Members)),
		TasksCount: d.TasksCount,
	}
	for i := range d.Members {
		resp.Members = append(resp.Members, ToProjectMemberResponse(&d.Members[i]))
	}
	return resp
}

// ToProjectListResponse converts a slice of project models
func ToProjectListResponse(projects []project.Project) ProjectListResponse {
	resp := ProjectListResponse{
		Projects: make([]ProjectResponse, 0, len(projects)),
		Total:    len(projects),
	}
	for i := range projects {
		resp.Projects = append(resp.Projects, ToProjectResponse(&projects[i]))
	}
	return resp
}
