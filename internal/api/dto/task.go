package dto

import (
	"time"

	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/membership"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/task"
	"github.com/google/uuid"
)

// CreateTaskRequest represents the request body for creating a new task
// @Description Request body for creating a task or subtask
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required" example:"Implement login page"`
	Description string     `json:"description" example:"Email and password form with validation"`
	ProjectID   uuid.UUID  `json:"project_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440001"`
	Status      string     `json:"status" example:"NOT_STARTED"`
	Priority    string     `json:"priority" example:"MEDIUM"`
	StartDate   *time.Time `json:"start_date,omitempty" example:"2024-01-01T00:00:00Z"`
	EndDate     *time.Time `json:"end_date,omitempty" example:"2024-01-15T00:00:00Z"`
}

// UpdateTaskRequest represents the request body for updating a task
// @Description Request body for updating task information
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty" example:"Implement login page v2"`
	Description *string    `json:"description,omitempty" example:"Updated requirements"`
	Status      *string    `json:"status,omitempty" example:"IN_PROGRESS"`
	Priority    *string    `json:"priority,omitempty" example:"HIGH"`
	StartDate   *time.Time `json:"start_date,omitempty" example:"2024-01-02T00:00:00Z"`
	EndDate     *time.Time `json:"end_date,omitempty" example:"2024-01-20T00:00:00Z"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440001"`
}

// UpdateTaskStatusRequest represents the request body for the status fast path
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required" example:"COMPLETED"`
}

// TaskResponse represents a task in API responses
// @Description Task information returned in API responses
type TaskResponse struct {
	ID          uuid.UUID  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title       string     `json:"title" example:"Implement login page"`
	Description string     `json:"description" example:"Email and password form"`
	Status      string     `json:"status" example:"IN_PROGRESS"`
	Priority    string     `json:"priority" example:"HIGH"`
	StartDate   *time.Time `json:"start_date,omitempty" example:"2024-01-01T00:00:00Z"`
	EndDate     *time.Time `json:"end_date,omitempty" example:"2024-01-15T00:00:00Z"`
	ProjectID   uuid.UUID  `json:"project_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440002"`
	CreatorID   uuid.UUID  `json:"creator_id" example:"550e8400-e29b-41d4-a716-446655440003"`
	CreatedAt   time.Time  `json:"created_at" example:"2024-01-01T00:00:00Z"`
	UpdatedAt   time.Time  `json:"updated_at" example:"2024-01-01T00:00:00Z"`
}

// TaskDetailsResponse represents a task with its subtasks and assignees
// @Description Detailed task information with related data
type TaskDetailsResponse struct {
	Task     TaskResponse         `json:"task"`
	Subtasks []TaskResponse       `json:"subtasks"`
	Members  []TaskMemberResponse `json:"members"`
}

// TaskMemberResponse represents a task assignee in API responses
// @Description Task assignment information
type TaskMemberResponse struct {
	UserID     uuid.UUID `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Role       string    `json:"role" example:"PRIMARY"`
	AssignedAt time.Time `json:"assigned_at" example:"2024-03-15T09:00:00Z"`
}

// AddTaskMemberRequest represents the request body for assigning a user
type AddTaskMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Role   string    `json:"role" example:"SECONDARY"`
}

// UpdateTaskMemberRequest represents the request body for changing an assignee's role
type UpdateTaskMemberRequest struct {
	Role string `json:"role" binding:"required" example:"PRIMARY"`
}

// TaskListResponse represents a list of tasks
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total" example:"12"`
}

// ToTaskResponse converts a task model to its API representation
func ToTaskResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		ProjectID:   t.ProjectID,
		ParentID:    t.ParentID,
		CreatorID:   t.CreatorID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToTaskMemberResponse converts an assignment row
func ToTaskMemberResponse(m *membership.TaskMember) TaskMemberResponse {
	return TaskMemberResponse{
		UserID:     m.UserID,
		Role:       string(m.Role),
		AssignedAt: m.AssignedAt,
	}
}

// ToTaskDetailsResponse converts a task with its subtasks and members
func ToTaskDetailsResponse(d *task.Details) TaskDetailsResponse {
	resp := TaskDetailsResponse{
		Task:     ToTaskResponse(d.Task),
		Subtasks: make([]TaskResponse, 0, len(d.Subtasks)),
		Members:  make([]TaskMemberResponse, 0, len(d.Members)),
	}
	for i := range d.Subtasks {
		resp.Subtasks = append(resp.Subtasks, ToTaskResponse(&d.Subtasks[i]))
	}
	for i := range d.Members {
		resp.Members = append(resp.Members, ToTaskMemberResponse(&d.Members[i]))
	}
	return resp
}

// ToTaskListResponse converts a slice of task models
func ToTaskListResponse(tasks []task.Task) TaskListResponse {
	resp := TaskListResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, ToTaskResponse(&tasks[i]))
	}
	return resp
}
