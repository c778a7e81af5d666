package task

import (
	"errors"
	"time"

	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/membership"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Common errors
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrParentNotFound     = errors.New("parent task not found")
	ErrCrossProjectParent = errors.New("parent task belongs to a different project")
	ErrNestedSubtask      = errors.New("subtasks cannot have their own subtasks")
	ErrNotProjectMember   = errors.New("user is not a member of the task's project")
	ErrAlreadyAssigned    = errors.New("user is already assigned to this task")
	ErrMemberNotFound     = errors.New("task member not found")
	ErrPrimaryConflict    = errors.New("concurrent primary assignment, retry")
	ErrInvalidInput       = errors.New("invalid input")
)

type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "NOT_STARTED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

// IsValid validates the task status. Any member may move a task to any
// valid status; there is deliberately no transition matrix.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

// IsValid validates the task priority
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Task is a unit of work within a project. ParentID nil means a top-level
// task; non-nil means a subtask. Nesting stops at one level.
type Task struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primary_key"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description" gorm:"type:text"`
	Status      TaskStatus   `json:"status" gorm:"type:varchar(16);not null;default:'NOT_STARTED';index:idx_task_status"`
	Priority    TaskPriority `json:"priority" gorm:"type:varchar(16);not null;default:'MEDIUM';index:idx_task_priority"`
	StartDate   *time.Time   `json:"start_date,omitempty" gorm:"index:idx_task_dates"`
	EndDate     *time.Time   `json:"end_date,omitempty" gorm:"index:idx_task_dates"`
	ProjectID   uuid.UUID    `json:"project_id" gorm:"type:uuid;not null;index:idx_task_project"`
	ParentID    *uuid.UUID   `json:"parent_id,omitempty" gorm:"type:uuid;index:idx_task_parent"`
	CreatorID   uuid.UUID    `json:"creator_id" gorm:"type:uuid;not null;index:idx_task_creator"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"not null;default:current_timestamp"`
}

// TableName specifies the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}

// IsSubtask reports whether the task has a parent.
func (t *Task) IsSubtask() bool {
	return t.ParentID != nil
}

// Validate checks if the task data is valid
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrInvalidInput
	}
	if !t.Status.IsValid() {
		return ErrInvalidInput
	}
	if !t.Priority.IsValid() {
		return ErrInvalidInput
	}
	if t.ProjectID == uuid.Nil || t.CreatorID == uuid.Nil {
		return ErrInvalidInput
	}
	return nil
}

// BeforeCreate is called before inserting a new task
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TaskStatusNotStarted
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}
	return t.Validate()
}

type CreateTaskInput struct {
	Title       string
	Description string
	ProjectID   uuid.UUID
	ParentID    *uuid.UUID
	Status      TaskStatus
	Priority    TaskPriority
	StartDate   *time.Time
	EndDate     *time.Time
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	StartDate   *time.Time
	EndDate     *time.Time
	ParentID    *uuid.UUID
}

// Filter defines filtering options for project task listings
type Filter struct {
	Status       *TaskStatus
	Priority     *TaskPriority
	TopLevelOnly bool
}

// Details bundles a task with its subtasks and member assignments.
type Details struct {
	Task     *Task                   `json:"task"`
	Subtasks []Task                  `json:"subtasks"`
	Members  []membership.TaskMember `json:"members"`
}
