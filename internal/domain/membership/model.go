package membership

import (
	"time"

	"github.com/google/uuid"
)

// ProjectRole is a user's administrative role within a project.
type ProjectRole string

const (
	ProjectRoleOwner  ProjectRole = "OWNER"
	ProjectRoleMember ProjectRole = "MEMBER"
	// ProjectRoleNone is the resolver result for a user with no membership row.
	ProjectRoleNone ProjectRole = ""
)

// IsValid validates the project role
func (r ProjectRole) IsValid() bool {
	switch r {
	case ProjectRoleOwner, ProjectRoleMember:
		return true
	}
	return false
}

// TaskRole is a user's operational role on a single task.
type TaskRole string

const (
	TaskRolePrimary   TaskRole = "PRIMARY"
	TaskRoleSecondary TaskRole = "SECONDARY"
	TaskRoleNone      TaskRole = ""
)

// IsValid validates the task role
func (r TaskRole) IsValid() bool {
	switch r {
	case TaskRolePrimary, TaskRoleSecondary:
		return true
	}
	return false
}

// ProjectMember links a user to a project with a role.
type ProjectMember struct {
	UserID    uuid.UUID   `json:"user_id" gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID   `json:"project_id" gorm:"type:uuid;primaryKey"`
	Role      ProjectRole `json:"role" gorm:"type:varchar(16);not null;default:'MEMBER'"`
	JoinedAt  time.Time   `json:"joined_at" gorm:"not null;default:current_timestamp"`
}

// TableName specifies the table name for the ProjectMember model
func (ProjectMember) TableName() string {
	return "project_members"
}

// TaskMember links a user to a task. A task has at most one PRIMARY member,
// enforced by a partial unique index on (task_id) where role = 'PRIMARY'.
type TaskMember struct {
	TaskID     uuid.UUID `json:"task_id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	Role       TaskRole  `json:"role" gorm:"type:varchar(16);not null;default:'SECONDARY'"`
	AssignedAt time.Time `json:"assigned_at" gorm:"not null;default:current_timestamp"`
}

// TableName specifies the table name for the TaskMember model
func (TaskMember) TableName() string {
	return "task_members"
}
