package activity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Common errors
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Action enumerates the mutating operations the audit trail records.
type Action string

const (
	ActionProjectCreated        Action = "PROJECT_CREATED"
	ActionProjectUpdated        Action = "PROJECT_UPDATED"
	ActionProjectDeleted        Action = "PROJECT_DELETED"
	ActionMemberAdded           Action = "MEMBER_ADDED"
	ActionMemberRemoved         Action = "MEMBER_REMOVED"
	ActionMemberRoleChanged     Action = "MEMBER_ROLE_CHANGED"
	ActionTaskCreated           Action = "TASK_CREATED"
	ActionTaskUpdated           Action = "TASK_UPDATED"
	ActionTaskDeleted           Action = "TASK_DELETED"
	ActionTaskStatusChanged     Action = "TASK_STATUS_CHANGED"
	ActionTaskMemberAdded       Action = "TASK_MEMBER_ADDED"
	ActionTaskMemberRemoved     Action = "TASK_MEMBER_REMOVED"
	ActionTaskMemberRoleChanged Action = "TASK_MEMBER_ROLE_CHANGED"
	ActionSubtaskCreated        Action = "SUBTASK_CREATED"
)

// Log is one immutable audit entry. Entries are never updated or deleted by
// the application, and they outlive the tasks they reference.
type Log struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primary_key"`
	Action      Action            `json:"action" gorm:"type:varchar(32);not null;index:idx_activity_action"`
	Description string            `json:"description" gorm:"type:text;not null"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	UserID      uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index:idx_activity_user"`
	ProjectID   uuid.UUID         `json:"project_id" gorm:"type:uuid;not null;index:idx_activity_project"`
	TaskID      *uuid.UUID        `json:"task_id,omitempty" gorm:"type:uuid;index:idx_activity_task"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null;index:idx_activity_created"`
}

// TableName specifies the table name for the Log model
func (Log) TableName() string {
	return "activity_logs"
}

// BeforeCreate is called before inserting a new log entry
func (l *Log) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	return nil
}

// NewLog builds an entry with its description rendered once at write time.
// The stored text stays stable even if the mapping below changes later.
func NewLog(action Action, userID, projectID uuid.UUID, taskID *uuid.UUID, metadata map[string]interface{}) *Log {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return &Log{
		ID:          uuid.New(),
		Action:      action,
		Description: Describe(action, metadata),
		Metadata:    metadata,
		UserID:      userID,
		ProjectID:   projectID,
		TaskID:      taskID,
		CreatedAt:   time.Now().UTC(),
	}
}

// Describe maps an action and its metadata to the human-readable text stored
// on the entry.
func Describe(action Action, metadata map[string]interface{}) string {
	switch action {
	case ActionProjectCreated:
		return fmt.Sprintf("Created project %q", str(metadata, "project_name"))
	case ActionProjectUpdated:
		return "Updated project"
	case ActionProjectDeleted:
		return "Archived project"
	case ActionMemberAdded:
		return fmt.Sprintf("Added %s to project", str(metadata, "member_name"))
	case ActionMemberRemoved:
		return fmt.Sprintf("Removed %s from project", str(metadata, "member_name"))
	case ActionMemberRoleChanged:
		return fmt.Sprintf("Changed %s's role from %s to %s",
			str(metadata, "member_name"), str(metadata, "old_role"), str(metadata, "new_role"))
	case ActionTaskCreated:
		return fmt.Sprintf("Created task %q", str(metadata, "task_title"))
	case ActionSubtaskCreated:
		return fmt.Sprintf("Created subtask %q", str(metadata, "task_title"))
	case ActionTaskUpdated:
		return fmt.Sprintf("Updated task %q", str(metadata, "task_title"))
	case ActionTaskDeleted:
		return fmt.Sprintf("Deleted task %q", str(metadata, "task_title"))
	case ActionTaskStatusChanged:
		return fmt.Sprintf("Changed status from %s to %s",
			str(metadata, "old_status"), str(metadata, "new_status"))
	case ActionTaskMemberAdded:
		return fmt.Sprintf("Added %s to task", str(metadata, "member_name"))
	case ActionTaskMemberRemoved:
		return fmt.Sprintf("Removed %s from task", str(metadata, "member_name"))
	case ActionTaskMemberRoleChanged:
		return fmt.Sprintf("Changed %s's role from %s to %s",
			str(metadata, "member_name"), str(metadata, "old_role"), str(metadata, "new_role"))
	default:
		return string(action)
	}
}

func str(metadata map[string]interface{}, key string) string {
	if v, ok := metadata[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// Page is the common shape of every activity list response. Total is the
// full matching count, independent of the limit/offset window.
type Page struct {
	Data   []Log `json:"data"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
