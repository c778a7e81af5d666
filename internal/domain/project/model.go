package project

import (
	"errors"
	"time"

	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/membership"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Common errors
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrAlreadyMember   = errors.New("user is already a member of this project")
	ErrInvalidInput    = errors.New("invalid input")
)

const defaultColor = "#3B82F6"

// Project is the top-level container of tasks and members. Ownership is
// expressed through the member set, not a column on the project itself.
type Project struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Color       string    `json:"color" gorm:"type:varchar(16);not null;default:'#3B82F6'"`
	IsArchived  bool      `json:"is_archived" gorm:"not null;default:false;index:idx_project_archived"`
	CreatedAt   time.Time `json:"created_at" gorm:"index:idx_project_created"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Project model
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate is called before inserting a new project
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Color == "" {
		p.Color = defaultColor
	}
	return nil
}

type CreateProjectInput struct {
	Name        string
	Description string
	Color       string
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
	Color       *string
	IsArchived  *bool
}

// Details bundles a project with its member list and task count for the
// single-project read path.
type Details struct {
	Project    *Project                   `json:"project"`
	Members    []membership.ProjectMember `json:"members"`
	TasksCount int64                      `json:"tasks_count"`
}
