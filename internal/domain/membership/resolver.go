package membership

import (
	"context"
	"errors"

	"github.com/buihuuthinh2018/backend-crm-task/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resolver is the single source of truth for a user's role within a project
// or a task. Lookups always hit the latest committed state; roles are never
// cached between requests.
type Resolver interface {
	ProjectRole(ctx context.Context, userID, projectID uuid.UUID) (ProjectRole, error)
	TaskRole(ctx context.Context, userID, taskID uuid.UUID) (TaskRole, error)
	IsProjectMember(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
	IsProjectOwner(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
}

type resolver struct {
	db *connection.Database
}

func NewResolver(db *connection.Database) Resolver {
	return &resolver{db: db}
}

func (r *resolver) ProjectRole(ctx context.Context, userID, projectID uuid.UUID) (ProjectRole, error) {
	var member ProjectMember
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&member)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ProjectRoleNone, nil
		}
		return ProjectRoleNone, result.Error
	}
	return member.Role, nil
}

func (r *resolver) TaskRole(ctx context.Context, userID, taskID uuid.UUID) (TaskRole, error) {
	var member TaskMember
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		First(&member)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return TaskRoleNone, nil
		}
		return TaskRoleNone, result.Error
	}
	return member.Role, nil
}

func (r *resolver) IsProjectMember(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	role, err := r.ProjectRole(ctx, userID, projectID)
	if err != nil {
		return false, err
	}
	return role != ProjectRoleNone, nil
}

func (r *resolver) IsProjectOwner(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	role, err := r.ProjectRole(ctx, userID, projectID)
	if err != nil {
		return false, err
	}
	return role == ProjectRoleOwner, nil
}
