package project

import (
	"context"
	"errors"

	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/activity"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/membership"
	"github.com/buihuuthinh2018/backend-crm-task/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for project persistence operations.
// Every mutating method persists its activity log entry in the same
// transaction as the mutation, so neither can land without the other.
type Repository interface {
	Create(ctx context.Context, project *Project, owner *membership.ProjectMember, log *activity.Log) error
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindAllForUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]Project, error)
	Update(ctx context.Context, project *Project, log *activity.Log) error
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]membership.ProjectMember, error)
	FindMember(ctx context.Context, projectID, userID uuid.UUID) (*membership.ProjectMember, error)
	AddMember(ctx context.Context, member *membership.ProjectMember, log *activity.Log) error
	UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role membership.ProjectRole, log *activity.Log) error
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID, log *activity.Log) error
	CountTasks(ctx context.Context, projectID uuid.UUID) (int64, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, project *Project, owner *membership.ProjectMember, log *activity.Log) error {
	return r.db.Transact(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		return tx.Create(log).Error
	})
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	var project Project
	result := r.db.WithContext(ctx).First(&project, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, result.Error
	}
	return &project, nil
}

func (r *repository) FindAllForUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]Project, error) {
	var projects []Project
	query := r.db.WithContext(ctx).
		Joins("JOIN project_members pm ON pm.project_id = projects.id").
		Where("pm.user_id = ?", userID)

	if !includeArchived {
		query = query.Where("projects.is_archived = ?", false)
	}

	err := query.Order("projects.updated_at DESC").Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *repository) Update(ctx context.Context, project *Project, log *activity.Log) error {
	return r.db.Transact(ctx, func(tx *gorm.DB) error {
		result := tx.Save(project)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProjectNotFound
		}
		return tx.Create(log).Error
	})
}

func (r *repository) ListMembers(ctx context.Context, projectID uuid.UUID) ([]membership.ProjectMember, error) {
	var members []membership.ProjectMember
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) FindMember(ctx context.Context, projectID, userID uuid.UUID) (*membership.ProjectMember, error) {
	var member membership.ProjectMember
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &member, nil
}

func (r *repository) AddMember(ctx context.Context, member *membership.ProjectMember, log *activity.Log) error {
	err := r.db.Transact(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		return tx.Create(log).Error
	})
	if connection.IsUniqueViolation(err) {
		return ErrAlreadyMember
	}
	return err
}

func (r *repository) UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role membership.ProjectRole, log *activity.Log) error {
	return r.db.Transact(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&membership.ProjectMember{}).
			Where("project_id = ? AND user_id = ?", projectID, userID).
			Update("role", role)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMemberNotFound
		}
		return tx.Create(log).Error
	})
}

// RemoveMember drops the membership row and the user's task assignments
// across the whole project as one unit.
func (r *repository) RemoveMember(ctx context.Context, projectID, userID uuid.UUID, log *activity.Log) error {
	return r.db.Transact(ctx, func(tx *gorm.DB) error {
		err := tx.
			Where("user_id = ? AND task_id IN (?)", userID,
				tx.Session(&gorm.Session{NewDB: true}).
					Table("tasks").Select("id").Where("project_id = ?", projectID)).
			Delete(&membership.TaskMember{}).Error
		if err != nil {
			return err
		}

		result := tx.
			Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&membership.ProjectMember{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMemberNotFound
		}
		return tx.Create(log).Error
	})
}

func (r *repository) CountTasks(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("tasks").
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}
