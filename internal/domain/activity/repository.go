package activity

import (
	"context"

	"github.com/buihuuthinh2018/backend-crm-task/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
)

// Filter narrows a log listing. OnlyUserID restricts project listings to a
// single actor's entries (the non-owner read path).
type Filter struct {
	ProjectID  *uuid.UUID
	TaskID     *uuid.UUID
	OnlyUserID *uuid.UUID
	Limit      int
	Offset     int
}

// Repository defines the read side of the audit trail. Writes happen inside
// the mutating repositories' transactions via tx.Create, so a log entry and
// the mutation it describes commit or roll back together.
type Repository interface {
	FindAll(ctx context.Context, filter Filter) ([]Log, int64, error)
	// FindTaskProject resolves the owning project of a task, used to gate
	// per-task listings.
	FindTaskProject(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]Log, int64, error) {
	var logs []Log
	var total int64

	query := r.db.WithContext(ctx).Model(&Log{})

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", filter.ProjectID)
	}
	if filter.TaskID != nil {
		query = query.Where("task_id = ?", filter.TaskID)
	}
	if filter.OnlyUserID != nil {
		query = query.Where("user_id = ?", filter.OnlyUserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *repository) FindTaskProject(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error) {
	var projectID uuid.UUID
	result := r.db.WithContext(ctx).
		Table("tasks").
		Select("project_id").
		Where("id = ?", taskID).
		Scan(&projectID)
	if result.Error != nil {
		return uuid.Nil, result.Error
	}
	if result.RowsAffected == 0 || projectID == uuid.Nil {
		return uuid.Nil, ErrTaskNotFound
	}
	return projectID, nil
}
