package task

import (
	"context"
	"errors"
	"strings"

	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/activity"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/membership"
	"github.com/buihuuthinh2018/backend-crm-task/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Repository defines the interface for task data access. Mutating methods
// take an activity log entry and persist it in the same transaction as the
// mutation, so a task change and its audit record commit or roll back
// together.
type Repository interface {
	Create(ctx context.Context, t *Task, primary *membership.TaskMember, log *activity.Log) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindByProject(ctx context.Context, projectID uuid.UUID, filter Filter) ([]Task, error)
	FindSubtasks(ctx context.Context, parentID uuid.UUID) ([]Task, error)
	FindByMember(ctx context.Context, userID uuid.UUID) ([]Task, error)
	Update(ctx context.Context, t *Task, log *activity.Log) error
	DeleteCascade(ctx context.Context, t *Task, log *activity.Log) error

	ListMembers(ctx context.Context, taskID uuid.UUID) ([]membership.TaskMember, error)
	FindMember(ctx context.Context, taskID, userID uuid.UUID) (*membership.TaskMember, error)
	AddMember(ctx context.Context, m *membership.TaskMember, log *activity.Log) error
	UpdateMemberRole(ctx context.Context, taskID, userID uuid.UUID, role membership.TaskRole, log *activity.Log) error
	RemoveMember(ctx context.Context, taskID, userID uuid.UUID, log *activity.Log) error
}

type repository struct {
	db *connection.Database
}

// NewRepository creates a new task repository
func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *Task, primary *membership.TaskMember, log *activity.Log) error {
	return r.db.Transact(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		if primary != nil {
			primary.TaskID = t.ID
			if err := tx.Create(primary).Error; err != nil {
				return err
			}
		}
		if log != nil {
			log.TaskID = &t.ID
			if err := tx.Create(log).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	var t Task
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindByProject(ctx context.Context, projectID uuid.UUID, filter Filter) ([]Task, error) {
	query := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.TopLevelOnly {
		query = query.Where("parent_id IS NULL")
	}

	var tasks []Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) FindSubtasks(ctx context.Context, parentID uuid.UUID) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) FindByMember(ctx context.Context, userID uuid.UUID) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Joins("JOIN task_members ON task_members.task_id = tasks.id").
		Where("task_members.user_id = ?", userID).
		Order("tasks.created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) Update(ctx context.Context, t *Task, log *activity.Log) error {
	return r.db.Transact(ctx, func(tx *gorm.DB) error {
		if err := tx.Save(t).Error; err != nil {
			return err
		}
		if log != nil {
			if err := tx.Create(log).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteCascade removes a task, its subtasks and every related assignment
// in a single transaction. A failure at any step rolls the whole unit back.
func (r *repository) DeleteCascade(ctx context.Context, t *Task, log *activity.Log) error {
	return r.db.Transact(ctx, func(tx *gorm.DB) error {
		var subtaskIDs []uuid.UUID
		err := tx.Model(&Task{}).
			Where("parent_id = ?", t.ID).
			Pluck("id", &subtaskIDs).Error
		if err != nil {
			return err
		}

		taskIDs := append(subtaskIDs, t.ID)
		if err := tx.Where("task_id IN ?", taskIDs).Delete(&membership.TaskMember{}).Error; err != nil {
			return err
		}
		if len(subtaskIDs) > 0 {
			if err := tx.Where("id IN ?", subtaskIDs).Delete(&Task{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&Task{}, "id = ?", t.ID).Error; err != nil {
			return err
		}
		if log != nil {
			return tx.Create(log).Error
		}
		return nil
	})
}

func (r *repository) ListMembers(ctx context.Context, taskID uuid.UUID) ([]membership.TaskMember, error) {
	var members []membership.TaskMember
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("assigned_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) FindMember(ctx context.Context, taskID, userID uuid.UUID) (*membership.TaskMember, error) {
	var m membership.TaskMember
	err := r.db.WithContext(ctx).
		First(&m, "task_id = ? AND user_id = ?", taskID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) AddMember(ctx context.Context, m *membership.TaskMember, log *activity.Log) error {
	err := r.db.Transact(ctx, func(tx *gorm.DB) error {
		if m.Role == membership.TaskRolePrimary {
			if err := demotePrimary(tx, m.TaskID, m.UserID); err != nil {
				return err
			}
		}
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		if log != nil {
			return tx.Create(log).Error
		}
		return nil
	})
	return mapMemberError(err)
}

// UpdateMemberRole changes a member's role. Promoting to PRIMARY demotes the
// current primary in the same transaction, keeping the single-primary rule
// intact at every commit point.
func (r *repository) UpdateMemberRole(ctx context.Context, taskID, userID uuid.UUID, role membership.TaskRole, log *activity.Log) error {
	err := r.db.Transact(ctx, func(tx *gorm.DB) error {
		if role == membership.TaskRolePrimary {
			if err := demotePrimary(tx, taskID, userID); err != nil {
				return err
			}
		}
		res := tx.Model(&membership.TaskMember{}).
			Where("task_id = ? AND user_id = ?", taskID, userID).
			Update("role", role)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMemberNotFound
		}
		if log != nil {
			return tx.Create(log).Error
		}
		return nil
	})
	return mapMemberError(err)
}

func (r *repository) RemoveMember(ctx context.Context, taskID, userID uuid.UUID, log *activity.Log) error {
	return r.db.Transact(ctx, func(tx *gorm.DB) error {
		res := tx.Where("task_id = ? AND user_id = ?", taskID, userID).
			Delete(&membership.TaskMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMemberNotFound
		}
		if log != nil {
			return tx.Create(log).Error
		}
		return nil
	})
}

func demotePrimary(tx *gorm.DB, taskID, excludeUserID uuid.UUID) error {
	return tx.Model(&membership.TaskMember{}).
		Where("task_id = ? AND role = ? AND user_id <> ?", taskID, membership.TaskRolePrimary, excludeUserID).
		Update("role", membership.TaskRoleSecondary).Error
}

// mapMemberError translates unique violations into domain errors. The
// composite primary key catches duplicate assignments; the partial index on
// (task_id) WHERE role = 'PRIMARY' catches two transactions racing to
// promote different members.
func mapMemberError(err error) error {
	if err == nil || !connection.IsUniqueViolation(err) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && strings.Contains(pqErr.Constraint, "primary") {
		return ErrPrimaryConflict
	}
	return ErrAlreadyAssigned
}
