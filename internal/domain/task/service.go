package task

import (
	"context"
	"time"

	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/activity"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/authz"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/membership"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/user"
	"github.com/google/uuid"
)

// Service interface
type Service interface {
	CreateTask(ctx context.Context, actorID uuid.UUID, input CreateTaskInput) (*Task, error)
	GetTask(ctx context.Context, actorID, id uuid.UUID) (*Details, error)
	ListProjectTasks(ctx context.Context, actorID, projectID uuid.UUID, filter Filter) ([]Task, error)
	ListMyTasks(ctx context.Context, actorID uuid.UUID) ([]Task, error)
	UpdateTask(ctx context.Context, actorID, id uuid.UUID, input UpdateTaskInput) (*Task, error)
	UpdateTaskStatus(ctx context.Context, actorID, id uuid.UUID, status TaskStatus) (*Task, error)
	DeleteTask(ctx context.Context, actorID, id uuid.UUID) error

	ListTaskMembers(ctx context.Context, actorID, taskID uuid.UUID) ([]membership.TaskMember, error)
	AddTaskMember(ctx context.Context, actorID, taskID, userID uuid.UUID, role membership.TaskRole) (*membership.TaskMember, error)
	UpdateTaskMemberRole(ctx context.Context, actorID, taskID, memberID uuid.UUID, role membership.TaskRole) (*membership.TaskMember, error)
	RemoveTaskMember(ctx context.Context, actorID, taskID, memberID uuid.UUID) error
}

type service struct {
	repo    Repository
	users   user.Repository
	members membership.Resolver
	authz   *authz.Engine
}

func NewService(repo Repository, users user.Repository, members membership.Resolver, engine *authz.Engine) Service {
	return &service{repo: repo, users: users, members: members, authz: engine}
}

func ref(t *Task) authz.TaskRef {
	return authz.TaskRef{ID: t.ID, ProjectID: t.ProjectID, CreatorID: t.CreatorID}
}

// load fetches a task and checks view access in one step. A task in a
// project the actor does not belong to reads as not found.
func (s *service) load(ctx context.Context, actorID, id uuid.UUID) (*Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireTaskViewer(ctx, actorID, ref(t)); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) CreateTask(ctx context.Context, actorID uuid.UUID, input CreateTaskInput) (*Task, error) {
	if input.Title == "" || input.ProjectID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if _, err := s.authz.RequireProjectMember(ctx, actorID, input.ProjectID); err != nil {
		return nil, err
	}

	action := activity.ActionTaskCreated
	if input.ParentID != nil {
		parent, err := s.repo.FindByID(ctx, *input.ParentID)
		if err == ErrTaskNotFound {
			return nil, ErrParentNotFound
		}
		if err != nil {
			return nil, err
		}
		if parent.ProjectID != input.ProjectID {
			return nil, ErrCrossProjectParent
		}
		if parent.IsSubtask() {
			return nil, ErrNestedSubtask
		}
		action = activity.ActionSubtaskCreated
	}

	now := time.Now().UTC()
	t := &Task{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		ProjectID:   input.ProjectID,
		ParentID:    input.ParentID,
		CreatorID:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Status == "" {
		t.Status = TaskStatusNotStarted
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	// The creator starts as the task's PRIMARY in the same transaction.
	primary := &membership.TaskMember{
		TaskID:     t.ID,
		UserID:     actorID,
		Role:       membership.TaskRolePrimary,
		AssignedAt: now,
	}

	log := activity.NewLog(action, actorID, t.ProjectID, &t.ID, map[string]interface{}{
		"task_title": t.Title,
	})

	if err := s.repo.Create(ctx, t, primary, log); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) GetTask(ctx context.Context, actorID, id uuid.UUID) (*Details, error) {
	t, err := s.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	subtasks, err := s.repo.FindSubtasks(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &Details{Task: t, Subtasks: subtasks, Members: members}, nil
}

func (s *service) ListProjectTasks(ctx context.Context, actorID, projectID uuid.UUID, filter Filter) ([]Task, error) {
	if _, err := s.authz.RequireProjectMember(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	return s.repo.FindByProject(ctx, projectID, filter)
}

func (s *service) ListMyTasks(ctx context.Context, actorID uuid.UUID) ([]Task, error) {
	return s.repo.FindByMember(ctx, actorID)
}

func (s *service) UpdateTask(ctx context.Context, actorID, id uuid.UUID, input UpdateTaskInput) (*Task, error) {
	t, err := s.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireTaskEditor(ctx, actorID, ref(t)); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{"task_title": t.Title}
	if input.Title != nil && *input.Title != t.Title {
		if *input.Title == "" {
			return nil, ErrInvalidInput
		}
		changes["title"] = *input.Title
		t.Title = *input.Title
		changes["task_title"] = t.Title
	}
	if input.Description != nil && *input.Description != t.Description {
		t.Description = *input.Description
	}
	if input.Status != nil && *input.Status != t.Status {
		if !input.Status.IsValid() {
			return nil, ErrInvalidInput
		}
		changes["old_status"] = string(t.Status)
		changes["new_status"] = string(*input.Status)
		t.Status = *input.Status
	}
	if input.Priority != nil && *input.Priority != t.Priority {
		if !input.Priority.IsValid() {
			return nil, ErrInvalidInput
		}
		changes["priority"] = string(*input.Priority)
		t.Priority = *input.Priority
	}
	if input.StartDate != nil {
		t.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		t.EndDate = input.EndDate
	}
	if input.ParentID != nil {
		if err := s.checkReparent(ctx, t, *input.ParentID); err != nil {
			return nil, err
		}
		t.ParentID = input.ParentID
	}
	t.UpdatedAt = time.Now().UTC()

	log := activity.NewLog(activity.ActionTaskUpdated, actorID, t.ProjectID, &t.ID, changes)
	if err := s.repo.Update(ctx, t, log); err != nil {
		return nil, err
	}
	return t, nil
}

// checkReparent applies the same hierarchy rules as creation when a task is
// moved under a new parent.
func (s *service) checkReparent(ctx context.Context, t *Task, parentID uuid.UUID) error {
	if parentID == t.ID {
		return ErrInvalidInput
	}
	parent, err := s.repo.FindByID(ctx, parentID)
	if err == ErrTaskNotFound {
		return ErrParentNotFound
	}
	if err != nil {
		return err
	}
	if parent.ProjectID != t.ProjectID {
		return ErrCrossProjectParent
	}
	if parent.IsSubtask() {
		return ErrNestedSubtask
	}
	// A task that has subtasks of its own cannot become a subtask.
	subtasks, err := s.repo.FindSubtasks(ctx, t.ID)
	if err != nil {
		return err
	}
	if len(subtasks) > 0 {
		return ErrNestedSubtask
	}
	return nil
}

func (s *service) UpdateTaskStatus(ctx context.Context, actorID, id uuid.UUID, status TaskStatus) (*Task, error) {
	if !status.IsValid() {
		return nil, ErrInvalidInput
	}
	t, err := s.load(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireStatusUpdater(ctx, actorID, ref(t)); err != nil {
		return nil, err
	}
	if status == t.Status {
		return t, nil
	}

	old := t.Status
	t.Status = status
	t.UpdatedAt = time.Now().UTC()

	log := activity.NewLog(activity.ActionTaskStatusChanged, actorID, t.ProjectID, &t.ID, map[string]interface{}{
		"task_title": t.Title,
		"old_status": string(old),
		"new_status": string(status),
	})
	if err := s.repo.Update(ctx, t, log); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) DeleteTask(ctx context.Context, actorID, id uuid.UUID) error {
	t, err := s.load(ctx, actorID, id)
	if err != nil {
		return err
	}
	if err := s.authz.RequireTaskDeleter(ctx, actorID, ref(t)); err != nil {
		return err
	}

	log := activity.NewLog(activity.ActionTaskDeleted, actorID, t.ProjectID, &t.ID, map[string]interface{}{
		"task_title": t.Title,
	})
	return s.repo.DeleteCascade(ctx, t, log)
}

func (s *service) ListTaskMembers(ctx context.Context, actorID, taskID uuid.UUID) ([]membership.TaskMember, error) {
	if _, err := s.load(ctx, actorID, taskID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, taskID)
}

func (s *service) AddTaskMember(ctx context.Context, actorID, taskID, userID uuid.UUID, role membership.TaskRole) (*membership.TaskMember, error) {
	t, err := s.load(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireTaskEditor(ctx, actorID, ref(t)); err != nil {
		return nil, err
	}

	if role == membership.TaskRoleNone {
		role = membership.TaskRoleSecondary
	}
	if !role.IsValid() {
		return nil, ErrInvalidInput
	}

	// Only members of the surrounding project may be assigned to a task.
	member, err := s.members.IsProjectMember(ctx, userID, t.ProjectID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotProjectMember
	}

	existing, err := s.repo.FindMember(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyAssigned
	}

	m := &membership.TaskMember{
		TaskID:     taskID,
		UserID:     userID,
		Role:       role,
		AssignedAt: time.Now().UTC(),
	}
	log := activity.NewLog(activity.ActionTaskMemberAdded, actorID, t.ProjectID, &t.ID, map[string]interface{}{
		"task_title":  t.Title,
		"member_name": s.memberName(ctx, userID),
		"role":        string(role),
	})
	if err := s.repo.AddMember(ctx, m, log); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) UpdateTaskMemberRole(ctx context.Context, actorID, taskID, memberID uuid.UUID, role membership.TaskRole) (*membership.TaskMember, error) {
	t, err := s.load(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireTaskEditor(ctx, actorID, ref(t)); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, ErrInvalidInput
	}

	existing, err := s.repo.FindMember(ctx, taskID, memberID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrMemberNotFound
	}

	log := activity.NewLog(activity.ActionTaskMemberRoleChanged, actorID, t.ProjectID, &t.ID, map[string]interface{}{
		"task_title":  t.Title,
		"member_name": s.memberName(ctx, memberID),
		"old_role":    string(existing.Role),
		"new_role":    string(role),
	})
	if err := s.repo.UpdateMemberRole(ctx, taskID, memberID, role, log); err != nil {
		return nil, err
	}
	existing.Role = role
	return existing, nil
}

func (s *service) RemoveTaskMember(ctx context.Context, actorID, taskID, memberID uuid.UUID) error {
	t, err := s.load(ctx, actorID, taskID)
	if err != nil {
		return err
	}
	if err := s.authz.RequireTaskEditor(ctx, actorID, ref(t)); err != nil {
		return err
	}

	log := activity.NewLog(activity.ActionTaskMemberRemoved, actorID, t.ProjectID, &t.ID, map[string]interface{}{
		"task_title":  t.Title,
		"member_name": s.memberName(ctx, memberID),
	})
	return s.repo.RemoveMember(ctx, taskID, memberID, log)
}

// memberName resolves a display name for log descriptions. The log entry
// must not fail over a missing profile, so lookups degrade to the id.
func (s *service) memberName(ctx context.Context, userID uuid.UUID) string {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return userID.String()
	}
	return u.Name
}
