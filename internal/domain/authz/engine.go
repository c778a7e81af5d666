package authz

import (
	"context"
	"errors"

	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/membership"
	"github.com/google/uuid"
)

// Common errors
var (
	// ErrNotFound covers both a missing resource and an actor without view
	// access. Collapsing the two keeps project existence from leaking to
	// outsiders.
	ErrNotFound = errors.New("resource not found or no access")
	// ErrForbidden means the resource is visible to the actor but the
	// specific action is denied.
	ErrForbidden = errors.New("forbidden")
)

// TaskRef carries the task attributes permission rules depend on, so the
// engine does not need to load tasks itself.
type TaskRef struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	CreatorID uuid.UUID
}

// Engine decides, for every mutation, whether an actor may perform it.
// Permission derives from two axes: the project-level role (administrative)
// and the task-level role (operational). A project OWNER overrides task-level
// restrictions, and a task's creator keeps edit rights over it permanently.
type Engine struct {
	members membership.Resolver
}

func NewEngine(members membership.Resolver) *Engine {
	return &Engine{members: members}
}

// RequireProjectMember grants view access to any member of the project.
// Non-members get ErrNotFound, never ErrForbidden.
func (e *Engine) RequireProjectMember(ctx context.Context, actorID, projectID uuid.UUID) (membership.ProjectRole, error) {
	role, err := e.members.ProjectRole(ctx, actorID, projectID)
	if err != nil {
		return membership.ProjectRoleNone, err
	}
	if role == membership.ProjectRoleNone {
		return membership.ProjectRoleNone, ErrNotFound
	}
	return role, nil
}

// RequireProjectOwner gates project update/archive and project member
// management.
func (e *Engine) RequireProjectOwner(ctx context.Context, actorID, projectID uuid.UUID) error {
	role, err := e.RequireProjectMember(ctx, actorID, projectID)
	if err != nil {
		return err
	}
	if role != membership.ProjectRoleOwner {
		return ErrForbidden
	}
	return nil
}

// RequireMemberAdmin gates add/remove/re-role of a project member. Only the
// owner may manage members, and never their own membership row.
func (e *Engine) RequireMemberAdmin(ctx context.Context, actorID, projectID, subjectID uuid.UUID) error {
	if err := e.RequireProjectOwner(ctx, actorID, projectID); err != nil {
		return err
	}
	if subjectID == actorID {
		return ErrForbidden
	}
	return nil
}

// RequireTaskViewer grants task view access to any member of the task's
// project.
func (e *Engine) RequireTaskViewer(ctx context.Context, actorID uuid.UUID, ref TaskRef) error {
	_, err := e.RequireProjectMember(ctx, actorID, ref.ProjectID)
	return err
}

// RequireTaskEditor gates full task updates and task member management:
// project OWNER, task creator, or task PRIMARY.
func (e *Engine) RequireTaskEditor(ctx context.Context, actorID uuid.UUID, ref TaskRef) error {
	role, err := e.RequireProjectMember(ctx, actorID, ref.ProjectID)
	if err != nil {
		return err
	}
	if role == membership.ProjectRoleOwner || actorID == ref.CreatorID {
		return nil
	}
	taskRole, err := e.members.TaskRole(ctx, actorID, ref.ID)
	if err != nil {
		return err
	}
	if taskRole == membership.TaskRolePrimary {
		return nil
	}
	return ErrForbidden
}

// RequireTaskDeleter gates task deletion: project OWNER or task creator.
// PRIMARY role alone is not enough.
func (e *Engine) RequireTaskDeleter(ctx context.Context, actorID uuid.UUID, ref TaskRef) error {
	role, err := e.RequireProjectMember(ctx, actorID, ref.ProjectID)
	if err != nil {
		return err
	}
	if role == membership.ProjectRoleOwner || actorID == ref.CreatorID {
		return nil
	}
	return ErrForbidden
}

// RequireStatusUpdater gates the status fast path: any project member may
// move a task to any status.
func (e *Engine) RequireStatusUpdater(ctx context.Context, actorID uuid.UUID, ref TaskRef) error {
	_, err := e.RequireProjectMember(ctx, actorID, ref.ProjectID)
	return err
}
