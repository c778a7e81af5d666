package project

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
	CreateProject(ctx context.Context, actorID uuid.UUID, input CreateProjectInput) (*Project, error)
	ListProjects(ctx context.Context, actorID uuid.UUID, includeArchived bool) ([]Project, error)
	GetProject(ctx context.Context, actorID, id uuid.UUID) (*Details, error)
	UpdateProject(ctx context.Context, actorID, id uuid.UUID, input UpdateProjectInput) (*Project, error)
	ArchiveProject(ctx context.Context, actorID, id uuid.UUID) error
	ListMembers(ctx context.Context, actorID, projectID uuid.UUID) ([]membership.ProjectMember, error)
	AddMember(ctx context.Context, actorID, projectID, userID uuid.UUID, role membership.ProjectRole) (*membership.ProjectMember, error)
	UpdateMemberRole(ctx context.Context, actorID, projectID, memberID uuid.UUID, role membership.ProjectRole) (*membership.ProjectMember, error)
	RemoveMember(ctx context.Context, actorID, projectID, memberID uuid.UUID) error
}

type service struct {
	repo  Repository
	users user.Repository
	authz *authz.Engine
}

func NewService(repo Repository, users user.Repository, engine *authz.Engine) Service {
	return &service{repo: repo, users: users, authz: engine}
}

func (s *service) CreateProject(ctx context.Context, actorID uuid.UUID, input CreateProjectInput) (*Project, error) {
	if input.Name == "" {
		return nil, ErrInvalidInput
	}

	now := time.Now().UTC()
	p := &Project{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Color == "" {
		p.Color = defaultColor
	}

	owner := &membership.ProjectMember{
		UserID:    actorID,
		ProjectID: p.ID,
		Role:      membership.ProjectRoleOwner,
		JoinedAt:  now,
	}

	log := activity.NewLog(activity.ActionProjectCreated, actorID, p.ID, nil, map[string]interface{}{
		"project_name": p.Name,
	})

	if err := s.repo.Create(ctx, p, owner, log); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ListProjects(ctx context.Context, actorID uuid.UUID, includeArchived bool) ([]Project, error) {
	return s.repo.FindAllForUser(ctx, actorID, includeArchived)
}

func (s *service) GetProject(ctx context.Context, actorID, id uuid.UUID) (*Details, error) {
	if _, err := s.authz.RequireProjectMember(ctx, actorID, id); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}

	tasksCount, err := s.repo.CountTasks(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Details{Project: p, Members: members, TasksCount: tasksCount}, nil
}

func (s *service) UpdateProject(ctx context.Context, actorID, id uuid.UUID, input UpdateProjectInput) (*Project, error) {
	if err := s.authz.RequireProjectOwner(ctx, actorID, id); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrInvalidInput
		}
		p.Name = *input.Name
		changes["name"] = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
		changes["description"] = *input.Description
	}
	if input.Color != nil {
		p.Color = *input.Color
		changes["color"] = *input.Color
	}
	if input.IsArchived != nil {
		p.IsArchived = *input.IsArchived
		changes["is_archived"] = *input.IsArchived
	}

	p.UpdatedAt = time.Now().UTC()
	log := activity.NewLog(activity.ActionProjectUpdated, actorID, p.ID, nil, map[string]interface{}{
		"changes": changes,
	})

	if err := s.repo.Update(ctx, p, log); err != nil {
		return nil, err
	}
	return p, nil
}

// ArchiveProject soft-deletes: the project and its history stay queryable.
func (s *service) ArchiveProject(ctx context.Context, actorID, id uuid.UUID) error {
	if err := s.authz.RequireProjectOwner(ctx, actorID, id); err != nil {
		return err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	p.IsArchived = true
	p.UpdatedAt = time.Now().UTC()
	log := activity.NewLog(activity.ActionProjectDeleted, actorID, p.ID, nil, map[string]interface{}{})

	return s.repo.Update(ctx, p, log)
}

func (s *service) ListMembers(ctx context.Context, actorID, projectID uuid.UUID) ([]membership.ProjectMember, error) {
	if _, err := s.authz.RequireProjectMember(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, projectID)
}

func (s *service) AddMember(ctx context.Context, actorID, projectID, userID uuid.UUID, role membership.ProjectRole) (*membership.ProjectMember, error) {
	if err := s.authz.RequireMemberAdmin(ctx, actorID, projectID, userID); err != nil {
		return nil, err
	}

	candidate, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	if role == membership.ProjectRoleNone {
		role = membership.ProjectRoleMember
	}
	if !role.IsValid() {
		return nil, ErrInvalidInput
	}

	member := &membership.ProjectMember{
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	}

	log := activity.NewLog(activity.ActionMemberAdded, actorID, projectID, nil, map[string]interface{}{
		"member_id":   userID.String(),
		"member_name": candidate.Name,
		"role":        string(role),
	})

	if err := s.repo.AddMember(ctx, member, log); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *service) UpdateMemberRole(ctx context.Context, actorID, projectID, memberID uuid.UUID, role membership.ProjectRole) (*membership.ProjectMember, error) {
	if err := s.authz.RequireMemberAdmin(ctx, actorID, projectID, memberID); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, ErrInvalidInput
	}

	member, err := s.repo.FindMember(ctx, projectID, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	memberName := memberID.String()
	if u, err := s.users.FindByID(ctx, memberID); err == nil {
		memberName = u.Name
	}

	log := activity.NewLog(activity.ActionMemberRoleChanged, actorID, projectID, nil, map[string]interface{}{
		"member_id":   memberID.String(),
		"member_name": memberName,
		"old_role":    string(member.Role),
		"new_role":    string(role),
	})

	if err := s.repo.UpdateMemberRole(ctx, projectID, memberID, role, log); err != nil {
		return nil, err
	}
	member.Role = role
	return member, nil
}

func (s *service) RemoveMember(ctx context.Context, actorID, projectID, memberID uuid.UUID) error {
	if err := s.authz.RequireMemberAdmin(ctx, actorID, projectID, memberID); err != nil {
		return err
	}

	member, err := s.repo.FindMember(ctx, projectID, memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrMemberNotFound
	}

	memberName := memberID.String()
	if u, err := s.users.FindByID(ctx, memberID); err == nil {
		memberName = u.Name
	}

	log := activity.NewLog(activity.ActionMemberRemoved, actorID, projectID, nil, map[string]interface{}{
		"member_id":   memberID.String(),
		"member_name": memberName,
	})

	return s.repo.RemoveMember(ctx, projectID, memberID, log)
}
