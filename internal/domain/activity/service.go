package activity

import (
	"context"

	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/authz"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/membership"
	"github.com/google/uuid"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Service exposes the audit trail read contract.
type Service interface {
	// ListByProject returns all entries for owners; plain members only see
	// entries they produced themselves.
	ListByProject(ctx context.Context, projectID, actorID uuid.UUID, limit, offset int) (*Page, error)
	// ListByTask returns every entry for the task to any project member.
	ListByTask(ctx context.Context, taskID, actorID uuid.UUID, limit, offset int) (*Page, error)
	// ListMine returns the actor's entries across all projects.
	ListMine(ctx context.Context, actorID uuid.UUID, limit, offset int) (*Page, error)
}

type service struct {
	repo    Repository
	members membership.Resolver
}

func NewService(repo Repository, members membership.Resolver) Service {
	return &service{repo: repo, members: members}
}

func (s *service) ListByProject(ctx context.Context, projectID, actorID uuid.UUID, limit, offset int) (*Page, error) {
	role, err := s.members.ProjectRole(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}
	if role == membership.ProjectRoleNone {
		return nil, authz.ErrNotFound
	}

	limit, offset = clamp(limit, offset)
	filter := Filter{ProjectID: &projectID, Limit: limit, Offset: offset}
	if role != membership.ProjectRoleOwner {
		filter.OnlyUserID = &actorID
	}

	logs, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &Page{Data: logs, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *service) ListByTask(ctx context.Context, taskID, actorID uuid.UUID, limit, offset int) (*Page, error) {
	projectID, err := s.repo.FindTaskProject(ctx, taskID)
	if err != nil {
		return nil, err
	}

	isMember, err := s.members.IsProjectMember(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, authz.ErrNotFound
	}

	limit, offset = clamp(limit, offset)
	logs, total, err := s.repo.FindAll(ctx, Filter{TaskID: &taskID, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &Page{Data: logs, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *service) ListMine(ctx context.Context, actorID uuid.UUID, limit, offset int) (*Page, error) {
	limit, offset = clamp(limit, offset)
	logs, total, err := s.repo.FindAll(ctx, Filter{OnlyUserID: &actorID, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &Page{Data: logs, Total: total, Limit: limit, Offset: offset}, nil
}

func clamp(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
