package activity

import (
	"context"
	"testing"

	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/authz"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/membership"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	projectRoles map[uuid.UUID]membership.ProjectRole
}

func (f *fakeResolver) ProjectRole(_ context.Context, userID, _ uuid.UUID) (membership.ProjectRole, error) {
	return f.projectRoles[userID], nil
}

func (f *fakeResolver) TaskRole(_ context.Context, _, _ uuid.UUID) (membership.TaskRole, error) {
	return membership.TaskRoleNone, nil
}

func (f *fakeResolver) IsProjectMember(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	role, _ := f.ProjectRole(ctx, userID, projectID)
	return role != membership.ProjectRoleNone, nil
}

func (f *fakeResolver) IsProjectOwner(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	role, _ := f.ProjectRole(ctx, userID, projectID)
	return role == membership.ProjectRoleOwner, nil
}

type fakeRepo struct {
	logs        []Log
	taskProject map[uuid.UUID]uuid.UUID
	lastFilter  Filter
}

func (f *fakeRepo) FindAll(_ context.Context, filter Filter) ([]Log, int64, error) {
	f.lastFilter = filter
	var out []Log
	for _, l := range f.logs {
		if filter.ProjectID != nil && l.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.TaskID != nil && (l.TaskID == nil || *l.TaskID != *filter.TaskID) {
			continue
		}
		if filter.OnlyUserID != nil && l.UserID != *filter.OnlyUserID {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) FindTaskProject(_ context.Context, taskID uuid.UUID) (uuid.UUID, error) {
	if projectID, ok := f.taskProject[taskID]; ok {
		return projectID, nil
	}
	return uuid.Nil, ErrTaskNotFound
}

func TestListByProjectVisibility(t *testing.T) {
	owner := uuid.New()
	member := uuid.New()
	outsider := uuid.New()
	projectID := uuid.New()

	repo := &fakeRepo{logs: []Log{
		{ID: uuid.New(), Action: ActionProjectCreated, UserID: owner, ProjectID: projectID},
		{ID: uuid.New(), Action: ActionTaskCreated, UserID: member, ProjectID: projectID},
		{ID: uuid.New(), Action: ActionTaskStatusChanged, UserID: member, ProjectID: projectID},
	}}
	svc := NewService(repo, &fakeResolver{projectRoles: map[uuid.UUID]membership.ProjectRole{
		owner:  membership.ProjectRoleOwner,
		member: membership.ProjectRoleMember,
	}})

	// Owners see the whole trail
	page, err := svc.ListByProject(context.Background(), projectID, owner, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	// Plain members only see their own actions
	page, err = svc.ListByProject(context.Background(), projectID, member, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	for _, l := range page.Data {
		assert.Equal(t, member, l.UserID)
	}

	// Outsiders must not learn the project exists
	_, err = svc.ListByProject(context.Background(), projectID, outsider, 0, 0)
	assert.ErrorIs(t, err, authz.ErrNotFound)
}

func TestListByTask(t *testing.T) {
	member := uuid.New()
	other := uuid.New()
	outsider := uuid.New()
	projectID := uuid.New()
	taskID := uuid.New()

	repo := &fakeRepo{
		logs: []Log{
			{ID: uuid.New(), Action: ActionTaskCreated, UserID: other, ProjectID: projectID, TaskID: &taskID},
			{ID: uuid.New(), Action: ActionTaskUpdated, UserID: member, ProjectID: projectID, TaskID: &taskID},
		},
		taskProject: map[uuid.UUID]uuid.UUID{taskID: projectID},
	}
	svc := NewService(repo, &fakeResolver{projectRoles: map[uuid.UUID]membership.ProjectRole{
		member: membership.ProjectRoleMember,
		other:  membership.ProjectRoleMember,
	}})

	// Task scope shows every entry to any member, not just their own
	page, err := svc.ListByTask(context.Background(), taskID, member, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	_, err = svc.ListByTask(context.Background(), taskID, outsider, 0, 0)
	assert.ErrorIs(t, err, authz.ErrNotFound)

	_, err = svc.ListByTask(context.Background(), uuid.New(), member, 0, 0)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestListMineClampsPagination(t *testing.T) {
	actor := uuid.New()
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeResolver{})

	page, err := svc.ListMine(context.Background(), actor, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, defaultLimit, page.Limit)
	assert.Equal(t, 0, page.Offset)

	page, err = svc.ListMine(context.Background(), actor, 10000, 20)
	require.NoError(t, err)
	assert.Equal(t, maxLimit, page.Limit)
	assert.Equal(t, 20, page.Offset)
	assert.Equal(t, &actor, repo.lastFilter.OnlyUserID)
}

func TestNewLogDescriptions(t *testing.T) {
	actor := uuid.New()
	projectID := uuid.New()
	taskID := uuid.New()

	tests := []struct {
		name     string
		action   Action
		metadata map[string]interface{}
		want     string
	}{
		{
			name:     "project created",
			action:   ActionProjectCreated,
			metadata: map[string]interface{}{"project_name": "Website"},
			want:     `Created project "Website"`,
		},
		{
			name:     "status changed",
			action:   ActionTaskStatusChanged,
			metadata: map[string]interface{}{"old_status": "NOT_STARTED", "new_status": "IN_PROGRESS"},
			want:     "Changed status from NOT_STARTED to IN_PROGRESS",
		},
		{
			name:     "member added",
			action:   ActionMemberAdded,
			metadata: map[string]interface{}{"member_name": "Alex"},
			want:     "Added Alex to project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewLog(tt.action, actor, projectID, &taskID, tt.metadata)
			assert.Equal(t, tt.want, log.Description)
			assert.Equal(t, actor, log.UserID)
			assert.Equal(t, projectID, log.ProjectID)
		})
	}
}
