package task

import (
	"context"
	"testing"

	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/activity"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/authz"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/membership"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	projectRoles map[uuid.UUID]membership.ProjectRole
	taskRoles    map[uuid.UUID]membership.TaskRole
}

func (f *fakeResolver) ProjectRole(_ context.Context, userID, _ uuid.UUID) (membership.ProjectRole, error) {
	return f.projectRoles[userID], nil
}

func (f *fakeResolver) TaskRole(_ context.Context, userID, _ uuid.UUID) (membership.TaskRole, error) {
	return f.taskRoles[userID], nil
}

func (f *fakeResolver) IsProjectMember(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	role, _ := f.ProjectRole(ctx, userID, projectID)
	return role != membership.ProjectRoleNone, nil
}

func (f *fakeResolver) IsProjectOwner(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	role, _ := f.ProjectRole(ctx, userID, projectID)
	return role == membership.ProjectRoleOwner, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUserRepo) Create(_ context.Context, _ *user.User) error { return nil }
func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}
func (f *fakeUserRepo) FindByEmail(_ context.Context, _ string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) FindAllActive(_ context.Context) ([]user.User, error) { return nil, nil }
func (f *fakeUserRepo) Search(_ context.Context, _ string, _ int) ([]user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(_ context.Context, _ *user.User) error { return nil }

// fakeRepo keeps tasks, assignments and logs in memory, mirroring the
// transactional behavior of the real repository.
type fakeRepo struct {
	tasks   map[uuid.UUID]*Task
	members map[uuid.UUID][]membership.TaskMember
	logs    []activity.Log
	failOn  string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tasks:   make(map[uuid.UUID]*Task),
		members: make(map[uuid.UUID][]membership.TaskMember),
	}
}

func (f *fakeRepo) Create(_ context.Context, t *Task, primary *membership.TaskMember, log *activity.Log) error {
	if f.failOn == "create" {
		return assert.AnError
	}
	cp := *t
	f.tasks[t.ID] = &cp
	if primary != nil {
		f.members[t.ID] = append(f.members[t.ID], *primary)
	}
	if log != nil {
		f.logs = append(f.logs, *log)
	}
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*Task, error) {
	if t, ok := f.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, ErrTaskNotFound
}

func (f *fakeRepo) FindByProject(_ context.Context, projectID uuid.UUID, filter Filter) ([]Task, error) {
	var out []Task
	for _, t := range f.tasks {
		if t.ProjectID != projectID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		if filter.TopLevelOnly && t.ParentID != nil {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeRepo) FindSubtasks(_ context.Context, parentID uuid.UUID) ([]Task, error) {
	var out []Task
	for _, t := range f.tasks {
		if t.ParentID != nil && *t.ParentID == parentID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByMember(_ context.Context, userID uuid.UUID) ([]Task, error) {
	var out []Task
	for taskID, members := range f.members {
		for _, m := range members {
			if m.UserID == userID {
				out = append(out, *f.tasks[taskID])
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, t *Task, log *activity.Log) error {
	cp := *t
	f.tasks[t.ID] = &cp
	if log != nil {
		f.logs = append(f.logs, *log)
	}
	return nil
}

func (f *fakeRepo) DeleteCascade(_ context.Context, t *Task, log *activity.Log) error {
	if f.failOn == "delete" {
		return assert.AnError
	}
	var subtaskIDs []uuid.UUID
	for id, st := range f.tasks {
		if st.ParentID != nil && *st.ParentID == t.ID {
			subtaskIDs = append(subtaskIDs, id)
		}
	}
	for _, id := range append(subtaskIDs, t.ID) {
		delete(f.members, id)
		delete(f.tasks, id)
	}
	if log != nil {
		f.logs = append(f.logs, *log)
	}
	return nil
}

func (f *fakeRepo) ListMembers(_ context.Context, taskID uuid.UUID) ([]membership.TaskMember, error) {
	return f.members[taskID], nil
}

func (f *fakeRepo) FindMember(_ context.Context, taskID, userID uuid.UUID) (*membership.TaskMember, error) {
	for _, m := range f.members[taskID] {
		if m.UserID == userID {
			cp := m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) AddMember(_ context.Context, m *membership.TaskMember, log *activity.Log) error {
	if m.Role == membership.TaskRolePrimary {
		f.demote(m.TaskID, m.UserID)
	}
	f.members[m.TaskID] = append(f.members[m.TaskID], *m)
	if log != nil {
		f.logs = append(f.logs, *log)
	}
	return nil
}

func (f *fakeRepo) UpdateMemberRole(_ context.Context, taskID, userID uuid.UUID, role membership.TaskRole, log *activity.Log) error {
	if role == membership.TaskRolePrimary {
		f.demote(taskID, userID)
	}
	for i := range f.members[taskID] {
		if f.members[taskID][i].UserID == userID {
			f.members[taskID][i].Role = role
			if log != nil {
				f.logs = append(f.logs, *log)
			}
			return nil
		}
	}
	return ErrMemberNotFound
}

func (f *fakeRepo) RemoveMember(_ context.Context, taskID, userID uuid.UUID, log *activity.Log) error {
	members := f.members[taskID]
	for i := range members {
		if members[i].UserID == userID {
			f.members[taskID] = append(members[:i], members[i+1:]...)
			if log != nil {
				f.logs = append(f.logs, *log)
			}
			return nil
		}
	}
	return ErrMemberNotFound
}

func (f *fakeRepo) demote(taskID, exclude uuid.UUID) {
	for i := range f.members[taskID] {
		if f.members[taskID][i].UserID != exclude && f.members[taskID][i].Role == membership.TaskRolePrimary {
			f.members[taskID][i].Role = membership.TaskRoleSecondary
		}
	}
}

func setup(roles map[uuid.UUID]membership.ProjectRole, taskRoles map[uuid.UUID]membership.TaskRole) (*fakeRepo, Service) {
	repo := newFakeRepo()
	resolver := &fakeResolver{projectRoles: roles, taskRoles: taskRoles}
	users := &fakeUserRepo{users: map[uuid.UUID]*user.User{}}
	svc := NewService(repo, users, resolver, authz.NewEngine(resolver))
	return repo, svc
}

func TestCreateTaskEnrollsCreatorAsPrimary(t *testing.T) {
	creator := uuid.New()
	projectID := uuid.New()
	repo, svc := setup(map[uuid.UUID]membership.ProjectRole{
		creator: membership.ProjectRoleMember,
	}, nil)

	created, err := svc.CreateTask(context.Background(), creator, CreateTaskInput{
		Title:     "Write onboarding docs",
		ProjectID: projectID,
	})
	require.NoError(t, err)

	assert.Equal(t, TaskStatusNotStarted, created.Status)
	assert.Equal(t, TaskPriorityMedium, created.Priority)
	assert.Equal(t, creator, created.CreatorID)

	members := repo.members[created.ID]
	require.Len(t, members, 1)
	assert.Equal(t, creator, members[0].UserID)
	assert.Equal(t, membership.TaskRolePrimary, members[0].Role)

	require.Len(t, repo.logs, 1)
	assert.Equal(t, activity.ActionTaskCreated, repo.logs[0].Action)
}

func TestCreateTaskHierarchyRules(t *testing.T) {
	creator := uuid.New()
	projectID := uuid.New()
	otherProject := uuid.New()
	repo, svc := setup(map[uuid.UUID]membership.ProjectRole{
		creator: membership.ProjectRoleMember,
	}, nil)

	parent, err := svc.CreateTask(context.Background(), creator, CreateTaskInput{
		Title:     "Parent",
		ProjectID: projectID,
	})
	require.NoError(t, err)

	sub, err := svc.CreateTask(context.Background(), creator, CreateTaskInput{
		Title:     "Subtask",
		ProjectID: projectID,
		ParentID:  &parent.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, activity.ActionSubtaskCreated, repo.logs[len(repo.logs)-1].Action)

	tests := []struct {
		name    string
		input   CreateTaskInput
		wantErr error
	}{
		{
			name:    "missing parent",
			input:   CreateTaskInput{Title: "x", ProjectID: projectID, ParentID: ptr(uuid.New())},
			wantErr: ErrParentNotFound,
		},
		{
			name:    "parent in another project",
			input:   CreateTaskInput{Title: "x", ProjectID: otherProject, ParentID: &parent.ID},
			wantErr: ErrCrossProjectParent,
		},
		{
			name:    "subtask of a subtask",
			input:   CreateTaskInput{Title: "x", ProjectID: projectID, ParentID: &sub.ID},
			wantErr: ErrNestedSubtask,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTask(context.Background(), creator, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreateTaskHidesProjectFromOutsiders(t *testing.T) {
	outsider := uuid.New()
	_, svc := setup(nil, nil)

	_, err := svc.CreateTask(context.Background(), outsider, CreateTaskInput{
		Title:     "x",
		ProjectID: uuid.New(),
	})
	assert.ErrorIs(t, err, authz.ErrNotFound)
}

func TestDeleteTaskPermissions(t *testing.T) {
	owner := uuid.New()
	creator := uuid.New()
	primary := uuid.New()
	projectID := uuid.New()

	repo, svc := setup(map[uuid.UUID]membership.ProjectRole{
		owner:   membership.ProjectRoleOwner,
		creator: membership.ProjectRoleMember,
		primary: membership.ProjectRoleMember,
	}, map[uuid.UUID]membership.TaskRole{
		primary: membership.TaskRolePrimary,
	})

	created, err := svc.CreateTask(context.Background(), creator, CreateTaskInput{
		Title:     "Doomed",
		ProjectID: projectID,
	})
	require.NoError(t, err)

	// PRIMARY without creatorship cannot delete
	err = svc.DeleteTask(context.Background(), primary, created.ID)
	assert.ErrorIs(t, err, authz.ErrForbidden)
	assert.Contains(t, repo.tasks, created.ID)

	require.NoError(t, svc.DeleteTask(context.Background(), creator, created.ID))
	assert.NotContains(t, repo.tasks, created.ID)
	assert.Equal(t, activity.ActionTaskDeleted, repo.logs[len(repo.logs)-1].Action)
}

func TestDeleteTaskCascadesToSubtasks(t *testing.T) {
	creator := uuid.New()
	projectID := uuid.New()
	repo, svc := setup(map[uuid.UUID]membership.ProjectRole{
		creator: membership.ProjectRoleMember,
	}, nil)

	parent, err := svc.CreateTask(context.Background(), creator, CreateTaskInput{
		Title:     "Parent",
		ProjectID: projectID,
	})
	require.NoError(t, err)
	sub, err := svc.CreateTask(context.Background(), creator, CreateTaskInput{
		Title:     "Subtask",
		ProjectID: projectID,
		ParentID:  &parent.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(context.Background(), creator, parent.ID))
	assert.NotContains(t, repo.tasks, parent.ID)
	assert.NotContains(t, repo.tasks, sub.ID)
	assert.Empty(t, repo.members[parent.ID])
	assert.Empty(t, repo.members[sub.ID])
}

func TestDeleteTaskFailureLeavesEverything(t *testing.T) {
	creator := uuid.New()
	projectID := uuid.New()
	repo, svc := setup(map[uuid.UUID]membership.ProjectRole{
		creator: membership.ProjectRoleMember,
	}, nil)

	created, err := svc.CreateTask(context.Background(), creator, CreateTaskInput{
		Title:     "Sticky",
		ProjectID: projectID,
	})
	require.NoError(t, err)

	repo.failOn = "delete"
	err = svc.DeleteTask(context.Background(), creator, created.ID)
	assert.Error(t, err)
	assert.Contains(t, repo.tasks, created.ID)
	assert.Len(t, repo.members[created.ID], 1)
}

func TestUpdateTaskStatus(t *testing.T) {
	creator := uuid.New()
	member := uuid.New()
	projectID := uuid.New()
	repo, svc := setup(map[uuid.UUID]membership.ProjectRole{
		creator: membership.ProjectRoleMember,
		member:  membership.ProjectRoleMember,
	}, nil)

	created, err := svc.CreateTask(context.Background(), creator, CreateTaskInput{
		Title:     "Status test",
		ProjectID: projectID,
	})
	require.NoError(t, err)

	// Any project member may change status, no task role required
	updated, err := svc.UpdateTaskStatus(context.Background(), member, created.ID, TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, TaskStatusInProgress, updated.Status)

	last := repo.logs[len(repo.logs)-1]
	assert.Equal(t, activity.ActionTaskStatusChanged, last.Action)
	assert.Equal(t, "NOT_STARTED", last.Metadata["old_status"])
	assert.Equal(t, "IN_PROGRESS", last.Metadata["new_status"])

	_, err = svc.UpdateTaskStatus(context.Background(), member, created.ID, TaskStatus("DONE"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateTaskRequiresEditor(t *testing.T) {
	creator := uuid.New()
	secondary := uuid.New()
	projectID := uuid.New()
	_, svc := setup(map[uuid.UUID]membership.ProjectRole{
		creator:   membership.ProjectRoleMember,
		secondary: membership.ProjectRoleMember,
	}, map[uuid.UUID]membership.TaskRole{
		secondary: membership.TaskRoleSecondary,
	})

	created, err := svc.CreateTask(context.Background(), creator, CreateTaskInput{
		Title:     "Locked",
		ProjectID: projectID,
	})
	require.NoError(t, err)

	_, err = svc.UpdateTask(context.Background(), secondary, created.ID, UpdateTaskInput{
		Title: ptr("Renamed"),
	})
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestAddTaskMember(t *testing.T) {
	creator := uuid.New()
	member := uuid.New()
	outsider := uuid.New()
	projectID := uuid.New()

	repo, svc := setup(map[uuid.UUID]membership.ProjectRole{
		creator: membership.ProjectRoleMember,
		member:  membership.ProjectRoleMember,
	}, nil)

	created, err := svc.CreateTask(context.Background(), creator, CreateTaskInput{
		Title:     "Shared",
		ProjectID: projectID,
	})
	require.NoError(t, err)

	// Candidates outside the project are a bad request, not a conflict
	_, err = svc.AddTaskMember(context.Background(), creator, created.ID, outsider, membership.TaskRoleSecondary)
	assert.ErrorIs(t, err, ErrNotProjectMember)

	m, err := svc.AddTaskMember(context.Background(), creator, created.ID, member, membership.TaskRoleNone)
	require.NoError(t, err)
	assert.Equal(t, membership.TaskRoleSecondary, m.Role)

	_, err = svc.AddTaskMember(context.Background(), creator, created.ID, member, membership.TaskRoleSecondary)
	assert.ErrorIs(t, err, ErrAlreadyAssigned)

	assert.Equal(t, activity.ActionTaskMemberAdded, repo.logs[len(repo.logs)-1].Action)
}

func TestPromoteToPrimaryDemotesCurrent(t *testing.T) {
	creator := uuid.New()
	member := uuid.New()
	projectID := uuid.New()

	repo, svc := setup(map[uuid.UUID]membership.ProjectRole{
		creator: membership.ProjectRoleMember,
		member:  membership.ProjectRoleMember,
	}, nil)

	created, err := svc.CreateTask(context.Background(), creator, CreateTaskInput{
		Title:     "Handover",
		ProjectID: projectID,
	})
	require.NoError(t, err)

	_, err = svc.AddTaskMember(context.Background(), creator, created.ID, member, membership.TaskRoleSecondary)
	require.NoError(t, err)

	_, err = svc.UpdateTaskMemberRole(context.Background(), creator, created.ID, member, membership.TaskRolePrimary)
	require.NoError(t, err)

	var primaries int
	for _, m := range repo.members[created.ID] {
		if m.Role == membership.TaskRolePrimary {
			primaries++
			assert.Equal(t, member, m.UserID)
		}
	}
	assert.Equal(t, 1, primaries)
}
