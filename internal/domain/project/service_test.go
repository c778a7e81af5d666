package project

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

// fakeRepo keeps projects, members and logs in memory. The resolver reads
// member rows from the same store, so role checks see the latest writes.
type fakeRepo struct {
	projects map[uuid.UUID]*Project
	members  map[uuid.UUID][]membership.ProjectMember
	logs     []activity.Log
	tasks    int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		projects: make(map[uuid.UUID]*Project),
		members:  make(map[uuid.UUID][]membership.ProjectMember),
	}
}

func (f *fakeRepo) Create(_ context.Context, p *Project, owner *membership.ProjectMember, log *activity.Log) error {
	cp := *p
	f.projects[p.ID] = &cp
	f.members[p.ID] = append(f.members[p.ID], *owner)
	if log != nil {
		f.logs = append(f.logs, *log)
	}
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*Project, error) {
	if p, ok := f.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, ErrProjectNotFound
}

func (f *fakeRepo) FindAllForUser(_ context.Context, userID uuid.UUID, includeArchived bool) ([]Project, error) {
	var out []Project
	for id, members := range f.members {
		for _, m := range members {
			if m.UserID != userID {
				continue
			}
			p := f.projects[id]
			if p.IsArchived && !includeArchived {
				continue
			}
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, p *Project, log *activity.Log) error {
	cp := *p
	f.projects[p.ID] = &cp
	if log != nil {
		f.logs = append(f.logs, *log)
	}
	return nil
}

func (f *fakeRepo) ListMembers(_ context.Context, projectID uuid.UUID) ([]membership.ProjectMember, error) {
	return f.members[projectID], nil
}

func (f *fakeRepo) FindMember(_ context.Context, projectID, userID uuid.UUID) (*membership.ProjectMember, error) {
	for _, m := range f.members[projectID] {
		if m.UserID == userID {
			cp := m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) AddMember(_ context.Context, member *membership.ProjectMember, log *activity.Log) error {
	f.members[member.ProjectID] = append(f.members[member.ProjectID], *member)
	if log != nil {
		f.logs = append(f.logs, *log)
	}
	return nil
}

func (f *fakeRepo) UpdateMemberRole(_ context.Context, projectID, userID uuid.UUID, role membership.ProjectRole, log *activity.Log) error {
	for i := range f.members[projectID] {
		if f.members[projectID][i].UserID == userID {
			f.members[projectID][i].Role = role
			if log != nil {
				f.logs = append(f.logs, *log)
			}
			return nil
		}
	}
	return ErrMemberNotFound
}

func (f *fakeRepo) RemoveMember(_ context.Context, projectID, userID uuid.UUID, log *activity.Log) error {
	members := f.members[projectID]
	for i := range members {
		if members[i].UserID == userID {
			f.members[projectID] = append(members[:i], members[i+1:]...)
			if log != nil {
				f.logs = append(f.logs, *log)
			}
			return nil
		}
	}
	return ErrMemberNotFound
}

func (f *fakeRepo) CountTasks(_ context.Context, _ uuid.UUID) (int64, error) {
	return f.tasks, nil
}

// repoResolver resolves roles from the fake repository's member rows.
type repoResolver struct {
	repo *fakeRepo
}

func (r *repoResolver) ProjectRole(_ context.Context, userID, projectID uuid.UUID) (membership.ProjectRole, error) {
	for _, m := range r.repo.members[projectID] {
		if m.UserID == userID {
			return m.Role, nil
		}
	}
	return membership.ProjectRoleNone, nil
}

func (r *repoResolver) TaskRole(_ context.Context, _, _ uuid.UUID) (membership.TaskRole, error) {
	return membership.TaskRoleNone, nil
}

func (r *repoResolver) IsProjectMember(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	role, _ := r.ProjectRole(ctx, userID, projectID)
	return role != membership.ProjectRoleNone, nil
}

func (r *repoResolver) IsProjectOwner(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	role, _ := r.ProjectRole(ctx, userID, projectID)
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

func setup(users ...*user.User) (*fakeRepo, Service) {
	repo := newFakeRepo()
	resolver := &repoResolver{repo: repo}
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*user.User{}}
	for _, u := range users {
		userRepo.users[u.ID] = u
	}
	svc := NewService(repo, userRepo, authz.NewEngine(resolver))
	return repo, svc
}

func TestCreateProjectMakesCreatorOwner(t *testing.T) {
	creator := uuid.New()
	repo, svc := setup()

	p, err := svc.CreateProject(context.Background(), creator, CreateProjectInput{
		Name: "Website Redesign",
	})
	require.NoError(t, err)
	assert.Equal(t, defaultColor, p.Color)

	members := repo.members[p.ID]
	require.Len(t, members, 1)
	assert.Equal(t, creator, members[0].UserID)
	assert.Equal(t, membership.ProjectRoleOwner, members[0].Role)

	require.Len(t, repo.logs, 1)
	assert.Equal(t, activity.ActionProjectCreated, repo.logs[0].Action)
	assert.Equal(t, `Created project "Website Redesign"`, repo.logs[0].Description)
}

func TestGetProjectHiddenFromOutsiders(t *testing.T) {
	creator := uuid.New()
	outsider := uuid.New()
	_, svc := setup()

	p, err := svc.CreateProject(context.Background(), creator, CreateProjectInput{Name: "Hidden"})
	require.NoError(t, err)

	_, err = svc.GetProject(context.Background(), outsider, p.ID)
	assert.ErrorIs(t, err, authz.ErrNotFound)

	details, err := svc.GetProject(context.Background(), creator, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, details.Project.ID)
}

func TestArchiveProject(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	repo, svc := setup(&user.User{ID: other, Name: "Sam"})

	p, err := svc.CreateProject(context.Background(), owner, CreateProjectInput{Name: "Old"})
	require.NoError(t, err)

	_, err = svc.AddMember(context.Background(), owner, p.ID, other, membership.ProjectRoleMember)
	require.NoError(t, err)

	// Members cannot archive
	assert.ErrorIs(t, svc.ArchiveProject(context.Background(), other, p.ID), authz.ErrForbidden)

	require.NoError(t, svc.ArchiveProject(context.Background(), owner, p.ID))
	assert.True(t, repo.projects[p.ID].IsArchived)
	assert.Equal(t, activity.ActionProjectDeleted, repo.logs[len(repo.logs)-1].Action)

	// Archived projects drop out of default listings but stay fetchable
	listed, err := svc.ListProjects(context.Background(), owner, false)
	require.NoError(t, err)
	assert.Empty(t, listed)

	listed, err = svc.ListProjects(context.Background(), owner, true)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestAddMember(t *testing.T) {
	owner := uuid.New()
	candidate := uuid.New()
	repo, svc := setup(&user.User{ID: candidate, Name: "Alex"})

	p, err := svc.CreateProject(context.Background(), owner, CreateProjectInput{Name: "Team"})
	require.NoError(t, err)

	m, err := svc.AddMember(context.Background(), owner, p.ID, candidate, membership.ProjectRoleNone)
	require.NoError(t, err)
	assert.Equal(t, membership.ProjectRoleMember, m.Role)

	_, err = svc.AddMember(context.Background(), owner, p.ID, candidate, membership.ProjectRoleMember)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	// Adding an unknown user fails before any write
	_, err = svc.AddMember(context.Background(), owner, p.ID, uuid.New(), membership.ProjectRoleMember)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	last := repo.logs[len(repo.logs)-1]
	assert.Equal(t, activity.ActionMemberAdded, last.Action)
	assert.Equal(t, "Alex", last.Metadata["member_name"])
}

func TestOwnerCannotModifyOwnMembership(t *testing.T) {
	owner := uuid.New()
	_, svc := setup(&user.User{ID: owner, Name: "Boss"})

	p, err := svc.CreateProject(context.Background(), owner, CreateProjectInput{Name: "Solo"})
	require.NoError(t, err)

	_, err = svc.UpdateMemberRole(context.Background(), owner, p.ID, owner, membership.ProjectRoleMember)
	assert.ErrorIs(t, err, authz.ErrForbidden)

	err = svc.RemoveMember(context.Background(), owner, p.ID, owner)
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestMemberManagementRequiresOwner(t *testing.T) {
	owner := uuid.New()
	member := uuid.New()
	third := uuid.New()
	_, svc := setup(
		&user.User{ID: member, Name: "Sam"},
		&user.User{ID: third, Name: "Kim"},
	)

	p, err := svc.CreateProject(context.Background(), owner, CreateProjectInput{Name: "Team"})
	require.NoError(t, err)

	_, err = svc.AddMember(context.Background(), owner, p.ID, member, membership.ProjectRoleMember)
	require.NoError(t, err)

	_, err = svc.AddMember(context.Background(), member, p.ID, third, membership.ProjectRoleMember)
	assert.ErrorIs(t, err, authz.ErrForbidden)
}
