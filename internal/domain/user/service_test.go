package user

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	byID    map[uuid.UUID]*User
	byEmail map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[uuid.UUID]*User),
		byEmail: make(map[string]*User),
	}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return ErrEmailExists
	}
	cp := *u
	f.byID[u.ID] = &cp
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := f.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRepo) FindAllActive(_ context.Context) ([]User, error) {
	var out []User
	for _, u := range f.byID {
		if u.IsActive {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeRepo) Search(_ context.Context, query string, limit int) ([]User, error) {
	var out []User
	for _, u := range f.byID {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(query)) ||
			strings.Contains(u.Email, strings.ToLower(query)) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	cp := *u
	f.byID[u.ID] = &cp
	f.byEmail[u.Email] = &cp
	return nil
}

func TestRegister(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, bcrypt.MinCost)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Jane@Example.COM ",
		Name:     "Jane",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	// Emails normalize on the way in
	assert.Equal(t, "jane@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	_, err = svc.Register(context.Background(), RegisterInput{
		Email:    "jane@example.com",
		Name:     "Other Jane",
		Password: "different",
	})
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = svc.Register(context.Background(), RegisterInput{Email: "x@y.z", Name: "", Password: "pw"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, bcrypt.MinCost)

	registered, err := svc.Register(context.Background(), RegisterInput{
		Email:    "sam@example.com",
		Name:     "Sam",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "SAM@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	// Wrong password and unknown email produce the same error
	_, err = svc.Authenticate(context.Background(), "sam@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Deactivated accounts stop authenticating
	require.NoError(t, svc.Deactivate(context.Background(), registered.ID))
	_, err = svc.Authenticate(context.Background(), "sam@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, bcrypt.MinCost)

	registered, err := svc.Register(context.Background(), RegisterInput{
		Email:    "kim@example.com",
		Name:     "Kim",
		Password: "pw123456",
	})
	require.NoError(t, err)

	name := "Kim L."
	avatar := "https://example.com/kim.png"
	updated, err := svc.UpdateProfile(context.Background(), registered.ID, UpdateProfileInput{
		Name:   &name,
		Avatar: &avatar,
	})
	require.NoError(t, err)
	assert.Equal(t, "Kim L.", updated.Name)
	assert.Equal(t, avatar, updated.Avatar)

	empty := ""
	_, err = svc.UpdateProfile(context.Background(), registered.ID, UpdateProfileInput{Name: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearchUsers(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, bcrypt.MinCost)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "alex@example.com", Name: "Alex", Password: "pw123456",
	})
	require.NoError(t, err)

	found, err := svc.SearchUsers(context.Background(), "alex")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = svc.SearchUsers(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, found)
}
