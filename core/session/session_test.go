package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuleni/registra/core/session"
	"github.com/shuleni/registra/core/student"
	inmemstore "github.com/shuleni/registra/storage/session/inmem"
)

func alicePrincipal() student.Principal {
	return student.Principal{
		ID:             1,
		Username:       "alice",
		FullName:       "Alice Kalenga",
		Email:          "alice@test.cd",
		EnrollmentDate: "2020-01-01",
		Roles:          student.RoleList{student.RoleUser},
		AccessToken:    "token-abc",
	}
}

func TestService_SaveGetClear(t *testing.T) {
	svc := session.NewService(inmemstore.New())

	_, err := svc.Get()
	assert.Equal(t, session.ErrNoSession, err)

	p := alicePrincipal()
	require.NoError(t, svc.Save(p))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, p, got)

	require.NoError(t, svc.Clear())
	_, err = svc.Get()
	assert.Equal(t, session.ErrNoSession, err)
}

func TestService_Token(t *testing.T) {
	svc := session.NewService(inmemstore.New())

	// logged out
	assert.Empty(t, svc.Token())

	require.NoError(t, svc.Save(alicePrincipal()))
	assert.Equal(t, "token-abc", svc.Token())

	// Token reads the store at call time; a clear is visible immediately.
	require.NoError(t, svc.Clear())
	assert.Empty(t, svc.Token())
}

func TestService_HasRole(t *testing.T) {
	svc := session.NewService(inmemstore.New())

	// empty store grants nothing
	assert.False(t, svc.HasRole(student.RoleUser))

	p := alicePrincipal()
	p.Roles = student.RoleList{student.RoleUser, student.RoleAdmin}
	require.NoError(t, svc.Save(p))

	assert.True(t, svc.HasRole(student.RoleUser))
	assert.True(t, svc.HasRole(student.RoleAdmin))
	assert.False(t, svc.HasRole(student.RoleModerator))
}

func TestService_ApplyProfile(t *testing.T) {
	svc := session.NewService(inmemstore.New())

	t.Run("no session", func(t *testing.T) {
		err := svc.ApplyProfile(student.ProfileUpdate{Username: "alice"})
		assert.Equal(t, session.ErrNoSession, err)
	})

	require.NoError(t, svc.Save(alicePrincipal()))
	require.NoError(t, svc.ApplyProfile(student.ProfileUpdate{
		Username:       "alice2",
		FullName:       "Alice K.",
		Email:          "alice2@test.cd",
		EnrollmentDate: "2020-02-02",
		Password:       "never-stored",
	}))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)
	assert.Equal(t, "Alice K.", got.FullName)
	assert.Equal(t, "alice2@test.cd", got.Email)
	assert.Equal(t, "2020-02-02", got.EnrollmentDate)

	// roles and token survive the rewrite
	assert.Equal(t, student.RoleList{student.RoleUser}, got.Roles)
	assert.Equal(t, "token-abc", got.AccessToken)
}
