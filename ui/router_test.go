package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuleni/registra/client"
	"github.com/shuleni/registra/core/student"
)

func TestRouter_Resolve(t *testing.T) {
	t.Run("logged out lands on login", func(t *testing.T) {
		c, _ := newEnv(t)
		r := NewRouter(c.Session())
		assert.Equal(t, ScreenLogin, r.Resolve())
	})

	t.Run("register toggle while unauthenticated", func(t *testing.T) {
		c, _ := newEnv(t)
		r := NewRouter(c.Session())

		r.ShowRegister()
		assert.Equal(t, ScreenRegister, r.Resolve())
		r.ShowLogin()
		assert.Equal(t, ScreenLogin, r.Resolve())
	})

	t.Run("regular user lands on the self profile", func(t *testing.T) {
		c, fake := newEnv(t)
		fake.Seed("Alice Kalenga", "alice", "alice@test.cd", "secret1", "2020-01-01", student.RoleUser)

		p, err := c.Login(ctx, "alice", "secret1")
		require.NoError(t, err)
		assert.True(t, p.HasRole(student.RoleUser))

		r := NewRouter(c.Session())
		assert.Equal(t, ScreenProfile, r.Resolve())
	})

	t.Run("staff land on the dashboard", func(t *testing.T) {
		for _, roles := range []student.RoleList{
			{student.RoleModerator},
			{student.RoleAdmin},
			{student.RoleUser, student.RoleModerator},
		} {
			c, fake := newEnv(t)
			signInAs(t, c, fake, "staff", roles...)

			r := NewRouter(c.Session())
			assert.Equal(t, ScreenDashboard, r.Resolve(), "roles %v", roles)
		}
	})

	t.Run("login clears a pending register toggle", func(t *testing.T) {
		c, fake := newEnv(t)
		r := NewRouter(c.Session())
		r.ShowRegister()

		signInAs(t, c, fake, "alice", student.RoleUser)
		assert.Equal(t, ScreenProfile, r.Resolve())

		// the toggle does not come back after logout
		require.NoError(t, r.Logout())
		assert.Equal(t, ScreenLogin, r.Resolve())
	})
}

func TestRouter_SessionExpiry(t *testing.T) {
	c, fake := newEnv(t)
	seeded := signInAs(t, c, fake, "mod", student.RoleModerator)
	r := NewRouter(c.Session())
	require.Equal(t, ScreenDashboard, r.Resolve())

	// the backend stops accepting the token
	require.NoError(t, c.Session().Save(student.Principal{
		ID: seeded.ID, Username: seeded.Username, Roles: seeded.Roles,
		AccessToken: "expired",
	}))
	_, err := c.ListStudents(ctx)
	require.Equal(t, client.ErrSessionExpired, err)

	// any 401 clears the store; the next resolution lands on login
	assert.Equal(t, ScreenLogin, r.Resolve())
}

func TestRouter_Tabs(t *testing.T) {
	t.Run("manage tab is admin-only", func(t *testing.T) {
		c, fake := newEnv(t)
		signInAs(t, c, fake, "mod", student.RoleModerator)
		r := NewRouter(c.Session())

		assert.True(t, r.SetTab(TabAdd))
		assert.False(t, r.SetTab(TabManage))
		assert.Equal(t, TabAdd, r.Tab()) // refused selection leaves the tab alone
	})

	t.Run("admin may select manage", func(t *testing.T) {
		c, fake := newEnv(t)
		signInAs(t, c, fake, "root", student.RoleAdmin)
		r := NewRouter(c.Session())

		assert.True(t, r.SetTab(TabManage))
		assert.Equal(t, TabManage, r.Tab())
	})

	t.Run("after a create admins land on manage, moderators on the list", func(t *testing.T) {
		c, fake := newEnv(t)
		signInAs(t, c, fake, "root", student.RoleAdmin)
		r := NewRouter(c.Session())
		r.StudentCreated()
		assert.Equal(t, TabManage, r.Tab())

		c2, fake2 := newEnv(t)
		signInAs(t, c2, fake2, "mod", student.RoleModerator)
		r2 := NewRouter(c2.Session())
		require.True(t, r2.SetTab(TabAdd))
		r2.StudentCreated()
		assert.Equal(t, TabList, r2.Tab())
	})

	t.Run("logout resets the tab", func(t *testing.T) {
		c, fake := newEnv(t)
		signInAs(t, c, fake, "root", student.RoleAdmin)
		r := NewRouter(c.Session())
		require.True(t, r.SetTab(TabManage))

		require.NoError(t, r.Logout())
		assert.Equal(t, TabList, r.Tab())
		assert.Equal(t, ScreenLogin, r.Resolve())
	})
}

func TestScreen_String(t *testing.T) {
	assert.Equal(t, "login", ScreenLogin.String())
	assert.Equal(t, "register", ScreenRegister.String())
	assert.Equal(t, "profile", ScreenProfile.String())
	assert.Equal(t, "dashboard", ScreenDashboard.String())
	assert.Equal(t, "list", TabList.String())
	assert.Equal(t, "add", TabAdd.String())
	assert.Equal(t, "manage", TabManage.String())
}
