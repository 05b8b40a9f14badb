package ui

import (
	"context"
	"io"
	"log"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuleni/registra/client"
	"github.com/shuleni/registra/core"
	"github.com/shuleni/registra/core/session"
	"github.com/shuleni/registra/core/student"
	inmemstore "github.com/shuleni/registra/storage/session/inmem"
	testapi "github.com/shuleni/registra/tests"
)

var ctx = context.Background()

// newEnv wires a client against an in-process fake backend for controller tests.
func newEnv(t *testing.T) (*client.Client, *testapi.Server) {
	t.Helper()

	fake := testapi.NewServer()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	conf := &core.Config{}
	conf.API.BaseURL = srv.URL + "/api"

	sess := session.NewService(inmemstore.New())
	logger := core.NewStdLogger(log.New(io.Discard, "", 0))
	return client.New(conf, sess, logger), fake
}

// signInAs seeds an account and stores its principal, as a successful login would.
func signInAs(t *testing.T, c *client.Client, fake *testapi.Server, username string, roles ...student.Role) student.Student {
	t.Helper()

	seeded := fake.Seed(username+" Test", username, username+"@test.cd", "secret1", "2020-01-01", roles...)
	require.NoError(t, c.Session().Save(student.Principal{
		ID:             seeded.ID,
		Username:       seeded.Username,
		FullName:       seeded.FullName,
		Email:          seeded.Email,
		EnrollmentDate: seeded.EnrollmentDate,
		Roles:          seeded.Roles,
		AccessToken:    fake.TokenFor(username),
	}))
	return seeded
}

func confirmYes(string) bool { return true }
func confirmNo(string) bool  { return false }

func TestListController_Refresh(t *testing.T) {
	c, fake := newEnv(t)
	signInAs(t, c, fake, "mod", student.RoleModerator)
	fake.Seed("Anna Weber", "anna", "anna@test.cd", "secret1", "2020-01-01")

	lc := NewListController(c)
	require.NoError(t, lc.Refresh(ctx))
	assert.Len(t, lc.Students(), 2)
	assert.False(t, lc.Loading())

	// refreshing again yields the same view
	require.NoError(t, lc.Refresh(ctx))
	assert.Len(t, lc.Students(), 2)

	t.Run("keeps the active filter", func(t *testing.T) {
		lc.SetTerm("anna")
		require.NoError(t, lc.Refresh(ctx))
		require.Len(t, lc.Students(), 1)
		assert.Equal(t, "anna", lc.Students()[0].Username)
		assert.Len(t, lc.All(), 2)
	})

	t.Run("records the failure and clears it on the next success", func(t *testing.T) {
		c2, fake2 := newEnv(t)
		signInAs(t, c2, fake2, "alice", student.RoleUser) // not staff

		lc2 := NewListController(c2)
		assert.Equal(t, client.ErrPermissionDenied, lc2.Refresh(ctx))
		assert.Equal(t, client.ErrPermissionDenied, lc2.Err())
		assert.False(t, lc2.Loading())
	})
}

func TestListController_SetTerm(t *testing.T) {
	c, fake := newEnv(t)
	signInAs(t, c, fake, "mod", student.RoleModerator)
	fake.Seed("Anna Weber", "anna", "anna@test.cd", "secret1", "2020-01-01")
	fake.Seed("King Solo", "king", "king@test.cd", "secret1", "2020-02-01")

	lc := NewListController(c)
	require.NoError(t, lc.Refresh(ctx))
	require.Len(t, lc.Students(), 3)
	before := fake.Requests()

	// filtering is local; no extra fetch
	lc.SetTerm("anna")
	require.Len(t, lc.Students(), 1)
	assert.Equal(t, "anna", lc.Students()[0].Username)
	assert.Equal(t, before, fake.Requests())

	// the full collection is untouched
	assert.Len(t, lc.All(), 3)

	// an empty term restores the full view
	lc.SetTerm("")
	assert.Len(t, lc.Students(), 3)
}

func TestListController_Remove(t *testing.T) {
	t.Run("declined confirmation issues no request", func(t *testing.T) {
		c, fake := newEnv(t)
		signInAs(t, c, fake, "root", student.RoleAdmin)
		anna := fake.Seed("Anna Weber", "anna", "anna@test.cd", "secret1", "2020-01-01")

		lc := NewListController(c)
		require.NoError(t, lc.Refresh(ctx))
		before := fake.Requests()

		require.NoError(t, lc.Remove(ctx, anna.ID, anna.FullName, confirmNo))
		assert.Equal(t, before, fake.Requests())
		assert.Len(t, lc.Students(), 2)

		// a nil confirm never deletes either
		require.NoError(t, lc.Remove(ctx, anna.ID, anna.FullName, nil))
		assert.Equal(t, before, fake.Requests())
	})

	t.Run("confirmed delete completes before the refresh", func(t *testing.T) {
		c, fake := newEnv(t)
		root := signInAs(t, c, fake, "root", student.RoleAdmin)
		anna := fake.Seed("Anna Weber", "anna", "anna@test.cd", "secret1", "2020-01-01")

		lc := NewListController(c)
		require.NoError(t, lc.Refresh(ctx))

		var prompt string
		require.NoError(t, lc.Remove(ctx, anna.ID, anna.FullName, func(p string) bool {
			prompt = p
			return true
		}))
		assert.Equal(t, "Are you sure you want to delete Anna Weber?", prompt)

		require.Len(t, lc.Students(), 1)
		assert.Equal(t, root.ID, lc.Students()[0].ID)

		reqs := fake.Requests()
		require.Len(t, reqs, 3)
		assert.Equal(t, "DELETE /api/students/2", reqs[1])
		assert.Equal(t, "GET /api/students", reqs[2])
	})

	t.Run("failed delete keeps the list and records the error", func(t *testing.T) {
		c, fake := newEnv(t)
		signInAs(t, c, fake, "mod", student.RoleModerator) // cannot delete
		anna := fake.Seed("Anna Weber", "anna", "anna@test.cd", "secret1", "2020-01-01")

		lc := NewListController(c)
		require.NoError(t, lc.Refresh(ctx))

		err := lc.Remove(ctx, anna.ID, anna.FullName, confirmYes)
		assert.Equal(t, client.ErrPermissionDenied, err)
		assert.Equal(t, client.ErrPermissionDenied, lc.Err())
		assert.Len(t, lc.Students(), 2)
	})
}
