package client

import (
	"context"
	"net/http"

	"github.com/shuleni/registra/core"
	"github.com/shuleni/registra/core/student"
)

// Credentials is the POST /auth/signin payload.
type Credentials struct {
	Username string `json:"username" label:"Username" validate:"required"`
	Password string `json:"password" label:"Password" validate:"required"`
}

func (cr *Credentials) Validate() error {
	cr.Username = core.CleanString(cr.Username, true /* lower */)
	return core.TranslateError(core.Validate.Struct(cr))
}

// Login posts credentials and, on success, saves the returned principal so
// the bearer token rides every subsequent call. Tokens are opaque and
// long-lived from this side; there is no refresh.
func (c *Client) Login(ctx context.Context, username, password string) (student.Principal, error) {
	creds := Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		return student.Principal{}, err
	}

	var p student.Principal
	if err := c.do(ctx, http.MethodPost, "/auth/signin", false, &creds, &p); err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.Message == "" {
			return student.Principal{}, errLoginFailed
		}
		return student.Principal{}, err
	}
	if p.AccessToken == "" {
		return student.Principal{}, errLoginFailed
	}

	if err := c.session.Save(p); err != nil {
		return student.Principal{}, err
	}
	return p, nil
}

// Register posts a sign-up payload. It does not log the new account in; the
// caller prompts the user to sign in afterward. The password/confirmation
// check happens locally before any network call.
func (c *Client) Register(ctx context.Context, ns student.NewStudent) error {
	if len(ns.Roles) == 0 {
		ns.Roles = student.RoleList{student.RoleUser}
	}
	if err := ns.Validate(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/auth/signup", false, &ns, nil)
}

// Logout drops the stored principal. The token is not revoked server-side;
// it simply stops being presented.
func (c *Client) Logout() error {
	return c.session.Clear()
}
