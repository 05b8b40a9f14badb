// Package client talks to the registration REST API. It attaches the stored
// bearer token to every call and folds failures into one uniform taxonomy:
// 401 clears the session, 403/404/400/network each map onto a typed error and
// nothing is ever retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/shuleni/registra/core"
	"github.com/shuleni/registra/core/session"
)

type Client struct {
	base    string
	http    *http.Client
	session *session.Service
	log     core.Logger
}

func New(conf *core.Config, sess *session.Service, log core.Logger) *Client {
	return &Client{
		base:    conf.API.BaseURL,
		http:    &http.Client{Timeout: conf.API.Timeout},
		session: sess,
		log:     log,
	}
}

// Session exposes the session service backing this client.
func (c *Client) Session() *session.Service { return c.session }

// do performs one request/response cycle. When authed, the bearer token is
// read from the session store at call time; a 401 clears the store before
// ErrSessionExpired is surfaced so the next route resolution lands on login.
func (c *Client) do(ctx context.Context, method, path string, authed bool, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return errors.Wrap(err, "encoding request body")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("request failed", errors.Wrapf(err, "%s %s", method, path))
		return ErrBackendUnreachable
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return errors.Wrap(err, "decoding response body")
		}
		return nil
	}

	respBody, _ := io.ReadAll(resp.Body)

	if !authed {
		return c.authError(resp.StatusCode, respBody)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if err := c.session.Clear(); err != nil {
			c.log.Error("clearing session after 401", err)
		}
		return ErrSessionExpired
	case http.StatusForbidden:
		return ErrPermissionDenied
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return parseValidationBody(respBody)
	default:
		return &APIError{Status: resp.StatusCode}
	}
}

// authError maps sign-in/sign-up failures onto the server-provided message
// when there is one. No forced logout on 401 here; the expiry signal only
// applies to authenticated calls.
func (c *Client) authError(status int, body []byte) error {
	if status == http.StatusBadRequest {
		return parseValidationBody(body)
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return &APIError{Status: status, Message: payload.Message}
		}
		if payload.Error != "" {
			return &APIError{Status: status, Message: payload.Error}
		}
	}
	return &APIError{Status: status}
}
