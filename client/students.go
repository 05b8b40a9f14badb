package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shuleni/registra/core/student"
)

// ListStudents fetches the whole collection. Records are fetched fresh on
// every call; nothing is cached client-side.
func (c *Client) ListStudents(ctx context.Context) ([]student.Student, error) {
	var students []student.Student
	if err := c.do(ctx, http.MethodGet, "/students", true, nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (c *Client) CreateStudent(ctx context.Context, ns student.NewStudent) (student.Student, error) {
	var created student.Student
	if err := c.do(ctx, http.MethodPost, "/students", true, &ns, &created); err != nil {
		return student.Student{}, err
	}
	return created, nil
}

func (c *Client) UpdateStudent(ctx context.Context, id int, us student.UpdateStudent) (student.Student, error) {
	var updated student.Student
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/students/%d", id), true, &us, &updated); err != nil {
		return student.Student{}, err
	}
	return updated, nil
}

func (c *Client) DeleteStudent(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/students/%d", id), true, nil, nil)
}

// UpdateProfile is the self-service variant; on success the stored principal
// is rewritten with the submitted fields (never the password).
func (c *Client) UpdateProfile(ctx context.Context, pu student.ProfileUpdate) error {
	if err := c.do(ctx, http.MethodPut, "/students/profile", true, &pu, nil); err != nil {
		return err
	}
	return c.session.ApplyProfile(pu)
}
