package ui

import (
	"context"
	"fmt"

	"github.com/shuleni/registra/client"
	"github.com/shuleni/registra/core/student"
)

// ConfirmFunc gates destructive actions. It receives a prompt and reports
// whether the user confirmed.
type ConfirmFunc func(prompt string) bool

// ListController holds the fetched collection plus a filtered view derived
// from the live search term. The filtered view is always the full collection
// re-evaluated against the term; it never mutates the full collection.
type ListController struct {
	client *client.Client

	full     []student.Student
	filtered []student.Student
	term     string
	loading  bool
	err      error
}

func NewListController(c *client.Client) *ListController {
	return &ListController{client: c}
}

// Refresh replaces the collection with a fresh fetch and clears any stale
// error. The current term is re-applied to keep the filtered view derived.
func (lc *ListController) Refresh(ctx context.Context) error {
	lc.loading = true
	defer func() { lc.loading = false }()

	students, err := lc.client.ListStudents(ctx)
	if err != nil {
		lc.err = err
		return err
	}
	lc.full = students
	lc.filtered = student.Search(students, lc.term)
	lc.err = nil
	return nil
}

// SetTerm recomputes the filtered view; an empty term restores the full view.
func (lc *ListController) SetTerm(term string) {
	lc.term = term
	lc.filtered = student.Search(lc.full, term)
}

// Remove deletes a record after an explicit confirmation. Without
// confirmation no request is issued. On success the list is refreshed;
// the delete completes before the refresh begins.
func (lc *ListController) Remove(ctx context.Context, id int, name string, confirm ConfirmFunc) error {
	if confirm == nil || !confirm(fmt.Sprintf("Are you sure you want to delete %s?", name)) {
		return nil
	}

	lc.loading = true
	if err := lc.client.DeleteStudent(ctx, id); err != nil {
		lc.loading = false
		lc.err = err
		return err
	}
	lc.loading = false
	return lc.Refresh(ctx)
}

func (lc *ListController) Students() []student.Student { return lc.filtered }
func (lc *ListController) All() []student.Student      { return lc.full }
func (lc *ListController) Term() string                { return lc.term }
func (lc *ListController) Loading() bool               { return lc.loading }
func (lc *ListController) Err() error                  { return lc.err }
