package ui

import (
	"context"
	"time"

	"github.com/shuleni/registra/client"
	"github.com/shuleni/registra/core"
	"github.com/shuleni/registra/core/student"
)

// Draft is the transient form state: a mutable copy of a record (or the
// new-record template) plus password fields that are never persisted.
type Draft struct {
	Username        string
	FullName        string
	Email           string
	EnrollmentDate  string
	Password        string
	PasswordConfirm string
	Roles           student.RoleList
}

// FormController owns the draft lifecycle for the add/edit form and the
// self-profile form. Edit mode is entered explicitly via Edit and exited by
// CancelEdit or a successful submit.
type FormController struct {
	client *client.Client

	draft   Draft
	editing *student.Student
	loading bool
}

func NewFormController(c *client.Client) *FormController {
	fc := &FormController{client: c}
	fc.Reset()
	return fc
}

// Draft exposes the mutable draft for field binding.
func (fc *FormController) Draft() *Draft { return &fc.draft }

func (fc *FormController) Editing() *student.Student { return fc.editing }
func (fc *FormController) Loading() bool             { return fc.loading }

// Reset restores the new-record template: enrollment date preset to today,
// role preset to USER.
func (fc *FormController) Reset() {
	fc.draft = Draft{
		EnrollmentDate: time.Now().Format(core.DateLayout),
		Roles:          student.RoleList{student.RoleUser},
	}
	fc.editing = nil
}

// LoadProfile seeds the draft from the stored principal for self-service
// editing. Password fields are never pre-filled.
func (fc *FormController) LoadProfile() error {
	p, err := fc.client.Session().Get()
	if err != nil {
		return err
	}
	fc.draft = Draft{
		Username:       p.Username,
		FullName:       p.FullName,
		Email:          p.Email,
		EnrollmentDate: p.EnrollmentDate,
	}
	fc.editing = nil
	return nil
}

// Edit enters edit mode for an existing record.
func (fc *FormController) Edit(s student.Student) {
	fc.editing = &s
	fc.draft = Draft{
		Username:       s.Username,
		FullName:       s.FullName,
		Email:          s.Email,
		EnrollmentDate: s.EnrollmentDate,
		Roles:          s.Roles,
	}
}

func (fc *FormController) CancelEdit() {
	fc.Reset()
}

// Validate runs the local field validation for the current mode. A passing
// validation does not guarantee server acceptance; server-side errors are
// surfaced verbatim by Submit.
func (fc *FormController) Validate() error {
	if fc.selfService() {
		pu := fc.toProfile()
		return pu.Validate()
	}
	if fc.editing != nil {
		us := fc.toUpdate()
		return us.Validate()
	}
	ns := fc.toNew()
	return ns.Validate()
}

// Submit routes to create, update or self-profile based on the current mode.
// Validation failures never reach the network. On success the draft resets
// and the mutation completes before the supplied refresh begins.
func (fc *FormController) Submit(ctx context.Context, refresh func(context.Context) error) (string, error) {
	if err := fc.Validate(); err != nil {
		return "", err
	}

	fc.loading = true
	defer func() { fc.loading = false }()

	if fc.selfService() {
		if err := fc.client.UpdateProfile(ctx, fc.toProfile()); err != nil {
			return "", err
		}
		fc.draft.Password = ""
		fc.draft.PasswordConfirm = ""
		return "Profile updated successfully!", nil
	}

	if fc.editing != nil {
		if _, err := fc.client.UpdateStudent(ctx, fc.editing.ID, fc.toUpdate()); err != nil {
			return "", err
		}
		fc.Reset()
		if refresh != nil {
			if err := refresh(ctx); err != nil {
				return "", err
			}
		}
		return "Student updated successfully!", nil
	}

	if _, err := fc.client.CreateStudent(ctx, fc.toNew()); err != nil {
		return "", err
	}
	fc.Reset()
	if refresh != nil {
		if err := refresh(ctx); err != nil {
			return "", err
		}
	}
	return "Student added successfully!", nil
}

// selfService reports whether the current principal manages only their own
// profile (role set is exactly USER).
func (fc *FormController) selfService() bool {
	p, err := fc.client.Session().Get()
	if err != nil {
		return false
	}
	return p.IsRegularOnly()
}

func (fc *FormController) toNew() student.NewStudent {
	return student.NewStudent{
		Username:        fc.draft.Username,
		FullName:        fc.draft.FullName,
		Email:           fc.draft.Email,
		Password:        fc.draft.Password,
		PasswordConfirm: fc.draft.PasswordConfirm,
		EnrollmentDate:  fc.draft.EnrollmentDate,
		Roles:           fc.draft.Roles,
	}
}

func (fc *FormController) toUpdate() student.UpdateStudent {
	return student.UpdateStudent{
		Username:        fc.draft.Username,
		FullName:        fc.draft.FullName,
		Email:           fc.draft.Email,
		EnrollmentDate:  fc.draft.EnrollmentDate,
		Password:        fc.draft.Password,
		PasswordConfirm: fc.draft.PasswordConfirm,
		Roles:           fc.draft.Roles,
	}
}

func (fc *FormController) toProfile() student.ProfileUpdate {
	return student.ProfileUpdate{
		Username:        fc.draft.Username,
		FullName:        fc.draft.FullName,
		Email:           fc.draft.Email,
		EnrollmentDate:  fc.draft.EnrollmentDate,
		Password:        fc.draft.Password,
		PasswordConfirm: fc.draft.PasswordConfirm,
	}
}
