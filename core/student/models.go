package student

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shuleni/registra/core"
)

// Roles
const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"

	rolePrefix = "ROLE_"
)

var AllRoles = []Role{RoleUser, RoleModerator, RoleAdmin}

// Role is the canonical role tag. Server responses carry roles in several
// shapes (`ROLE_USER`, `user`, `{"name": ...}`, `{"authority": ...}`); they are
// all folded into this one form at the wire boundary and nowhere else.
type Role string

// NormalizeRole maps a raw server or user supplied role value onto the
// canonical enum. The optional ROLE_ prefix is stripped case-insensitively.
func NormalizeRole(raw string) (Role, bool) {
	r := strings.ToUpper(core.CleanString(raw))
	r = strings.TrimPrefix(r, rolePrefix)
	for _, known := range AllRoles {
		if Role(r) == known {
			return known, true
		}
	}
	return "", false
}

// Prefixed re-adds the ROLE_ prefix for comparison against server-issued values.
func (r Role) Prefixed() string { return rolePrefix + string(r) }

// Wire lowers the role for signup payloads.
func (r Role) Wire() string { return strings.ToLower(string(r)) }

// Name returns the display name of the role.
func (r Role) Name() string {
	if len(r) == 0 {
		return ""
	}
	return string(r[:1]) + strings.ToLower(string(r[1:]))
}

// RoleList normalizes server role shapes on the way in and writes the wire
// form on the way out.
type RoleList []Role

func (rl RoleList) Has(role Role) bool {
	for _, r := range rl {
		if r == role {
			return true
		}
	}
	return false
}

// IsRegularOnly reports whether the role set grants nothing beyond USER.
func (rl RoleList) IsRegularOnly() bool {
	return rl.Has(RoleUser) && !rl.Has(RoleModerator) && !rl.Has(RoleAdmin)
}

// IsStaff reports whether the role set grants the management dashboard.
func (rl RoleList) IsStaff() bool {
	return rl.Has(RoleModerator) || rl.Has(RoleAdmin)
}

func (rl RoleList) MarshalJSON() ([]byte, error) {
	raws := make([]string, 0, len(rl))
	for _, r := range rl {
		raws = append(raws, r.Wire())
	}
	return json.Marshal(raws)
}

func (rl *RoleList) UnmarshalJSON(data []byte) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return err
	}

	roles := make(RoleList, 0, len(elems))
	for _, elem := range elems {
		var raw string
		if err := json.Unmarshal(elem, &raw); err != nil {
			// object shape: {"name": "USER"} or {"authority": "ROLE_USER"}
			var obj struct {
				Name      string `json:"name"`
				Authority string `json:"authority"`
			}
			if err := json.Unmarshal(elem, &obj); err != nil {
				return err
			}
			raw = obj.Name
			if raw == "" {
				raw = obj.Authority
			}
		}
		// unknown roles are dropped rather than propagated
		if role, ok := NormalizeRole(raw); ok && !roles.Has(role) {
			roles = append(roles, role)
		}
	}
	*rl = roles
	return nil
}

// Principal is the authenticated user's identity, roles and bearer token as
// returned by POST /auth/signin. It is persisted whole; absence means logged out.
type Principal struct {
	ID             int      `json:"id"`
	Username       string   `json:"username"`
	FullName       string   `json:"fullName"`
	Email          string   `json:"email"`
	EnrollmentDate string   `json:"enrollmentDate,omitempty"`
	Roles          RoleList `json:"roles"`
	AccessToken    string   `json:"accessToken"`
}

func (p Principal) HasRole(role Role) bool { return p.Roles.Has(role) }
func (p Principal) IsAdmin() bool          { return p.Roles.Has(RoleAdmin) }
func (p Principal) IsModerator() bool      { return p.Roles.Has(RoleModerator) }
func (p Principal) IsRegularOnly() bool    { return p.Roles.IsRegularOnly() }

type Student struct {
	ID             int      `json:"id"`
	Username       string   `json:"username"`
	FullName       string   `json:"fullName"`
	Email          string   `json:"email"`
	EnrollmentDate string   `json:"enrollmentDate"` // YYYY-MM-DD
	Roles          RoleList `json:"roles,omitempty"`
}

// NewStudent contains information needed to register a new account.
type NewStudent struct {
	Username        string   `json:"username" label:"Username" validate:"required,max=20"`
	FullName        string   `json:"fullName" label:"Full name" validate:"required,min=2,max=100"`
	Email           string   `json:"email" label:"Email" validate:"required,email,max=50"`
	Password        string   `json:"password" label:"Password" validate:"required,min=6"`
	PasswordConfirm string   `json:"-" label:"Password confirmation" validate:"required,eqfield=Password"`
	EnrollmentDate  string   `json:"enrollmentDate" label:"Enrollment date" validate:"required,datetime=2006-01-02,pastdate"`
	Roles           RoleList `json:"role" label:"Roles" validate:"required,min=1,allroles"`
}

func (ns *NewStudent) Validate() error {
	ns.Username = core.CleanString(ns.Username, true /* lower */)
	ns.FullName = core.CleanString(ns.FullName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return core.TranslateError(core.Validate.Struct(ns))
}

// UpdateStudent defines what information may be provided to modify an existing record.
type UpdateStudent struct {
	Username        string   `json:"username" label:"Username" validate:"required,max=20"`
	FullName        string   `json:"fullName" label:"Full name" validate:"required,min=2,max=100"`
	Email           string   `json:"email" label:"Email" validate:"required,email,max=50"`
	EnrollmentDate  string   `json:"enrollmentDate" label:"Enrollment date" validate:"required,datetime=2006-01-02,pastdate"`
	Password        string   `json:"password,omitempty" label:"Password" validate:"omitempty,min=6"`
	PasswordConfirm string   `json:"-" label:"Password confirmation" validate:"required_with=Password,eqfield=Password"`
	Roles           RoleList `json:"roles,omitempty" label:"Roles" validate:"omitempty,allroles"`
}

func (us *UpdateStudent) Validate() error {
	us.Username = core.CleanString(us.Username, true /* lower */)
	us.FullName = core.CleanString(us.FullName)
	us.Email = core.CleanString(us.Email, true /* lower */)
	us.Password = core.CleanString(us.Password)
	return core.TranslateError(core.Validate.Struct(us))
}

// ProfileUpdate is the self-service variant; roles cannot be touched.
type ProfileUpdate struct {
	Username        string `json:"username" label:"Username" validate:"required,max=20"`
	FullName        string `json:"fullName" label:"Full name" validate:"required,min=2,max=100"`
	Email           string `json:"email" label:"Email" validate:"required,email,max=50"`
	EnrollmentDate  string `json:"enrollmentDate" label:"Enrollment date" validate:"required,datetime=2006-01-02,pastdate"`
	Password        string `json:"password,omitempty" label:"Password" validate:"omitempty,min=6"`
	PasswordConfirm string `json:"-" label:"Password confirmation" validate:"required_with=Password,eqfield=Password"`
}

func (pu *ProfileUpdate) Validate() error {
	pu.Username = core.CleanString(pu.Username, true /* lower */)
	pu.FullName = core.CleanString(pu.FullName)
	pu.Email = core.CleanString(pu.Email, true /* lower */)
	pu.Password = core.CleanString(pu.Password)
	return core.TranslateError(core.Validate.Struct(pu))
}

// Search returns the students matching `term` case-insensitively on full name,
// email, username or the decimal ID, preserving the original order.
// An empty term returns the collection unchanged.
func Search(students []Student, term string) []Student {
	term = strings.ToLower(core.CleanString(term))
	if term == "" {
		return students
	}

	matched := make([]Student, 0, len(students))
	for _, s := range students {
		if strings.Contains(strings.ToLower(s.FullName), term) ||
			strings.Contains(strings.ToLower(s.Email), term) ||
			strings.Contains(strings.ToLower(s.Username), term) ||
			strings.Contains(strconv.Itoa(s.ID), term) {
			matched = append(matched, s)
		}
	}
	return matched
}
