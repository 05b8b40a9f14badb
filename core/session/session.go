package session

import (
	"errors"

	"github.com/shuleni/registra/core/student"
)

// ErrNoSession is returned when no principal is stored.
var ErrNoSession = errors.New("no active session")

type (
	// Store persists the authenticated principal as one whole record under a
	// single well-known key. There are no partial updates: any field change
	// rewrites the record.
	Store interface {
		SavePrincipal(p student.Principal) error
		GetPrincipal() (student.Principal, error)
		ClearPrincipal() error
	}

	Service struct {
		store Store
	}
)

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (svc *Service) Save(p student.Principal) error {
	return svc.store.SavePrincipal(p)
}

func (svc *Service) Get() (student.Principal, error) {
	return svc.store.GetPrincipal()
}

func (svc *Service) Clear() error {
	return svc.store.ClearPrincipal()
}

// Token returns the current bearer token, or "" when logged out.
// It reads the store at call time rather than caching.
func (svc *Service) Token() string {
	p, err := svc.store.GetPrincipal()
	if err != nil {
		return ""
	}
	return p.AccessToken
}

// HasRole checks role membership against the currently stored principal only;
// it reports false when no principal is stored.
func (svc *Service) HasRole(role student.Role) bool {
	p, err := svc.store.GetPrincipal()
	if err != nil {
		return false
	}
	return p.HasRole(role)
}

// ApplyProfile merges submitted profile fields into the stored principal and
// rewrites the whole record. The password never lands in the store.
func (svc *Service) ApplyProfile(pu student.ProfileUpdate) error {
	p, err := svc.store.GetPrincipal()
	if err != nil {
		return err
	}
	p.Username = pu.Username
	p.FullName = pu.FullName
	p.Email = pu.Email
	p.EnrollmentDate = pu.EnrollmentDate
	return svc.store.SavePrincipal(p)
}
