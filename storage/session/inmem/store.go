package inmemstore

import (
	"sync"

	"github.com/shuleni/registra/core/session"
	"github.com/shuleni/registra/core/student"
)

// store keeps the principal in memory only; it does not survive a restart.
type store struct {
	mutex     sync.RWMutex
	principal *student.Principal
}

var _ session.Store = (*store)(nil)

func New() session.Store {
	return &store{}
}

func (s *store) SavePrincipal(p student.Principal) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.principal = &p
	return nil
}

func (s *store) GetPrincipal() (student.Principal, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.principal == nil {
		return student.Principal{}, session.ErrNoSession
	}
	return *s.principal, nil
}

func (s *store) ClearPrincipal() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.principal = nil
	return nil
}
