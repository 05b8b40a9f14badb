package ui

import (
	"github.com/shuleni/registra/core/session"
	"github.com/shuleni/registra/core/student"
)

type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenProfile
	ScreenDashboard
)

func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenRegister:
		return "register"
	case ScreenProfile:
		return "profile"
	case ScreenDashboard:
		return "dashboard"
	}
	return "unknown"
}

type Tab int

const (
	TabList Tab = iota
	TabAdd
	TabManage
)

func (t Tab) String() string {
	switch t {
	case TabList:
		return "list"
	case TabAdd:
		return "add"
	case TabManage:
		return "manage"
	}
	return "unknown"
}

// Router decides which screen to render. The authenticated screen is a pure
// function of the stored role set, re-evaluated on every Resolve; the only
// state kept beyond that is the unauthenticated login/register toggle and the
// dashboard tab selector.
type Router struct {
	session *session.Service

	register bool // login/register toggle while unauthenticated
	tab      Tab
}

func NewRouter(sess *session.Service) *Router {
	return &Router{session: sess}
}

// Resolve derives the current screen from the session store. A principal
// whose role set is exactly {USER} gets the self-profile screen; moderators
// and admins get the dashboard. A cleared store (logout or 401) lands back on
// login regardless of which call cleared it.
func (r *Router) Resolve() Screen {
	p, err := r.session.Get()
	if err != nil {
		if r.register {
			return ScreenRegister
		}
		return ScreenLogin
	}
	r.register = false
	if p.IsRegularOnly() {
		return ScreenProfile
	}
	return ScreenDashboard
}

// ShowRegister switches the unauthenticated view to the sign-up form.
func (r *Router) ShowRegister() { r.register = true }

// ShowLogin switches back to the sign-in form (also after a successful
// registration, which never auto-logs-in).
func (r *Router) ShowLogin() { r.register = false }

// Tab returns the active dashboard tab.
func (r *Router) Tab() Tab { return r.tab }

// SetTab selects a dashboard tab. The manage tab is gated to admins; for
// anyone else the selection is refused and the tab is left unchanged.
func (r *Router) SetTab(t Tab) bool {
	if t == TabManage && !r.session.HasRole(student.RoleAdmin) {
		return false
	}
	r.tab = t
	return true
}

// StudentCreated routes the operator toward the management view after a
// successful create: admins land on the manage tab, moderators (who cannot
// see it) on the list.
func (r *Router) StudentCreated() {
	if !r.SetTab(TabManage) {
		r.tab = TabList
	}
}

// Logout clears the session; the next Resolve lands on login.
func (r *Router) Logout() error {
	r.tab = TabList
	return r.session.Clear()
}
