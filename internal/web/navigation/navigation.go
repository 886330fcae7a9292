// Package navigation mirrors the SPA router: the route table, the guards the
// browser runs before entering a route and the breadcrumbs shown on each page.
//
// Nothing here is an access decision. The SPA only uses it to pick where to
// navigate; every API call is checked again by auth.RequireRole.
package navigation

import (
	"strings"
)

// Route names the SPA redirects to.
const (
	RouteLogin          = "auth.login"
	RouteRegister       = "auth.register"
	RouteForgotPassword = "auth.forgot-password"
	RouteUnauthorized   = "unauthorized"
	RouteAdminDashboard = "admin.dashboard"
	RouteAdminUsers     = "admin.users"
	RouteAdminSettings  = "admin.settings"
	RouteAdminProfile   = "admin.profile"
	RouteUserDashboard  = "user.dashboard"
)

// Guard selects the check a route runs before it is entered.
type Guard string

const (
	GuardNone  Guard = ""
	GuardAuth  Guard = "auth"
	GuardGuest Guard = "guest"
	GuardRole  Guard = "role"
)

// Layout is the SPA shell a route renders in.
type Layout string

const (
	LayoutAuth  Layout = "auth"
	LayoutAdmin Layout = "admin"
)

// Route is a single SPA route.
type Route struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Title   string   `json:"title"`
	Section string   `json:"section,omitempty"`
	Guard   Guard    `json:"guard,omitempty"`
	Roles   []string `json:"roles,omitempty"`
	Layout  Layout   `json:"layout"`
}

// State is what the browser has cached about the session.
// Role is the role name as returned by GET /auth/user.
type State struct {
	Authenticated bool
	Role          string
}

// Decision is the outcome of a guard. Redirect is a route name and is empty
// when Allow is set.
type Decision struct {
	Allow    bool   `json:"allow"`
	Redirect string `json:"redirect,omitempty"`
}

func allow() Decision { return Decision{Allow: true} }

func redirect(name string) Decision { return Decision{Redirect: name} }

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth(s State) Decision {
	if !s.Authenticated {
		return redirect(RouteLogin)
	}

	return allow()
}

// RequireGuest keeps signed in users away from the login and register pages,
// sending admins to the admin dashboard and everybody else to their own.
func RequireGuest(s State) Decision {
	if !s.Authenticated {
		return allow()
	}

	return redirect(HomeFor(s))
}

// RequireRole only lets through users whose cached role is one of roles.
// An empty roles list lets nobody through.
func RequireRole(s State, roles ...string) Decision {
	if !s.Authenticated {
		return redirect(RouteLogin)
	}

	for _, r := range roles {
		if strings.EqualFold(strings.TrimSpace(r), strings.TrimSpace(s.Role)) && s.Role != "" {
			return allow()
		}
	}

	return redirect(RouteUnauthorized)
}

// HomeFor returns the landing route of a signed in user.
func HomeFor(s State) string {
	if strings.EqualFold(strings.TrimSpace(s.Role), "admin") {
		return RouteAdminDashboard
	}

	return RouteUserDashboard
}

// Check runs the route's guard against s.
func (r Route) Check(s State) Decision {
	switch r.Guard {
	case GuardAuth:
		return RequireAuth(s)
	case GuardGuest:
		return RequireGuest(s)
	case GuardRole:
		return RequireRole(s, r.Roles...)
	default:
		return allow()
	}
}
