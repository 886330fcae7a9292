package navigation

import (
	"strings"
)

// DefaultRoutes returns the SPA route table.
func DefaultRoutes() []Route {
	admin := []string{"admin"}

	return []Route{
		{Name: RouteLogin, Path: "/login", Title: "Sign in", Guard: GuardGuest, Layout: LayoutAuth},
		{Name: RouteRegister, Path: "/register", Title: "Register", Guard: GuardGuest, Layout: LayoutAuth},
		{Name: RouteForgotPassword, Path: "/forgot-password", Title: "Forgot password", Guard: GuardGuest, Layout: LayoutAuth},
		{Name: RouteUnauthorized, Path: "/unauthorized", Title: "Unauthorized", Layout: LayoutAdmin},
		{Name: RouteAdminDashboard, Path: "/admin/dashboard", Title: "Dashboard", Section: "admin", Guard: GuardAuth, Layout: LayoutAdmin},
		{Name: RouteAdminUsers, Path: "/admin/users", Title: "Users", Section: "admin", Guard: GuardRole, Roles: admin, Layout: LayoutAdmin},
		{Name: RouteAdminSettings, Path: "/admin/settings", Title: "Settings", Section: "admin", Guard: GuardRole, Roles: admin, Layout: LayoutAdmin},
		{Name: RouteAdminProfile, Path: "/admin/profile", Title: "Profile", Section: "admin", Guard: GuardAuth, Layout: LayoutAdmin},
		{Name: RouteUserDashboard, Path: "/dashboard", Title: "Dashboard", Section: "user", Guard: GuardAuth, Layout: LayoutAdmin},
	}
}

// Table indexes routes by name and path.
type Table struct {
	routes   []Route
	byName   map[string]int
	byPath   map[string]int
	fallback string
}

// NewTable builds a table. Unknown paths resolve to the fallback route,
// which must be part of routes.
func NewTable(routes []Route, fallback string) *Table {
	t := &Table{
		routes:   routes,
		byName:   make(map[string]int, len(routes)),
		byPath:   make(map[string]int, len(routes)),
		fallback: fallback,
	}

	for i, r := range routes {
		t.byName[r.Name] = i
		t.byPath[cleanPath(r.Path)] = i
	}

	if _, ok := t.byName[fallback]; !ok {
		panic("navigation: fallback route " + fallback + " is not in the table")
	}

	return t
}

// Default is the table built from DefaultRoutes. Unknown paths land on the
// admin dashboard, whose guard then sends the user where they belong.
func Default() *Table {
	return NewTable(DefaultRoutes(), RouteAdminDashboard)
}

// Routes returns a copy of the table.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)

	return out
}

// Route looks a route up by name.
func (t *Table) Route(name string) (Route, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Route{}, false
	}

	return t.routes[i], true
}

// Match returns the route for path, or the fallback route when nothing
// matches. The second value reports whether path matched exactly.
func (t *Table) Match(path string) (Route, bool) {
	if i, ok := t.byPath[cleanPath(path)]; ok {
		return t.routes[i], true
	}

	return t.routes[t.byName[t.fallback]], false
}

// Navigate resolves path and runs its guard. A path that doesn't match any
// route is redirected to the fallback route.
func (t *Table) Navigate(path string, s State) (Route, Decision) {
	r, exact := t.Match(path)
	if !exact {
		return r, redirect(r.Name)
	}

	return r, r.Check(s)
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}

	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	return p
}
