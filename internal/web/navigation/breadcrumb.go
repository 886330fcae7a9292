package navigation

// BreadcrumbItem is a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Context is what the shell template needs to render the chrome around a route.
type Context struct {
	Route         string           `json:"route"`
	Layout        Layout           `json:"layout"`
	ActiveSection string           `json:"active_section,omitempty"`
	PageTitle     string           `json:"page_title"`
	Breadcrumbs   []BreadcrumbItem `json:"breadcrumbs"`
}

// NewContext builds the context of r. Routes in a section get a breadcrumb
// pointing at the section's dashboard.
func (t *Table) NewContext(r Route) *Context {
	c := &Context{
		Route:         r.Name,
		Layout:        r.Layout,
		ActiveSection: r.Section,
		PageTitle:     r.Title,
		Breadcrumbs:   make([]BreadcrumbItem, 0, 2),
	}

	if home, ok := t.sectionHome(r.Section); ok && home.Name != r.Name {
		c.AddBreadcrumb(home.Title, home.Path, false)
	}

	return c.AddBreadcrumb(r.Title, r.Path, true)
}

func (t *Table) sectionHome(section string) (Route, bool) {
	switch section {
	case "admin":
		return t.Route(RouteAdminDashboard)
	case "user":
		return t.Route(RouteUserDashboard)
	default:
		return Route{}, false
	}
}

// AddBreadcrumb appends a breadcrumb item.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive reports whether name is the current route.
func (c *Context) IsActive(name string) bool {
	return c.Route == name
}

// IsSectionActive reports whether section is the current section.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
