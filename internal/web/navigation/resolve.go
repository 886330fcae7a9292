package navigation

// Resolution tells the browser what to do with the page it is on.
// RedirectPath is set together with Redirect.
type Resolution struct {
	Route         string   `json:"route"`
	Layout        Layout   `json:"layout"`
	Authenticated bool     `json:"authenticated"`
	Allow         bool     `json:"allow"`
	Redirect      string   `json:"redirect,omitempty"`
	RedirectPath  string   `json:"redirect_path,omitempty"`
	Allowed       []string `json:"allowed"`
}

// Resolve runs the guard of path against s and lists every route s may enter.
func (t *Table) Resolve(path string, s State) Resolution {
	r, d := t.Navigate(path, s)

	out := Resolution{
		Route:         r.Name,
		Layout:        r.Layout,
		Authenticated: s.Authenticated,
		Allow:         d.Allow,
		Redirect:      d.Redirect,
		Allowed:       t.Allowed(s),
	}

	if target, ok := t.Route(d.Redirect); ok {
		out.RedirectPath = target.Path
	}

	return out
}

// Allowed returns the names of the routes whose guard lets s through,
// in table order.
func (t *Table) Allowed(s State) []string {
	out := make([]string, 0, len(t.routes))

	for _, r := range t.routes {
		if r.Check(s).Allow {
			out = append(out, r.Name)
		}
	}

	return out
}
