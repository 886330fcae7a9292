package navigation

import (
	"encoding/json"
)

// Manifest is the document the SPA loads to build its router.
type Manifest struct {
	Routes    []Route        `json:"routes"`
	Roles     map[string]int `json:"roles"`
	Redirects Redirects      `json:"redirects"`
	Fallback  string         `json:"fallback"`
}

// Redirects names the routes the guards redirect to.
type Redirects struct {
	Unauthenticated string `json:"unauthenticated"`
	Unauthorized    string `json:"unauthorized"`
	AdminHome       string `json:"admin_home"`
	UserHome        string `json:"user_home"`
}

// Manifest builds the manifest. roles is the configured name to value
// mapping; the SPA only uses it to label values it can't resolve.
func (t *Table) Manifest(roles map[string]int) Manifest {
	return Manifest{
		Routes: t.Routes(),
		Roles:  roles,
		Redirects: Redirects{
			Unauthenticated: RouteLogin,
			Unauthorized:    RouteUnauthorized,
			AdminHome:       RouteAdminDashboard,
			UserHome:        RouteUserDashboard,
		},
		Fallback: t.fallback,
	}
}

// JSON encodes m for embedding in the shell page.
func (m Manifest) JSON() (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}

	return string(b), nil
}
