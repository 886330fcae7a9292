package role

// Principal is anything carrying a stored role value.
type Principal interface {
	RoleValue() int
}

// Ref references a role either by identifier (Admin, User) or by name.
type Ref interface {
	resolve(reg *Registry) (Role, bool)
}

// Name is an untrusted role name, e.g. a route argument.
// It is resolved case-insensitively through the registry.
type Name string

func (n Name) resolve(_ *Registry) (Role, bool) {
	return Parse(string(n))
}

func (r Role) resolve(_ *Registry) (Role, bool) {
	return r, r.Valid()
}

// Names converts plain strings to role references.
func Names(names ...string) []Ref {
	out := make([]Ref, 0, len(names))
	for _, n := range names {
		out = append(out, Name(n))
	}

	return out
}

// Resolver answers role membership questions for principals.
type Resolver struct {
	registry *Registry
}

// NewResolver creates a resolver on top of reg.
func NewResolver(reg *Registry) *Resolver {
	if reg == nil {
		panic("role registry is nil")
	}

	return &Resolver{registry: reg}
}

// Registry returns the registry the resolver reads from.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve turns a single reference into a role.
func (r *Resolver) Resolve(ref Ref) (Role, bool) {
	if ref == nil {
		return 0, false
	}

	return ref.resolve(r.registry)
}

// Normalize resolves every reference, silently dropping the ones that don't
// name a known role.
func (r *Resolver) Normalize(refs ...Ref) []Role {
	out := make([]Role, 0, len(refs))

	for _, ref := range refs {
		if ro, ok := r.Resolve(ref); ok {
			out = append(out, ro)
		}
	}

	return out
}

// HasRole reports whether p's stored value is exactly the value of ro.
func (r *Resolver) HasRole(p Principal, ro Role) bool {
	if p == nil || !ro.Valid() {
		return false
	}

	return p.RoleValue() == r.registry.Value(ro)
}

// HasAnyRole reports whether p holds at least one of refs.
// Unknown references never match and an empty list is always false.
func (r *Resolver) HasAnyRole(p Principal, refs ...Ref) bool {
	for _, ro := range r.Normalize(refs...) {
		if r.HasRole(p, ro) {
			return true
		}
	}

	return false
}

// IsAdmin is shorthand for HasRole(p, Admin).
func (r *Resolver) IsAdmin(p Principal) bool {
	return r.HasRole(p, Admin)
}
