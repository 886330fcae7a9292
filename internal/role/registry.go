package role

import (
	"fmt"
	"strings"
)

// DefaultMapping is used when no mapping is configured.
func DefaultMapping() map[string]int {
	return map[string]int{
		NameAdmin: 1,
		NameUser:  2,
	}
}

// Registry maps roles to the integer values they are stored with.
// It must not be modified after construction.
type Registry struct {
	values map[Role]int
	roles  map[int]Role
}

// Default returns a registry built from DefaultMapping.
func Default() *Registry {
	reg, err := NewRegistry(DefaultMapping())
	if err != nil {
		// the default mapping is static, this can't happen
		panic(err)
	}

	return reg
}

// NewRegistry builds a registry from a canonical name to value mapping.
// The mapping must define every role exactly once with a distinct positive value.
func NewRegistry(mapping map[string]int) (*Registry, error) {
	if len(mapping) == 0 {
		return nil, fmt.Errorf("%w: mapping is empty", ErrInvalidMapping)
	}

	reg := &Registry{
		values: make(map[Role]int, len(All)),
		roles:  make(map[int]Role, len(All)),
	}

	for name, value := range mapping {
		r, ok := Parse(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown role name %q", ErrInvalidMapping, name)
		}

		if value <= 0 {
			return nil, fmt.Errorf("%w: role %q must have a positive value, got %d", ErrInvalidMapping, name, value)
		}

		if _, dup := reg.values[r]; dup {
			return nil, fmt.Errorf("%w: role %q defined twice", ErrInvalidMapping, r.Name())
		}

		if other, dup := reg.roles[value]; dup {
			return nil, fmt.Errorf("%w: value %d used by %q and %q", ErrInvalidMapping, value, other.Name(), r.Name())
		}

		reg.values[r] = value
		reg.roles[value] = r
	}

	for _, r := range All {
		if _, ok := reg.values[r]; !ok {
			return nil, fmt.Errorf("%w: role %q is not defined", ErrInvalidMapping, r.Name())
		}
	}

	return reg, nil
}

// Lookup resolves a role name to its stored value. Names are matched
// case-insensitively. Unknown names return false.
func (r *Registry) Lookup(name string) (int, bool) {
	ro, ok := Parse(name)
	if !ok {
		return 0, false
	}

	return r.values[ro], true
}

// Value returns the stored value of a role, or 0 for an invalid role.
func (r *Registry) Value(ro Role) int {
	return r.values[ro]
}

// Role resolves a stored value back to its role.
func (r *Registry) Role(value int) (Role, bool) {
	ro, ok := r.roles[value]

	return ro, ok
}

// Contains reports whether value is one of the registry's stored values.
func (r *Registry) Contains(value int) bool {
	_, ok := r.roles[value]

	return ok
}

// Name returns the canonical name of a stored value.
func (r *Registry) Name(value int) (string, bool) {
	ro, ok := r.roles[value]
	if !ok {
		return "", false
	}

	return ro.Name(), true
}

// Label returns the display label of a stored value, or UnknownLabel when the
// value doesn't belong to the registry.
func (r *Registry) Label(value int) string {
	ro, ok := r.roles[value]
	if !ok {
		return UnknownLabel
	}

	return ro.Label()
}

// Display returns what a client sees in place of a stored value: the
// canonical name, or the raw value when it can't be resolved.
func (r *Registry) Display(value int) any {
	if name, ok := r.Name(value); ok {
		return name
	}

	return value
}

// Mapping returns a copy of the name to value mapping.
func (r *Registry) Mapping() map[string]int {
	out := make(map[string]int, len(r.values))
	for ro, v := range r.values {
		out[ro.Name()] = v
	}

	return out
}

// String renders the mapping, e.g. "admin=1,user=2".
func (r *Registry) String() string {
	parts := make([]string, 0, len(All))
	for _, ro := range All {
		parts = append(parts, fmt.Sprintf("%s=%d", ro.Name(), r.values[ro]))
	}

	return strings.Join(parts, ",")
}
