package role

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Claim is a role as submitted by a client: either the stored integer value
// or a role name. It is only meaningful after Value resolves it against a
// registry.
type Claim struct {
	number *int
	name   *string
}

// ClaimValue builds a claim holding a stored value.
func ClaimValue(v int) Claim {
	return Claim{number: &v}
}

// ClaimName builds a claim holding a role name.
func ClaimName(n string) Claim {
	return Claim{name: &n}
}

// UnmarshalJSON accepts a JSON number or string.
func (c *Claim) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = Claim{}
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		*c = ClaimName(s)

		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("role must be a number or a name: %w", err)
	}

	*c = ClaimValue(n)

	return nil
}

// Value resolves the claim to a stored value. Names that don't resolve and
// numbers that aren't registry values return ErrInvalidRole.
func (c Claim) Value(reg *Registry) (int, error) {
	switch {
	case c.number != nil:
		if !reg.Contains(*c.number) {
			return 0, fmt.Errorf("%w: %d", ErrInvalidRole, *c.number)
		}

		return *c.number, nil
	case c.name != nil:
		v, ok := reg.Lookup(*c.name)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRole, *c.name)
		}

		return v, nil
	default:
		return 0, fmt.Errorf("%w: empty", ErrInvalidRole)
	}
}
