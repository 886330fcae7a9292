package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type principal int

func (p principal) RoleValue() int { return int(p) }

func TestResolver_HasRole(t *testing.T) {
	r := NewResolver(Default())

	assert.True(t, r.HasRole(principal(1), Admin))
	assert.False(t, r.HasRole(principal(1), User))
	assert.True(t, r.HasRole(principal(2), User))
	assert.False(t, r.HasRole(principal(999), Admin))
	assert.False(t, r.HasRole(principal(1), Role(0)))
	assert.False(t, r.HasRole(nil, Admin))

	assert.True(t, r.IsAdmin(principal(1)))
	assert.False(t, r.IsAdmin(principal(2)))
}

func TestResolver_HasAnyRole(t *testing.T) {
	r := NewResolver(Default())

	testCases := []struct {
		name  string
		value int
		refs  []Ref
		want  bool
	}{
		{name: "empty list never matches admin", value: 1, refs: nil, want: false},
		{name: "empty list never matches user", value: 2, refs: []Ref{}, want: false},
		{name: "single name", value: 1, refs: Names("admin"), want: true},
		{name: "name is case insensitive", value: 1, refs: Names("ADMIN"), want: true},
		{name: "identifier", value: 2, refs: []Ref{User}, want: true},
		{name: "mixed names and identifiers", value: 2, refs: []Ref{Admin, Name("User")}, want: true},
		{name: "unrelated role first", value: 2, refs: []Ref{Name("admin"), Name("user")}, want: true},
		{name: "unrelated role last", value: 2, refs: []Ref{Name("user"), Name("admin")}, want: true},
		{name: "no match", value: 2, refs: Names("admin"), want: false},
		{name: "unknown names dropped", value: 1, refs: Names("root", "superuser"), want: false},
		{name: "unknown name next to match", value: 1, refs: Names("root", "admin"), want: true},
		{name: "invalid identifier", value: 1, refs: []Ref{Role(42)}, want: false},
		{name: "nil ref", value: 1, refs: []Ref{nil}, want: false},
		{name: "unknown stored value", value: 999, refs: Names("admin", "user"), want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.HasAnyRole(principal(tc.value), tc.refs...))
		})
	}
}

func TestResolver_Normalize(t *testing.T) {
	r := NewResolver(Default())

	got := r.Normalize(Name("Admin"), Name("nope"), User, Role(9))
	assert.Equal(t, []Role{Admin, User}, got)

	assert.Empty(t, r.Normalize())
}

func TestResolver_RemappedRegistry(t *testing.T) {
	reg, err := NewRegistry(map[string]int{"admin": 7, "user": 8})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	r := NewResolver(reg)

	assert.True(t, r.HasAnyRole(principal(7), Name("admin")))
	assert.False(t, r.HasAnyRole(principal(1), Name("admin")))
}

func TestParseAndLabels(t *testing.T) {
	ro, ok := Parse(" User ")
	assert.True(t, ok)
	assert.Equal(t, User, ro)

	_, ok = Parse("guest")
	assert.False(t, ok)

	assert.Equal(t, "admin", Admin.String())
	assert.Equal(t, UnknownLabel, Role(0).String())
	assert.Equal(t, UnknownLabel, Role(0).Label())
}
