package role

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := Default()

	v, ok := reg.Lookup("admin")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = reg.Lookup("user")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	assert.Equal(t, map[string]int{"admin": 1, "user": 2}, reg.Mapping())
	assert.Equal(t, "admin=1,user=2", reg.String())
}

func TestRegistry_LookupIsCaseInsensitive(t *testing.T) {
	reg := Default()

	for _, r := range All {
		want, ok := reg.Lookup(r.Name())
		require.True(t, ok)

		for _, variant := range []string{strings.ToUpper(r.Name()), " " + r.Name() + " ", strings.ToUpper(r.Name()[:1]) + r.Name()[1:]} {
			got, found := reg.Lookup(variant)
			assert.True(t, found, variant)
			assert.Equal(t, want, got, variant)
		}
	}
}

func TestRegistry_UnknownValues(t *testing.T) {
	reg := Default()

	_, ok := reg.Lookup("superuser")
	assert.False(t, ok)

	_, ok = reg.Lookup("")
	assert.False(t, ok)

	_, ok = reg.Name(999)
	assert.False(t, ok)

	assert.Equal(t, UnknownLabel, reg.Label(999))
	assert.Equal(t, "Administrator", reg.Label(1))
	assert.Equal(t, "User", reg.Label(2))

	assert.Equal(t, "admin", reg.Display(1))
	assert.Equal(t, 999, reg.Display(999))
}

func TestNewRegistry(t *testing.T) {
	testCases := []struct {
		name    string
		mapping map[string]int
		wantErr bool
	}{
		{name: "default", mapping: DefaultMapping()},
		{name: "remapped values", mapping: map[string]int{"admin": 10, "user": 20}},
		{name: "uppercase names", mapping: map[string]int{"ADMIN": 1, "User": 2}},
		{name: "empty", mapping: map[string]int{}, wantErr: true},
		{name: "missing user", mapping: map[string]int{"admin": 1}, wantErr: true},
		{name: "unknown name", mapping: map[string]int{"admin": 1, "user": 2, "editor": 3}, wantErr: true},
		{name: "duplicate value", mapping: map[string]int{"admin": 1, "user": 1}, wantErr: true},
		{name: "zero value", mapping: map[string]int{"admin": 0, "user": 2}, wantErr: true},
		{name: "name defined twice", mapping: map[string]int{"admin": 1, "Admin": 3, "user": 2}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reg, err := NewRegistry(tc.mapping)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidMapping)
				assert.Nil(t, reg)

				return
			}

			require.NoError(t, err)
			assert.Len(t, reg.Mapping(), len(All))
		})
	}
}

func TestRegistry_RemappedValues(t *testing.T) {
	reg, err := NewRegistry(map[string]int{"admin": 10, "user": 20})
	require.NoError(t, err)

	assert.Equal(t, 10, reg.Value(Admin))
	assert.True(t, reg.Contains(20))
	assert.False(t, reg.Contains(1))

	ro, ok := reg.Role(20)
	require.True(t, ok)
	assert.Equal(t, User, ro)
	assert.Equal(t, map[string]int{"admin": 10, "user": 20}, reg.Mapping())
}

func TestClaim(t *testing.T) {
	reg := Default()

	testCases := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{name: "number", body: `{"role":1}`, want: 1},
		{name: "name", body: `{"role":"User"}`, want: 2},
		{name: "unknown number", body: `{"role":999}`, wantErr: true},
		{name: "unknown name", body: `{"role":"root"}`, wantErr: true},
		{name: "missing", body: `{}`, wantErr: true},
		{name: "null", body: `{"role":null}`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var in struct {
				Role Claim `json:"role"`
			}

			require.NoError(t, json.Unmarshal([]byte(tc.body), &in))

			got, err := in.Role.Value(reg)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRole)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	var bad struct {
		Role Claim `json:"role"`
	}

	assert.Error(t, json.Unmarshal([]byte(`{"role":true}`), &bad))
}
