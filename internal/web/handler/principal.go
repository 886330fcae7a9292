package handler

import (
	"time"

	"github.com/authstarter/go-auth-starter/internal/db/models"
	"github.com/authstarter/go-auth-starter/internal/role"
)

// Principal is the client view of a user. The stored role value is never
// exposed, Role carries the role name or, for values the registry doesn't
// know, the raw value.
type Principal struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      any       `json:"role"`
	RoleLabel string    `json:"role_label"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPrincipal renders user through reg.
func NewPrincipal(reg *role.Registry, user *models.User) Principal {
	return Principal{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      reg.Display(user.Role),
		RoleLabel: reg.Label(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

// NewPrincipals renders a list of users.
func NewPrincipals(reg *role.Registry, list []models.User) []Principal {
	out := make([]Principal, 0, len(list))
	for i := range list {
		out = append(out, NewPrincipal(reg, &list[i]))
	}

	return out
}
