// Package user provides the admin user management endpoints.
package user

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/authstarter/go-auth-starter/internal/auth"
	"github.com/authstarter/go-auth-starter/internal/config"
	"github.com/authstarter/go-auth-starter/internal/db/models"
	"github.com/authstarter/go-auth-starter/internal/role"
	"github.com/authstarter/go-auth-starter/internal/users"
	"github.com/authstarter/go-auth-starter/internal/web/handler"
	"github.com/authstarter/go-auth-starter/internal/web/handler/request"
	"github.com/authstarter/go-auth-starter/internal/web/response"
)

const (
	// Path is the base path of user management inside the admin group.
	Path = "/users"

	// PathSearch searches users by name.
	PathSearch = "/search"
	// PathChangeRole is appended to a user path.
	PathChangeRole = "/change-role"

	pathID = "/:id<int>"
)

// Response messages.
const (
	MsgUserCreated  = "User created successfully"
	MsgUserUpdated  = "User updated successfully"
	MsgRoleUpdated  = "Role updated successfully"
	MsgUsersDeleted = "Users deleted"
)

// Service provides the user management endpoints.
type Service struct {
	cfg      *config.Config
	users    *users.Service
	registry *role.Registry
}

// Handler is the exported instance.
var Handler = Service{}

type createRequest struct {
	Name     string     `json:"name"     validate:"required,max=255"`
	Email    string     `json:"email"    validate:"required,email,max=255"`
	Password string     `json:"password" validate:"required,min=8,max=255"`
	Role     role.Claim `json:"role"`
}

type updateRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"omitempty,min=8,max=255"`
}

type changeRoleRequest struct {
	Role role.Claim `json:"role"`
}

type bulkDeleteRequest struct {
	IDs []uint64 `json:"ids" validate:"required"`
}

// pageData mirrors the usual paginator shape.
type pageData struct {
	Data        []handler.Principal `json:"data"`
	CurrentPage int                 `json:"current_page"`
	PerPage     int                 `json:"per_page"`
	Total       int64               `json:"total"`
	LastPage    int                 `json:"last_page"`
}

// Init registers routes. Every route requires the admin role.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() {
		log.Error().Msg(handler.ErrNilDepsFatalLogMsg)
		return handler.ErrNilDeps
	}

	s.cfg = deps.Config
	s.users = deps.Users
	s.registry = deps.Auth.Registry()

	features := &s.cfg.Features

	group := router.Group(Path,
		auth.RequireRole(deps.Auth.Resolver, role.NameAdmin),
	)

	group.Get(handler.RootPath, s.List)
	group.Get(PathSearch, s.Search)
	group.Post(handler.RootPath, s.Create)
	group.Delete(handler.RootPath, s.DeleteMany)
	group.Get(pathID, s.Get)
	group.Put(pathID, s.Update)
	group.Delete(pathID, s.Delete)
	group.Patch(pathID+PathChangeRole,
		handler.RequireFeature(func() bool { return features.RoleManagement }, handler.MsgRoleManagementDisabled),
		s.ChangeRole,
	)

	return nil
}

func (s *Service) page(p *users.Page) pageData {
	return pageData{
		Data:        handler.NewPrincipals(s.registry, p.Items),
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		Total:       p.Total,
		LastPage:    p.LastPage,
	}
}

func (s *Service) principal(u *models.User) handler.Principal {
	return handler.NewPrincipal(s.registry, u)
}

func userID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, models.ErrUserNotFound
	}

	return id, nil
}

// List returns a page of users, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	p, err := s.users.List(c.UserContext(), c.QueryInt("page", 1))
	if err != nil {
		return err
	}

	return response.OK(c, fiber.StatusOK, "", s.page(p))
}

// Search returns a page of users whose name contains the query parameter.
func (s *Service) Search(c *fiber.Ctx) error {
	p, err := s.users.Search(c.UserContext(), c.Query("query"), c.QueryInt("page", 1))
	if err != nil {
		return err
	}

	return response.OK(c, fiber.StatusOK, "", s.page(p))
}

// Get returns one user.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	u, err := s.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return response.OK(c, fiber.StatusOK, "", s.principal(u))
}

// Create adds a user with the submitted role.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createRequest
	if err := request.Parse(c, &in); err != nil {
		return err
	}

	value, err := in.Role.Value(s.registry)
	if err != nil {
		return err
	}

	u, err := s.users.Create(c.UserContext(), users.CreateInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     value,
	})
	if err != nil {
		return err
	}

	return response.OK(c, fiber.StatusCreated, MsgUserCreated, s.principal(u))
}

// Update changes name, email and, when given, the password.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var in updateRequest
	if err := request.Parse(c, &in); err != nil {
		return err
	}

	upd := users.UpdateInput{Name: in.Name, Email: in.Email}
	if in.Password != "" {
		upd.Password = &in.Password
	}

	u, err := s.users.Update(c.UserContext(), id, upd)
	if err != nil {
		return err
	}

	return response.OK(c, fiber.StatusOK, MsgUserUpdated, s.principal(u))
}

// ChangeRole sets the role of a user. The role may be sent as value or name.
func (s *Service) ChangeRole(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var in changeRoleRequest
	if err := request.Parse(c, &in); err != nil {
		return err
	}

	value, err := in.Role.Value(s.registry)
	if err != nil {
		return err
	}

	u, err := s.users.ChangeRole(c.UserContext(), id, value)
	if err != nil {
		return err
	}

	return response.OK(c, fiber.StatusOK, MsgRoleUpdated, s.principal(u))
}

// Delete removes one user.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	actor, _ := auth.UserFromContext(c)
	if err := s.users.Delete(c.UserContext(), actor.ID, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteMany removes all listed users or, if one doesn't exist, none.
func (s *Service) DeleteMany(c *fiber.Ctx) error {
	var in bulkDeleteRequest
	if err := request.Parse(c, &in); err != nil {
		return err
	}

	actor, _ := auth.UserFromContext(c)

	n, err := s.users.DeleteMany(c.UserContext(), actor.ID, in.IDs)
	if err != nil {
		return err
	}

	return response.OK(c, fiber.StatusOK, MsgUsersDeleted, fiber.Map{"deleted": n})
}
