// Package auth provides the authentication endpoints: login, registration,
// logout, the current user, profile and password updates and token refresh.
package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/authstarter/go-auth-starter/internal/auth"
	"github.com/authstarter/go-auth-starter/internal/config"
	"github.com/authstarter/go-auth-starter/internal/ratelimit"
	"github.com/authstarter/go-auth-starter/internal/web/handler"
	"github.com/authstarter/go-auth-starter/internal/web/handler/request"
	"github.com/authstarter/go-auth-starter/internal/web/response"
)

const (
	// PathLogin is the login endpoint.
	PathLogin = "/login"
	// PathRegister is the registration endpoint.
	PathRegister = "/register"
	// PathLogout revokes the current token.
	PathLogout = "/logout"
	// PathUser returns the current user.
	PathUser = "/user"
	// PathProfile updates name and email.
	PathProfile = "/profile"
	// PathPassword changes the password.
	PathPassword = "/password"
	// PathRefresh swaps the current token for a new one.
	PathRefresh = "/refresh"

	// TokenType is sent next to every issued token.
	TokenType = "Bearer"
)

// Response messages.
const (
	MsgLoginSuccessful        = "Login successful"
	MsgRegistrationSuccessful = "Registration successful"
	MsgLogoutSuccessful       = "Logout successful"
	MsgProfileUpdated         = "Profile updated successfully"
	MsgPasswordChanged        = "Password changed successfully"
	MsgTokenRefreshed         = "Token refreshed successfully"
)

// Service is the auth handler service.
type Service struct {
	cfg  *config.Config
	auth *auth.Service
}

// Handler is the auth handler.
var Handler = Service{}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name                 string `json:"name"                  validate:"required,max=255"`
	Email                string `json:"email"                 validate:"required,email,max=255"`
	Password             string `json:"password"              validate:"required,min=8,max=255,strongpassword"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type profileRequest struct {
	Name  string `json:"name"  validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}

type passwordRequest struct {
	CurrentPassword      string `json:"current_password"      validate:"required"`
	Password             string `json:"password"              validate:"required,min=8,max=255,strongpassword"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// tokenData is the payload of login, registration and refresh.
type tokenData struct {
	User      *handler.Principal `json:"user,omitempty"`
	Token     string             `json:"token"`
	TokenType string             `json:"token_type"`
	ExpiresIn int                `json:"expires_in,omitempty"`
}

type userData struct {
	User handler.Principal `json:"user"`
}

// Init registers the auth routes on router.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() {
		log.Error().Msg(handler.ErrNilDepsFatalLogMsg)
		return handler.ErrNilDeps
	}

	s.cfg = deps.Config
	s.auth = deps.Auth

	features := &s.cfg.Features
	authenticated := auth.RequireAuthenticated()

	router.Post(PathLogin, append(ratelimit.Login(s.cfg.RateLimit, deps.LimiterStorage), s.Login)...)
	router.Post(PathRegister,
		handler.RequireFeature(func() bool { return features.Registration }, handler.MsgRegistrationDisabled),
		s.Register,
	)

	router.Post(PathLogout, authenticated, s.Logout)
	router.Get(PathUser, authenticated, s.User)
	router.Put(PathProfile,
		authenticated,
		handler.RequireFeature(func() bool { return features.ProfileManagement }, handler.MsgProfileManagementDisabled),
		s.UpdateProfile,
	)
	router.Put(PathPassword,
		authenticated,
		handler.RequireFeature(func() bool { return features.ProfileManagement }, handler.MsgProfileManagementDisabled),
		s.ChangePassword,
	)
	router.Post(PathRefresh,
		authenticated,
		handler.RequireFeature(func() bool { return s.cfg.Tokens.RefreshEnabled }, handler.MsgTokenRefreshDisabled),
		s.Refresh,
	)

	return nil
}

func (s *Service) principal(c *fiber.Ctx) handler.Principal {
	user, _ := auth.UserFromContext(c)

	return handler.NewPrincipal(s.auth.Registry(), user)
}

func (s *Service) tokenData(p *handler.Principal, token string) tokenData {
	return tokenData{
		User:      p,
		Token:     token,
		TokenType: TokenType,
		ExpiresIn: int(s.cfg.Tokens.ExpiresIn().Seconds()),
	}
}

// Login verifies the credentials and returns a new token.
func (s *Service) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := request.Parse(c, &in); err != nil {
		return err
	}

	user, token, err := s.auth.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return err
	}

	p := handler.NewPrincipal(s.auth.Registry(), user)

	return response.OK(c, fiber.StatusOK, MsgLoginSuccessful, s.tokenData(&p, token))
}

// Register creates a user with the User role and logs it in.
func (s *Service) Register(c *fiber.Ctx) error {
	var in registerRequest
	if err := request.Parse(c, &in); err != nil {
		return err
	}

	user, token, err := s.auth.Register(c.UserContext(), in.Name, in.Email, in.Password)
	if err != nil {
		return err
	}

	p := handler.NewPrincipal(s.auth.Registry(), user)

	return response.OK(c, fiber.StatusCreated, MsgRegistrationSuccessful, s.tokenData(&p, token))
}

// Logout revokes the token the request was made with.
func (s *Service) Logout(c *fiber.Ctx) error {
	token, ok := auth.TokenFromContext(c)
	if !ok {
		return response.NewError(response.KindAuthRequired, response.MsgUnauthenticated)
	}

	if err := s.auth.Logout(c.UserContext(), token); err != nil {
		return err
	}

	return response.OK(c, fiber.StatusOK, MsgLogoutSuccessful, nil)
}

// User returns the current user.
func (s *Service) User(c *fiber.Ctx) error {
	return response.OK(c, fiber.StatusOK, "", userData{User: s.principal(c)})
}

// UpdateProfile changes name and email of the current user.
func (s *Service) UpdateProfile(c *fiber.Ctx) error {
	var in profileRequest
	if err := request.Parse(c, &in); err != nil {
		return err
	}

	user, _ := auth.UserFromContext(c)
	if err := s.auth.Local.UpdateProfile(c.UserContext(), user, in.Name, in.Email); err != nil {
		return err
	}

	stored, err := s.auth.Local.GetUserByID(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return response.OK(c, fiber.StatusOK, MsgProfileUpdated, userData{User: handler.NewPrincipal(s.auth.Registry(), stored)})
}

// ChangePassword replaces the password of the current user.
func (s *Service) ChangePassword(c *fiber.Ctx) error {
	var in passwordRequest
	if err := request.Parse(c, &in); err != nil {
		return err
	}

	user, _ := auth.UserFromContext(c)
	if err := s.auth.Local.ChangePassword(c.UserContext(), user, in.CurrentPassword, in.Password); err != nil {
		return err
	}

	// sessions on other devices end with the old password
	var keep uint64
	if token, ok := auth.TokenFromContext(c); ok {
		keep = token.ID
	}

	if err := s.auth.Tokens.RevokeOthers(c.UserContext(), user.ID, keep); err != nil {
		return err
	}

	log.Info().Uint64("user_id", user.ID).Msg("password changed")

	return response.OK(c, fiber.StatusOK, MsgPasswordChanged, nil)
}

// Refresh revokes the current token and returns a new one.
func (s *Service) Refresh(c *fiber.Ctx) error {
	user, _ := auth.UserFromContext(c)

	token, ok := auth.TokenFromContext(c)
	if !ok {
		return response.NewError(response.KindAuthRequired, response.MsgUnauthenticated)
	}

	plain, err := s.auth.Tokens.Refresh(c.UserContext(), user, token)
	if err != nil {
		return err
	}

	return response.OK(c, fiber.StatusOK, MsgTokenRefreshed, s.tokenData(nil, plain))
}
