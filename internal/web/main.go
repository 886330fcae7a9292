package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authstarter/go-auth-starter/internal/auth"
	"github.com/authstarter/go-auth-starter/internal/config"
	accesslog "github.com/authstarter/go-auth-starter/internal/logger/adapter/fiber"
	"github.com/authstarter/go-auth-starter/internal/metrics"
	"github.com/authstarter/go-auth-starter/internal/users"
	"github.com/authstarter/go-auth-starter/internal/web/errorhandler"
	"github.com/authstarter/go-auth-starter/internal/web/handler"
	adminuser "github.com/authstarter/go-auth-starter/internal/web/handler/admin/user"
	authhandler "github.com/authstarter/go-auth-starter/internal/web/handler/auth"
	authmw "github.com/authstarter/go-auth-starter/internal/web/middleware/auth"
	"github.com/authstarter/go-auth-starter/internal/web/navigation"
	"github.com/authstarter/go-auth-starter/internal/web/response"
)

const (
	// PathMetrics serves the prometheus metrics.
	PathMetrics = "/metrics"
	// PathNavigation serves the navigation manifest inside the API group.
	PathNavigation = "/navigation"
	// PathNavigationResolve runs the route guards for the caller.
	PathNavigationResolve = PathNavigation + "/resolve"

	templateShell = "app"
	layoutPrefix  = "layouts/"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
	navigation   *navigation.Table
}

// health is the body of the check alive endpoint.
type health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// Start starts the web service on the configured port and blocks until it stops.
func (s *Service) Start() error {
	var doneFiber = make(chan bool)

	addr := fmt.Sprintf(":%d", s.cfg.Webserver.Port)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Drain()

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// Drain makes the check alive endpoint fail and waits Webserver.ShutDownTime
// seconds so load balancers stop routing to this instance.
func (s *Service) Drain() {
	s.alive.Store(false)

	if s.fastShutDown {
		return
	}

	log.Info().Msgf(
		"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
		s.cfg.Webserver.ShutDownTime,
	)

	time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
}

// Alive reports whether the service accepts traffic.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates the web service. limiterStorage keeps login throttle counters,
// nil keeps them in memory.
func New(cfg *config.Config, db *gorm.DB, limiterStorage fiber.Storage) (*Service, error) {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	registry, err := cfg.RoleRegistry()
	if err != nil {
		return nil, err
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          newTemplateEngine(cfg),
			ErrorHandler:   errorhandler.Handle,
		},
	)

	authService := auth.NewService(db, registry, cfg.Tokens)

	service := &Service{
		cfg:          cfg,
		App:          app,
		db:           db,
		authService:  authService,
		navigation:   navigation.Default(),
		fastShutDown: cfg.Webserver.ShutDownTime <= 0,
	}
	service.alive.Store(true)

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(metrics.Middleware())
	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: cfg.Webserver.CheckAliveURI,
		Fields: func(c *fiber.Ctx, e *zerolog.Event) {
			if u, ok := auth.UserFromContext(c); ok {
				e.Uint64("user_id", u.ID)
			}
		},
	}))

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Webserver.URL,
		AllowHeaders: strings.Join([]string{
			fiber.HeaderOrigin,
			fiber.HeaderContentType,
			fiber.HeaderAccept,
			fiber.HeaderAuthorization,
		}, ", "),
	}))

	app.Use(authmw.Middleware(authService))

	app.Get(cfg.Webserver.CheckAliveURI, service.health)
	app.Get(PathMetrics, metrics.Handler())

	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
			},
		),
	)

	deps := &handler.Deps{
		Config:         cfg,
		DB:             db,
		Auth:           authService,
		Users:          users.NewService(db, registry),
		LimiterStorage: limiterStorage,
	}

	api := app.Group(cfg.Routes.APIPrefix)
	api.Get(PathNavigation, service.manifest)
	api.Get(PathNavigationResolve, service.resolve)

	if err := authhandler.Handler.Init(api.Group(cfg.Routes.AuthPrefix), deps); err != nil {
		return nil, err
	}

	if err := adminuser.Handler.Init(api.Group(cfg.Routes.AdminPrefix), deps); err != nil {
		return nil, err
	}

	// unknown API routes answer JSON instead of the SPA shell
	api.Use(func(_ *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	app.Get("/*", service.shell)

	return service, nil
}

func (s *Service) health(c *fiber.Ctx) error {
	h := health{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Service:   s.cfg.Title,
	}

	if !s.Alive() {
		h.Status = "shutting down"

		return c.Status(fiber.StatusServiceUnavailable).JSON(h)
	}

	return c.JSON(h)
}

func (s *Service) manifest(c *fiber.Ctx) error {
	return response.OK(c, fiber.StatusOK, "", s.navigation.Manifest(s.authService.Registry().Mapping()))
}

// resolve answers which route ?path= lands on for the bearer of the request.
func (s *Service) resolve(c *fiber.Ctx) error {
	return response.OK(c, fiber.StatusOK, "", s.navigation.Resolve(c.Query("path", "/"), s.navigationState(c)))
}

func (s *Service) navigationState(c *fiber.Ctx) navigation.State {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return navigation.State{}
	}

	// unknown stored values keep an empty role and match no role guard
	name, _ := s.authService.Registry().Name(user.Role)

	return navigation.State{Authenticated: true, Role: name}
}

// shell renders the SPA page. The browser asks resolve where to go before
// showing it, the bearer token being out of reach of a page load.
func (s *Service) shell(c *fiber.Ctx) error {
	route, _ := s.navigation.Match(c.Path())

	return c.Render(templateShell, fiber.Map{
		"Title":       s.cfg.Title,
		"AuthPrefix":  s.cfg.Routes.APIPrefix + s.cfg.Routes.AuthPrefix,
		"ResolvePath": s.cfg.Routes.APIPrefix + PathNavigationResolve,
		"Navigation":  s.navigation.NewContext(route),
		"Manifest":    s.navigation.Manifest(s.authService.Registry().Mapping()),
		"Features":    s.cfg.Features,
	}, layoutPrefix+string(route.Layout))
}

func newTemplateEngine(cfg *config.Config) *html.Engine {
	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.Reload(true)

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	return templateEngine
}
