package web

import (
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"

	"taskboard/internal/config"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

const localUserKey = "user"

// Server wires the HTTP surface: routing, sessions, templates and the
// services behind each handler.
type Server struct {
	app        *fiber.App
	sessions   *session.Store
	validate   *validator.Validate
	users      *repository.UserRepository
	auth       *service.AuthService
	tasks      *service.TaskService
	categories *service.CategoryService
}

func New(cfg config.Config, users *repository.UserRepository, auth *service.AuthService, tasks *service.TaskService, categories *service.CategoryService) *Server {
	engine := html.New(cfg.ViewsDir, ".html")
	engine.AddFunc("deref", func(p *uint) uint {
		if p == nil {
			return 0
		}
		return *p
	})

	s := &Server{
		sessions: session.New(session.Config{
			KeyLookup:      "cookie:taskboard_session",
			Expiration:     7 * 24 * time.Hour,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
		}),
		validate:   validator.New(),
		users:      users,
		auth:       auth,
		tasks:      tasks,
		categories: categories,
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "taskboard",
		Views:        engine,
		ViewsLayout:  "layouts/main",
		ErrorHandler: errorHandler,
	})

	s.app.Use(requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/register", s.showRegister)
	s.app.Post("/register", s.handleRegister)
	s.app.Get("/login", s.showLogin)
	s.app.Post("/login", s.handleLogin)
	s.app.Get("/logout", s.handleLogout)
	s.app.Get("/home", s.handleHome)

	s.app.Get("/", s.requireLogin, s.handleIndex)
	s.app.Post("/", s.requireLogin, s.handleIndex)
	s.app.Post("/add_category", s.requireLogin, s.handleAddCategory)
	s.app.Get("/toggle/:id", s.requireLogin, s.handleToggle)
	s.app.Post("/delete/:id", s.requireLogin, s.handleDelete)
	s.app.Get("/edit/:id", s.requireLogin, s.showEdit)
	s.app.Post("/edit/:id", s.requireLogin, s.handleEdit)
}

// App exposes the underlying fiber app, mainly for tests via app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	if code >= 500 {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(code).SendString(err.Error())
}
