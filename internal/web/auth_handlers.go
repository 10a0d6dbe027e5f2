package web

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"taskboard/internal/service"
)

func (s *Server) showRegister(c *fiber.Ctx) error {
	return c.Render("register", fiber.Map{
		"Flashes": s.popFlashes(c),
	})
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var form credentialsForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	if err := s.validate.Struct(form); err != nil {
		s.addFlash(c, "danger", validationMessage(err))
		return c.Redirect("/register")
	}

	user, err := s.auth.Register(c.UserContext(), form.Username, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrCredentialsRequired):
			s.addFlash(c, "danger", err.Error())
			return c.Redirect("/register")
		default:
			return err
		}
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	s.addFlash(c, "success", "Registration successful. Please log in.")
	return c.Redirect("/login")
}

func (s *Server) showLogin(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"Flashes": s.popFlashes(c),
		"Next":    c.Query("next"),
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var form credentialsForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}

	user, err := s.auth.Login(c.UserContext(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			s.addFlash(c, "danger", err.Error())
			return c.Redirect("/login")
		}
		return err
	}

	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	// Fresh session id on privilege change. The flash goes on the same
	// session instance so it follows the new id.
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionUserKey, user.ID)
	appendFlash(sess, "success", "You are now logged in.")
	if err := sess.Save(); err != nil {
		return err
	}

	slog.Info("user logged in", "user_id", user.ID)
	return c.Redirect(safeNext(c.Query("next")))
}

// handleLogout drops the authenticated identity and rotates the session id.
// Safe to hit repeatedly.
func (s *Server) handleLogout(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err == nil {
		sess.Delete(sessionUserKey)
		_ = sess.Regenerate()
		appendFlash(sess, "info", "You have been logged out.")
		_ = sess.Save()
	}
	return c.Redirect("/login")
}

func (s *Server) handleHome(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return err
	}
	if user == nil {
		return c.Redirect("/login")
	}
	return c.Redirect("/")
}

// safeNext keeps the post-login redirect on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
