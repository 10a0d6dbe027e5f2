package web

import (
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

const sessionUserKey = "user_id"

// requireLogin resolves the session to a known user before any handler
// touches state. A missing session and a session pointing at a deleted
// user both degrade to the login redirect, keeping the requested path.
func (s *Server) requireLogin(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return err
	}
	if user == nil {
		return c.Redirect("/login?next=" + url.QueryEscape(c.OriginalURL()))
	}
	c.Locals(localUserKey, user)
	return c.Next()
}

// currentUser returns the acting user, or nil when the request carries no
// usable session.
func (s *Server) currentUser(c *fiber.Ctx) (*model.User, error) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return nil, err
	}
	id, ok := sess.Get(sessionUserKey).(uint)
	if !ok {
		return nil, nil
	}
	user, err := s.users.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func actingUser(c *fiber.Ctx) *model.User {
	return c.Locals(localUserKey).(*model.User)
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		logFn := slog.Info
		switch {
		case status >= 500:
			logFn = slog.Error
		case status >= 400:
			logFn = slog.Warn
		}
		logFn("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start).String(),
		)
		return err
	}
}
