package web

import (
	"encoding/gob"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const sessionFlashKey = "flash"

// Flash is a one-shot user-facing message surviving exactly one redirect.
type Flash struct {
	Level   string // success, danger, info
	Message string
}

func init() {
	gob.Register([]Flash{})
}

// appendFlash queues a message on an already loaded session. Handlers that
// regenerate or otherwise rewrite the session must use this so the flash
// lands on the session id that is actually sent back.
func appendFlash(sess *session.Session, level, message string) {
	flashes, _ := sess.Get(sessionFlashKey).([]Flash)
	sess.Set(sessionFlashKey, append(flashes, Flash{Level: level, Message: message}))
}

func (s *Server) addFlash(c *fiber.Ctx, level, message string) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return
	}
	appendFlash(sess, level, message)
	_ = sess.Save()
}

// popFlashes drains pending messages so each renders only once.
func (s *Server) popFlashes(c *fiber.Ctx) []Flash {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return nil
	}
	flashes, _ := sess.Get(sessionFlashKey).([]Flash)
	if len(flashes) > 0 {
		sess.Delete(sessionFlashKey)
		_ = sess.Save()
	}
	return flashes
}
