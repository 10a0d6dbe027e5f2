package web

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taskboard/internal/repository"
	"taskboard/internal/service"
)

// handleIndex serves the board: GET lists tasks with the current filters,
// POST with form_type=create_task creates one and redirects back.
func (s *Server) handleIndex(c *fiber.Ctx) error {
	user := actingUser(c)

	if c.Method() == fiber.MethodPost && c.FormValue("form_type") == "create_task" {
		return s.createTask(c)
	}

	opts := service.ListOptions{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Sort:     c.Query("sort", repository.SortDeadline),
	}

	tasks, err := s.tasks.ListTasks(c.UserContext(), user, opts)
	if err != nil {
		return err
	}
	categories, err := s.categories.List(c.UserContext(), user)
	if err != nil {
		return err
	}

	selected := opts.Category
	if selected == "" {
		selected = service.CategoryAll
	}

	return c.Render("index", fiber.Map{
		"User":             user,
		"Tasks":            tasks,
		"Categories":       categories,
		"Q":                opts.Query,
		"SelectedCategory": selected,
		"Sort":             opts.Sort,
		"Flashes":          s.popFlashes(c),
	})
}

func (s *Server) createTask(c *fiber.Ctx) error {
	user := actingUser(c)

	var form taskForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	if err := s.validate.Struct(form); err != nil {
		s.addFlash(c, "danger", validationMessage(err))
		return c.Redirect("/")
	}

	task, err := s.tasks.CreateTask(c.UserContext(), user, form.input())
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			s.addFlash(c, "danger", err.Error())
			return c.Redirect("/")
		}
		return err
	}

	slog.Info("task created", "task_id", task.ID, "user_id", user.ID)
	s.addFlash(c, "success", "Task created.")
	return c.Redirect("/")
}

func (s *Server) handleAddCategory(c *fiber.Ctx) error {
	user := actingUser(c)

	var form categoryForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	if err := s.validate.Struct(form); err != nil {
		s.addFlash(c, "danger", validationMessage(err))
		return c.Redirect("/")
	}

	category, err := s.categories.Create(c.UserContext(), user, form.Name)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNameRequired) {
			s.addFlash(c, "danger", err.Error())
			return c.Redirect("/")
		}
		return err
	}

	slog.Info("category created", "category_id", category.ID, "user_id", user.ID)
	s.addFlash(c, "success", "Category added.")
	return c.Redirect("/")
}

func (s *Server) handleToggle(c *fiber.Ctx) error {
	user := actingUser(c)
	taskID, err := parseID(c)
	if err != nil {
		return fiber.ErrNotFound
	}

	if _, err := s.tasks.ToggleTask(c.UserContext(), user, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.addFlash(c, "danger", "Task not found.")
			return c.Redirect("/")
		}
		return err
	}

	s.addFlash(c, "success", "Status updated.")
	return c.Redirect("/")
}

func (s *Server) handleDelete(c *fiber.Ctx) error {
	user := actingUser(c)
	taskID, err := parseID(c)
	if err != nil {
		return fiber.ErrNotFound
	}

	if err := s.tasks.DeleteTask(c.UserContext(), user, taskID); err != nil {
		return err
	}

	slog.Info("task deleted", "task_id", taskID, "user_id", user.ID)
	s.addFlash(c, "info", "Task deleted.")
	return c.Redirect("/")
}

func (s *Server) showEdit(c *fiber.Ctx) error {
	user := actingUser(c)
	taskID, err := parseID(c)
	if err != nil {
		return fiber.ErrNotFound
	}

	task, err := s.tasks.GetTask(c.UserContext(), user, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.addFlash(c, "danger", "Task not found.")
			return c.Redirect("/")
		}
		return err
	}

	categories, err := s.categories.List(c.UserContext(), user)
	if err != nil {
		return err
	}

	deadline := ""
	if task.Deadline != nil {
		deadline = task.Deadline.Format(service.DeadlineLayout)
	}

	return c.Render("edit", fiber.Map{
		"User":       user,
		"Task":       task,
		"Deadline":   deadline,
		"Categories": categories,
		"Flashes":    s.popFlashes(c),
	})
}

func (s *Server) handleEdit(c *fiber.Ctx) error {
	user := actingUser(c)
	taskID, err := parseID(c)
	if err != nil {
		return fiber.ErrNotFound
	}

	var form taskForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	if err := s.validate.Struct(form); err != nil {
		s.addFlash(c, "danger", validationMessage(err))
		return c.Redirect("/edit/" + c.Params("id"))
	}

	if err := s.tasks.UpdateTask(c.UserContext(), user, taskID, form.input()); err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired):
			s.addFlash(c, "danger", err.Error())
			return c.Redirect("/edit/" + c.Params("id"))
		case errors.Is(err, gorm.ErrRecordNotFound):
			s.addFlash(c, "danger", "Task not found.")
			return c.Redirect("/")
		default:
			return err
		}
	}

	slog.Info("task updated", "task_id", taskID, "user_id", user.ID)
	s.addFlash(c, "success", "Task updated.")
	return c.Redirect("/")
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
