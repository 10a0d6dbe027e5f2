package web

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"

	"taskboard/internal/service"
)

type credentialsForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type taskForm struct {
	FormType    string `form:"form_type"`
	Title       string `form:"title" validate:"required"`
	Description string `form:"description"`
	CategoryID  string `form:"category_id"`
	Deadline    string `form:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Completed   string `form:"completed"`
}

type categoryForm struct {
	Name string `form:"category_name" validate:"required"`
}

// input converts validated form fields into the service-level task input.
func (f taskForm) input() service.TaskInput {
	var categoryID *uint
	if f.CategoryID != "" {
		if parsed, err := strconv.ParseUint(f.CategoryID, 10, 32); err == nil {
			id := uint(parsed)
			categoryID = &id
		}
	}

	// Deadline already passed the datetime validation; a parse failure here
	// is impossible, but the nil fallback keeps it harmless.
	deadline, _ := service.ParseDeadline(f.Deadline)

	return service.TaskInput{
		Title:       f.Title,
		Description: f.Description,
		CategoryID:  categoryID,
		Deadline:    deadline,
		Completed:   f.Completed == "on",
	}
}

// validationMessage maps a validator error to the user-facing flash text.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		switch fieldErrs[0].Field() {
		case "Username", "Password":
			return service.ErrCredentialsRequired.Error()
		case "Title":
			return service.ErrTitleRequired.Error()
		case "Deadline":
			return service.ErrInvalidDeadline.Error()
		case "Name":
			return service.ErrCategoryNameRequired.Error()
		}
	}
	return "invalid input"
}
