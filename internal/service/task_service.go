package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// CategoryAll is the filter sentinel meaning "no category restriction".
const CategoryAll = "all"

// TaskInput represents data required to create or overwrite a task.
type TaskInput struct {
	Title       string
	Description string
	CategoryID  *uint
	Deadline    *time.Time
	Completed   bool
}

// ListOptions carries the raw query parameters of a task listing.
type ListOptions struct {
	Query    string
	Category string // "", "all", or a category id
	Sort     string // "deadline" (default) or "created"
}

// TaskView is a listed task annotated with its derived display status.
type TaskView struct {
	repository.TaskRow
	Status  string
	Overdue bool
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo}
}

func (s *TaskService) CreateTask(ctx context.Context, user *model.User, input TaskInput) (*model.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	task := model.Task{
		UserID:      user.ID,
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Deadline:    input.Deadline,
		Completed:   input.Completed,
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks runs the filtered, sorted listing for a user and annotates each
// row with its derived status.
func (s *TaskService) ListTasks(ctx context.Context, user *model.User, opts ListOptions) ([]TaskView, error) {
	filter := repository.TaskFilter{
		Query: strings.TrimSpace(opts.Query),
		Sort:  opts.Sort,
	}
	if opts.Category != "" && opts.Category != CategoryAll {
		// A non-numeric or foreign id must match nothing, never widen the
		// result set. Ids start at 1, so 0 is a safe never-matches value.
		var categoryID uint
		if parsed, err := strconv.ParseUint(opts.Category, 10, 32); err == nil {
			categoryID = uint(parsed)
		}
		filter.CategoryID = &categoryID
	}

	rows, err := s.taskRepo.List(ctx, user.ID, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]TaskView, 0, len(rows))
	for _, row := range rows {
		status, overdue := DeriveStatus(row.Completed, row.Deadline, now)
		views = append(views, TaskView{TaskRow: row, Status: status, Overdue: overdue})
	}
	return views, nil
}

func (s *TaskService) GetTask(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, user.ID, taskID)
}

// UpdateTask overwrites every field of an owned task with the given input.
func (s *TaskService) UpdateTask(ctx context.Context, user *model.User, taskID uint, input TaskInput) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return ErrTitleRequired
	}

	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.CategoryID = input.CategoryID
	task.Deadline = input.Deadline
	task.Completed = input.Completed
	return s.taskRepo.Update(ctx, task)
}

// ToggleTask flips the completion flag of an owned task.
func (s *TaskService) ToggleTask(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.SetCompleted(ctx, task, !task.Completed); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes an owned task permanently.
func (s *TaskService) DeleteTask(ctx context.Context, user *model.User, taskID uint) error {
	return s.taskRepo.Delete(ctx, user.ID, taskID)
}
