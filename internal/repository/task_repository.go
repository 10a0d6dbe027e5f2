package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

// Sort keys accepted by List.
const (
	SortDeadline = "deadline"
	SortCreated  = "created"
)

// TaskFilter narrows a task listing. Zero values mean "no restriction".
type TaskFilter struct {
	Query      string // substring match on title
	CategoryID *uint
	Sort       string
}

// TaskRow is a task joined with its category name ("" when unset or the
// category no longer exists).
type TaskRow struct {
	model.Task
	CategoryName string
}

// TaskRepository handles CRUD for tasks. Every query is scoped to the
// owning user id.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// List returns the user's tasks joined with category names. The user
// predicate is applied before any filter, so a category id belonging to
// another user simply yields an empty result.
func (r *TaskRepository) List(ctx context.Context, userID uint, filter TaskFilter) ([]TaskRow, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("tasks.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = tasks.category_id").
		Where("tasks.user_id = ?", userID)

	if filter.Query != "" {
		q = q.Where("tasks.title LIKE ?", "%"+filter.Query+"%")
	}
	if filter.CategoryID != nil {
		q = q.Where("tasks.category_id = ?", *filter.CategoryID)
	}

	switch filter.Sort {
	case SortCreated:
		q = q.Order("tasks.created_at DESC")
	default:
		q = q.Order("tasks.deadline NULLS LAST").Order("tasks.created_at DESC")
	}

	var rows []TaskRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return rows, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update overwrites every editable field, including zero values, so a
// cleared deadline or unchecked completion flag sticks.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND id = ?", task.UserID, task.ID).
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"category_id": task.CategoryID,
			"deadline":    task.Deadline,
			"completed":   task.Completed,
		}).Error
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// SetCompleted flips the completion flag of a previously loaded task.
func (r *TaskRepository) SetCompleted(ctx context.Context, task *model.Task, completed bool) error {
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND id = ?", task.UserID, task.ID).
		Update("completed", completed).Error
	if err != nil {
		return fmt.Errorf("set task completed: %w", err)
	}
	task.Completed = completed
	return nil
}

// Delete removes a task for the given user. A task id owned by someone
// else matches no rows and is a no-op.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
