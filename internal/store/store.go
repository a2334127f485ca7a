// Package store implements the board's Task Store over gorm.
package store

import (
	"context"
	"fmt"

	"github.com/monocle-dev/taskboard/internal/board"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task

	if err := s.db.WithContext(ctx).Preload("Assignee").Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

func (s *Store) GetTask(ctx context.Context, id uint) (models.Task, error) {
	var task models.Task

	if err := s.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if isNotFound(err) {
			return models.Task{}, board.ErrTaskNotFound
		}
		return models.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}

	return task, nil
}

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		if isUniqueViolation(err) {
			return board.ErrInvalidTitle
		}
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

// UpdateTask is a compare-and-swap on (id, version): the row is written only
// if nobody else bumped the version since expectedVersion was read.
func (s *Store) UpdateTask(ctx context.Context, task *models.Task, expectedVersion int) error {
	result := s.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND version = ?", task.ID, expectedVersion).
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"priority":    task.Priority,
			"assigned_to": task.AssignedTo,
			"updated_by":  task.UpdatedBy,
			"updated_at":  task.UpdatedAt,
			"version":     task.Version,
		})

	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return board.ErrInvalidTitle
		}
		return fmt.Errorf("update task %d: %w", task.ID, result.Error)
	}

	if result.RowsAffected == 0 {
		return board.ErrStaleWrite
	}

	return nil
}

// DeleteTask purges the task and returns the row as it was.
func (s *Store) DeleteTask(ctx context.Context, id uint) (models.Task, error) {
	var task models.Task

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Task{}, id)

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})

	if err != nil {
		if isNotFound(err) {
			return models.Task{}, board.ErrTaskNotFound
		}
		return models.Task{}, fmt.Errorf("delete task %d: %w", id, err)
	}

	return task, nil
}

func (s *Store) TitleTaken(ctx context.Context, title string, excludeID uint) (bool, error) {
	var count int64

	query := s.db.WithContext(ctx).Model(&models.Task{}).Where("title = ?", title)

	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// ListActiveTasks returns every task that is not Done.
func (s *Store) ListActiveTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task

	if err := s.db.WithContext(ctx).Where("status <> ?", types.StatusDone).Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}
