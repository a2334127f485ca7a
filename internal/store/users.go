package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/monocle-dev/taskboard/internal/board"
	"github.com/monocle-dev/taskboard/internal/models"
)

var ErrUsernameTaken = errors.New("Username already exists")

// ListUsers returns all users ordered by id, which is also the smart
// assignment tie-break order.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User

	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (models.User, error) {
	var user models.User

	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if isNotFound(err) {
			return models.User{}, board.ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("get user %d: %w", id, err)
	}

	return user, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User

	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if isNotFound(err) {
			return models.User{}, board.ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("find user %q: %w", username, err)
	}

	return user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}
