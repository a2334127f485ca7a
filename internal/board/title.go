package board

import (
	"context"
	"fmt"

	"github.com/monocle-dev/taskboard/internal/types"
)

// IsReservedTitle reports whether title collides with a column name.
func IsReservedTitle(title string) bool {
	for _, column := range types.Columns() {
		if title == string(column) {
			return true
		}
	}
	return false
}

// validateTitle checks title against the reserved column names and every
// other task. excludeID is the task being renamed, or 0 on create.
//
// The check is advisory: a concurrent writer can take the title between
// this query and the write. The unique index on tasks.title catches that
// case and the store reports it as ErrInvalidTitle.
func (s *Service) validateTitle(ctx context.Context, title string, excludeID uint) error {
	if IsReservedTitle(title) {
		return ErrInvalidTitle
	}

	taken, err := s.store.TitleTaken(ctx, title, excludeID)

	if err != nil {
		return fmt.Errorf("check title: %w", err)
	}

	if taken {
		return ErrInvalidTitle
	}

	return nil
}
