// Package activity stores and reads the board's append-only activity log.
package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/monocle-dev/taskboard/internal/logging"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// DefaultLimit is the number of entries returned by the activity feed.
const DefaultLimit = 20

type Recorder struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{
		db:  db,
		log: logging.Component("activity"),
	}
}

// Record appends entry. CreatedAt is set by the database layer when zero.
func (r *Recorder) Record(ctx context.Context, entry *models.ActionLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("record %s: %w", entry.Action, err)
	}

	r.log.Debug().Ctx(ctx).
		Uint("entry_id", entry.ID).
		Str("action", string(entry.Action)).
		Msg("activity recorded")

	return nil
}

// Recent returns up to limit entries, newest first. Entries whose user or
// task has since been deleted come back with that side left nil.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]types.ActionResponse, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var entries []models.ActionLog

	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Task").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error

	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	out := make([]types.ActionResponse, 0, len(entries))

	for _, entry := range entries {
		out = append(out, r.toResponse(entry))
	}

	return out, nil
}

// All returns every entry oldest first with references loaded where they
// still exist.
func (r *Recorder) All(ctx context.Context) ([]models.ActionLog, error) {
	var entries []models.ActionLog

	if err := r.db.WithContext(ctx).Preload("User").Preload("Task").Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	return entries, nil
}

func (r *Recorder) toResponse(entry models.ActionLog) types.ActionResponse {
	resp := types.ActionResponse{
		ID:        entry.ID,
		Action:    entry.Action,
		Details:   entry.Details,
		Changes:   []string{},
		CreatedAt: entry.CreatedAt,
	}

	if entry.User != nil {
		resp.User = &types.UserResponse{ID: entry.User.ID, Username: entry.User.Username}
	}

	if entry.Task != nil {
		resp.Task = &types.TaskRef{ID: entry.Task.ID, Title: entry.Task.Title}
	}

	if len(entry.Changes) > 0 {
		if err := json.Unmarshal(entry.Changes, &resp.Changes); err != nil {
			r.log.Warn().Err(err).Uint("entry_id", entry.ID).Msg("unreadable changes on activity entry")
		}
	}

	return resp
}
