package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/monocle-dev/taskboard/internal/logging"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// Store is the authoritative task and user state.
type Store interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id uint) (models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	// UpdateTask writes task only if the stored row still has
	// expectedVersion, returning ErrStaleWrite otherwise.
	UpdateTask(ctx context.Context, task *models.Task, expectedVersion int) error
	DeleteTask(ctx context.Context, id uint) (models.Task, error)
	TitleTaken(ctx context.Context, title string, excludeID uint) (bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListActiveTasks(ctx context.Context) ([]models.Task, error)
}

// Recorder appends activity log entries.
type Recorder interface {
	Record(ctx context.Context, entry *models.ActionLog) error
}

// Notifier tells every connected client that the board changed. Publish
// must not block on receivers.
type Notifier interface {
	Publish(ctx context.Context)
}

type CreateInput struct {
	Title       string
	Description string
	Priority    string
}

// UpdateInput holds the optional fields of an update. Nil pointers leave
// the field untouched. Raw is the request body as sent, returned to the
// caller on conflict.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  AssigneeChange
	Version     *int
	Raw         json.RawMessage
}

// maxWriteAttempts bounds the replays of a versionless update.
const maxWriteAttempts = 5

type Service struct {
	store    Store
	recorder Recorder
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(store Store, recorder Recorder, notifier Notifier) *Service {
	return &Service{
		store:    store,
		recorder: recorder,
		notifier: notifier,
		log:      logging.Component("board"),
		now:      time.Now,
	}
}

func (s *Service) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.store.ListTasks(ctx)
}

func (s *Service) CreateTask(ctx context.Context, actorID uint, in CreateInput) (models.Task, error) {
	in.Title = strings.TrimSpace(in.Title)

	if in.Title == "" {
		return models.Task{}, ErrTitleRequired
	}

	priority := types.PriorityMedium

	if in.Priority != "" {
		priority = types.Priority(in.Priority)
		if !priority.Valid() {
			return models.Task{}, ErrInvalidPriority
		}
	}

	if err := s.validateTitle(ctx, in.Title, 0); err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      types.StatusTodo,
		Priority:    priority,
		UpdatedBy:   &actorID,
		Version:     1,
	}
	task.UpdatedAt = s.now()

	if err := s.store.CreateTask(ctx, &task); err != nil {
		return models.Task{}, err
	}

	s.finish(ctx, actorID, task, types.ActionCreate, nil, []string{"title", "description", "priority"})

	return task, nil
}

// UpdateTask applies in to the task. With a client version the write is all
// or nothing against that version. Without one, a write that loses to a
// concurrent update is replayed on the fresh row, up to maxWriteAttempts.
func (s *Service) UpdateTask(ctx context.Context, actorID, taskID uint, in UpdateInput) (models.Task, error) {
	if in.Title != nil && *in.Title != "" {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return models.Task{}, ErrTitleRequired
		}
		in.Title = &title
	}

	for attempt := 1; ; attempt++ {
		task, changes, fields, err := s.writeUpdate(ctx, actorID, taskID, in)

		if err == nil {
			s.finish(ctx, actorID, task, Classify(changes), nil, fields)
			return task, nil
		}

		if in.Version != nil || !errors.Is(err, ErrStaleWrite) {
			return models.Task{}, s.staleWrite(ctx, taskID, in.Raw, err)
		}

		if attempt == maxWriteAttempts {
			if _, getErr := s.store.GetTask(ctx, taskID); getErr != nil {
				return models.Task{}, getErr
			}
			return models.Task{}, ErrTaskBusy
		}

		s.log.Debug().Ctx(ctx).
			Uint("task_id", taskID).
			Int("attempt", attempt).
			Msg("replaying update after concurrent write")
	}
}

// writeUpdate reads the task, applies in and attempts the conditional write.
func (s *Service) writeUpdate(ctx context.Context, actorID, taskID uint, in UpdateInput) (models.Task, Changes, []string, error) {
	task, err := s.store.GetTask(ctx, taskID)

	if err != nil {
		return models.Task{}, Changes{}, nil, err
	}

	if err := CheckVersion(task, in.Version, in.Raw); err != nil {
		return models.Task{}, Changes{}, nil, err
	}

	if in.Title != nil && *in.Title != "" {
		if err := s.validateTitle(ctx, *in.Title, task.ID); err != nil {
			return models.Task{}, Changes{}, nil, err
		}
	}

	expected := task.Version
	changes, fields, err := applyUpdate(&task, in)

	if err != nil {
		return models.Task{}, Changes{}, nil, err
	}

	s.stamp(&task, actorID, expected)

	if err := s.store.UpdateTask(ctx, &task, expected); err != nil {
		return models.Task{}, Changes{}, nil, err
	}

	return task, changes, fields, nil
}

func (s *Service) DeleteTask(ctx context.Context, actorID, taskID uint) (models.Task, error) {
	task, err := s.store.DeleteTask(ctx, taskID)

	if err != nil {
		return models.Task{}, err
	}

	s.finish(ctx, actorID, task, types.ActionDelete, nil, nil)

	return task, nil
}

// SmartAssign gives the task to the user with the fewest unfinished tasks.
// The caller sends no version, so a lost write is replayed with fresh loads
// rather than reported as a conflict.
func (s *Service) SmartAssign(ctx context.Context, actorID, taskID uint) (models.Task, error) {
	users, err := s.store.ListUsers(ctx)

	if err != nil {
		return models.Task{}, fmt.Errorf("list users: %w", err)
	}

	if len(users) == 0 {
		return models.Task{}, ErrNoUsersAvailable
	}

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		task, user, err := s.writeSmartAssign(ctx, actorID, taskID, users)

		if errors.Is(err, ErrStaleWrite) {
			continue
		}

		if err != nil {
			return models.Task{}, err
		}

		s.finish(ctx, actorID, task, types.ActionSmartAssign, &user, []string{"assignedTo"})
		return task, nil
	}

	if _, err := s.store.GetTask(ctx, taskID); err != nil {
		return models.Task{}, err
	}

	return models.Task{}, ErrTaskBusy
}

func (s *Service) writeSmartAssign(ctx context.Context, actorID, taskID uint, users []models.User) (models.Task, models.User, error) {
	task, err := s.store.GetTask(ctx, taskID)

	if err != nil {
		return models.Task{}, models.User{}, err
	}

	active, err := s.store.ListActiveTasks(ctx)

	if err != nil {
		return models.Task{}, models.User{}, fmt.Errorf("list active tasks: %w", err)
	}

	user, load, err := PickLeastLoaded(users, active)

	if err != nil {
		return models.Task{}, models.User{}, err
	}

	expected := task.Version
	task.AssignedTo = &user.ID
	s.stamp(&task, actorID, expected)

	if err := s.store.UpdateTask(ctx, &task, expected); err != nil {
		return models.Task{}, models.User{}, err
	}

	s.log.Debug().Ctx(ctx).
		Uint("task_id", task.ID).
		Uint("assignee", user.ID).
		Int("load", load).
		Msg("smart assigned task")

	return task, user, nil
}

// applyUpdate copies the requested fields onto task and reports what
// changed. Nothing is written.
func applyUpdate(task *models.Task, in UpdateInput) (Changes, []string, error) {
	var (
		changes Changes
		fields  []string
	)

	if in.Title != nil && *in.Title != "" && *in.Title != task.Title {
		task.Title = *in.Title
		fields = append(fields, "title")
	}

	if in.Description != nil && *in.Description != task.Description {
		task.Description = *in.Description
		fields = append(fields, "description")
	}

	if in.Status != nil && *in.Status != "" {
		status := types.Status(*in.Status)
		if !status.Valid() {
			return Changes{}, nil, ErrInvalidStatus
		}
		if status != task.Status {
			task.Status = status
			changes.Status = true
			fields = append(fields, "status")
		}
	}

	if in.Priority != nil && *in.Priority != "" {
		priority := types.Priority(*in.Priority)
		if !priority.Valid() {
			return Changes{}, nil, ErrInvalidPriority
		}
		if priority != task.Priority {
			task.Priority = priority
			fields = append(fields, "priority")
		}
	}

	if in.AssignedTo.Set && !sameAssignee(task.AssignedTo, in.AssignedTo.UserID) {
		task.AssignedTo = in.AssignedTo.UserID
		changes.Assignment = true
		fields = append(fields, "assignedTo")
	}

	return changes, fields, nil
}

func (s *Service) stamp(task *models.Task, actorID uint, expected int) {
	task.Version = expected + 1
	task.UpdatedAt = s.now()
	task.UpdatedBy = &actorID
}

// staleWrite turns a lost conditional write on a versioned update into the
// error the caller should see: the task is gone, or someone else's version
// won.
func (s *Service) staleWrite(ctx context.Context, taskID uint, raw json.RawMessage, err error) error {
	if !errors.Is(err, ErrStaleWrite) {
		return err
	}

	current, getErr := s.store.GetTask(ctx, taskID)

	if getErr != nil {
		return getErr
	}

	s.log.Info().Ctx(ctx).
		Uint("task_id", taskID).
		Int("version", current.Version).
		Msg("conditional write lost to a concurrent update")

	return &ConflictError{Server: current, Client: raw}
}

// finish records and broadcasts a committed mutation. Neither step can fail
// the mutation: the task is already written.
func (s *Service) finish(ctx context.Context, actorID uint, task models.Task, kind types.ActionKind, assignee *models.User, fields []string) {
	taskID := task.ID
	entry := &models.ActionLog{
		Action:  kind,
		UserID:  &actorID,
		TaskID:  &taskID,
		Details: Describe(kind, task, assignee),
	}

	if len(fields) > 0 {
		if changes, err := json.Marshal(fields); err == nil {
			entry.Changes = datatypes.JSON(changes)
		}
	}

	if err := s.recorder.Record(ctx, entry); err != nil {
		s.log.Error().Ctx(ctx).Err(err).
			Str("action", string(kind)).
			Uint("task_id", taskID).
			Msg("failed to record activity")
	}

	s.notifier.Publish(ctx)
}
