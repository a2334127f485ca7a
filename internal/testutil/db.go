// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	conn, err := db.Open(db.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, db.MigrateDatabase(conn))

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return conn
}

// CreateUser inserts a user with a throwaway password hash.
func CreateUser(t *testing.T, conn *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, conn.WithContext(context.Background()).Create(&user).Error)

	return user
}

// CreateTask inserts a task directly, bypassing the board service.
func CreateTask(t *testing.T, conn *gorm.DB, title string, status types.Status, assignee *uint) models.Task {
	t.Helper()

	task := models.Task{
		Title:      title,
		Status:     status,
		Priority:   types.PriorityMedium,
		AssignedTo: assignee,
		Version:    1,
	}
	require.NoError(t, conn.Create(&task).Error)

	return task
}
