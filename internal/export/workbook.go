// Package export renders the board and its activity log as an xlsx workbook.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/types"
	"github.com/xuri/excelize/v2"
)

const (
	BoardSheet    = "Board"
	ActivitySheet = "Activity"
)

var (
	boardHeader    = []interface{}{"Column", "ID", "Title", "Description", "Priority", "Assignee", "Version", "Updated"}
	activityHeader = []interface{}{"ID", "Time", "Action", "User", "Task", "Details", "Changes"}
)

// Build returns a workbook with one row per task, grouped by column in board
// order, and one row per activity entry, oldest first. tasks should have
// Assignee loaded and entries should have User and Task loaded; missing
// references are written as blanks.
func Build(tasks []models.Task, entries []models.ActionLog) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", BoardSheet); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(ActivitySheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E0E0E0"}},
	})
	if err != nil {
		return nil, err
	}

	if err := writeRows(f, BoardSheet, boardHeader, boardRows(tasks), headerStyle); err != nil {
		return nil, err
	}

	if err := writeRows(f, ActivitySheet, activityHeader, activityRows(entries), headerStyle); err != nil {
		return nil, err
	}

	_ = f.SetColWidth(BoardSheet, "C", "D", 40)
	_ = f.SetColWidth(ActivitySheet, "F", "F", 50)

	return f, nil
}

// Write builds the workbook and writes it to w.
func Write(w io.Writer, tasks []models.Task, entries []models.ActionLog) error {
	f, err := Build(tasks, entries)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}

	return nil
}

func boardRows(tasks []models.Task) [][]interface{} {
	rows := make([][]interface{}, 0, len(tasks))

	for _, column := range types.Columns() {
		for _, task := range tasks {
			if task.Status != column {
				continue
			}

			assignee := ""
			if task.Assignee != nil {
				assignee = task.Assignee.Username
			}

			rows = append(rows, []interface{}{
				string(task.Status),
				task.ID,
				task.Title,
				task.Description,
				string(task.Priority),
				assignee,
				task.Version,
				task.UpdatedAt.UTC().Format(time.RFC3339),
			})
		}
	}

	return rows
}

func changedFields(entry models.ActionLog) string {
	var fields []string

	if len(entry.Changes) == 0 || json.Unmarshal(entry.Changes, &fields) != nil {
		return ""
	}

	return strings.Join(fields, ", ")
}

func activityRows(entries []models.ActionLog) [][]interface{} {
	rows := make([][]interface{}, 0, len(entries))

	for _, entry := range entries {
		user, task := "", ""

		if entry.User != nil {
			user = entry.User.Username
		}

		if entry.Task != nil {
			task = entry.Task.Title
		}

		rows = append(rows, []interface{}{
			entry.ID,
			entry.CreatedAt.UTC().Format(time.RFC3339),
			string(entry.Action),
			user,
			task,
			entry.Details,
			changedFields(entry),
		})
	}

	return rows
}
