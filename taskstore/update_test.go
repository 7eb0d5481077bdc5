package taskstore

import (
	"testing"
	"time"

	"github.com/rkaranam/concierge/models"
)

func strptr(s string) *string { return &s }

func TestApplyUpdateSetsOnlyProvidedFields(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	task := models.Task{
		ID:          "t1",
		Title:       "old title",
		Description: "old description",
		Priority:    "medium",
		TaskType:    "chat",
		AIResponse:  "original answer",
		Status:      "completed",
		UserID:      "owner",
		CreatedAt:   created,
	}

	ApplyUpdate(&task, models.TaskUpdate{
		Title:  strptr("new title"),
		Status: strptr("archived"),
	})

	if task.Title != "new title" || task.Status != "archived" {
		t.Fatalf("set fields not applied: %+v", task)
	}
	if task.Description != "old description" || task.Priority != "medium" || task.TaskType != "chat" {
		t.Fatalf("unset fields changed: %+v", task)
	}
	// Fields outside the allow-list are unreachable from an update.
	if task.ID != "t1" || task.UserID != "owner" || task.AIResponse != "original answer" || !task.CreatedAt.Equal(created) {
		t.Fatalf("protected fields changed: %+v", task)
	}
}

func TestApplyUpdateEmptyIsNoop(t *testing.T) {
	task := models.Task{Title: "keep", Status: "pending"}
	ApplyUpdate(&task, models.TaskUpdate{})
	if task.Title != "keep" || task.Status != "pending" {
		t.Fatalf("empty update mutated task: %+v", task)
	}
}

func TestApplyUpdateDueDate(t *testing.T) {
	due := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	task := models.Task{}
	ApplyUpdate(&task, models.TaskUpdate{DueDate: &due})
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Fatalf("due date not applied: %+v", task.DueDate)
	}
}
