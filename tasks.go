package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rkaranam/concierge/models"
	"github.com/rkaranam/concierge/taskstore"
)

// Store seams, swapped by handler tests.
var (
	getTask    = taskstore.Get
	updateTask = taskstore.Update
	deleteTask = taskstore.Delete
)

// CreateTaskRequest is the client JSON body for a new task.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
	TaskType    string `json:"task_type"`
}

// HandleCreateTask stores the task, runs its description through the agent
// and returns the completed record.
func HandleCreateTask(c echo.Context) error {
	req := new(CreateTaskRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}
	if req.Title == "" || req.Description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing 'title' or 'description'")
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		TaskType:    req.TaskType,
		Status:      "pending",
		UserID:      userID(c),
	}
	if task.Priority == "" {
		task.Priority = "medium"
	}
	if task.TaskType == "" {
		task.TaskType = "chat"
	}
	if req.DueDate != "" {
		due, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid 'due_date', want RFC 3339")
		}
		task.DueDate = &due
	}

	task.AIResponse = assistant.Process(c.Request().Context(), task.Description)
	task.Status = "completed"

	if err := taskstore.Create(task); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store task")
	}
	return c.JSON(http.StatusOK, task)
}

func HandleListTasks(c echo.Context) error {
	tasks, err := taskstore.ListByUser(userID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list tasks")
	}
	return c.JSON(http.StatusOK, tasks)
}

// HandleUpdateTask applies an allow-listed update. Unknown fields in the
// body are rejected rather than reflected onto the record.
func HandleUpdateTask(c echo.Context) error {
	task, err := getTask(c.Param("id"))
	if err == taskstore.ErrNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read task")
	}
	if task.UserID != userID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
	}

	var update models.TaskUpdate
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid update body")
	}

	updated, err := updateTask(task.ID, update)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update task")
	}
	return c.JSON(http.StatusOK, updated)
}

func HandleDeleteTask(c echo.Context) error {
	task, err := getTask(c.Param("id"))
	if err == taskstore.ErrNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read task")
	}
	if task.UserID != userID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
	}

	if err := deleteTask(task.ID, task.UserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete task")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Task deleted"})
}

// userID is the opaque caller identity. Session auth lives in front of this
// service; a bare deployment falls back to the single owner.
func userID(c echo.Context) string {
	if id := c.Request().Header.Get("X-User-ID"); id != "" {
		return id
	}
	return "owner"
}
