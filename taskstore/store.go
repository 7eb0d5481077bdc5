// Package taskstore persists user tasks in redis.
package taskstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/google/uuid"

	"github.com/rkaranam/concierge/models"
	"github.com/rkaranam/concierge/redisclient"
)

var ErrNotFound = errors.New("task not found")

func taskKey(id string) string { return "task:" + id }

func userKey(userID string) string { return "tasks:" + userID }

// Create assigns the task an id and timestamp and stores it under its
// owner's index.
func Create(t *models.Task) error {
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()

	rc := redisclient.Get()
	if err := rc.Set(taskKey(t.ID), t, 0).Err(); err != nil {
		return fmt.Errorf("store task: %w", err)
	}
	if err := rc.SAdd(userKey(t.UserID), t.ID).Err(); err != nil {
		return fmt.Errorf("index task: %w", err)
	}
	return nil
}

func Get(id string) (*models.Task, error) {
	raw, err := redisclient.Get().Get(taskKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read task %s: %w", id, err)
	}
	var t models.Task
	if err := t.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("decode task %s: %w", id, err)
	}
	return &t, nil
}

// Update applies an allow-listed field update and stores the result.
func Update(id string, u models.TaskUpdate) (*models.Task, error) {
	t, err := Get(id)
	if err != nil {
		return nil, err
	}
	ApplyUpdate(t, u)
	if err := redisclient.Get().Set(taskKey(id), t, 0).Err(); err != nil {
		return nil, fmt.Errorf("store task %s: %w", id, err)
	}
	return t, nil
}

func Delete(id, userID string) error {
	rc := redisclient.Get()
	if err := rc.Del(taskKey(id)).Err(); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if err := rc.SRem(userKey(userID), id).Err(); err != nil {
		return fmt.Errorf("unindex task %s: %w", id, err)
	}
	return nil
}

// ListByUser returns the user's tasks. Index entries whose task record is
// gone are skipped.
func ListByUser(userID string) ([]models.Task, error) {
	ids, err := redisclient.Get().SMembers(userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list tasks for %s: %w", userID, err)
	}

	tasks := make([]models.Task, 0, len(ids))
	for _, id := range ids {
		t, err := Get(id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

// ApplyUpdate copies the set fields of u onto t. Only the fields named by
// TaskUpdate can change; everything else on the task is untouchable from an
// update request.
func ApplyUpdate(t *models.Task, u models.TaskUpdate) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.DueDate != nil {
		t.DueDate = u.DueDate
	}
	if u.TaskType != nil {
		t.TaskType = *u.TaskType
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
}
