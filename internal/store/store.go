// Package store reads and writes canvases attached to tasks.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a canvas id is unknown.
var ErrNotFound = errors.New("canvas not found")

// Canvas is a named drawing attached to a task. DataJSON holds the encoded
// element list.
type Canvas struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId,omitempty"`
	Name      string    `json:"name"`
	DataJSON  string    `json:"dataJson"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Service is the canvas data API.
type Service interface {
	Create(ctx context.Context, taskID, name, data string) (*Canvas, error)
	// Update changes the fields that are non-nil.
	Update(ctx context.Context, id string, name, data *string) (*Canvas, error)
	// List returns the task's canvases, oldest first.
	List(ctx context.Context, taskID string) ([]Canvas, error)
}
