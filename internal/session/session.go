// Package session binds one editing session to a task: it picks the canvas
// to open and turns a save into an update or a create.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"TaskCanvas/internal/drawing"
	"TaskCanvas/internal/store"
)

type Session struct {
	svc    store.Service
	taskID string

	mu       sync.Mutex
	current  *store.Canvas
	canvases []store.Canvas
}

// Open lists the task's canvases and selects the first one. When the list
// cannot be fetched the session starts a new canvas.
func Open(ctx context.Context, svc store.Service, taskID string) *Session {
	s := &Session{svc: svc, taskID: taskID}
	canvases, err := svc.List(ctx, taskID)
	if err != nil {
		log.Printf("[SESSION] Error fetching canvases for task %s: %v", taskID, err)
		return s
	}
	s.canvases = canvases
	if len(canvases) > 0 {
		c := canvases[0]
		s.current = &c
		log.Printf("[SESSION] Loading canvas %s (%q)", c.ID, c.Name)
	} else {
		log.Printf("[SESSION] Task %s has no canvas, starting a new one", taskID)
	}
	return s
}

func (s *Session) TaskID() string { return s.taskID }

// Canvases is the list fetched when the session opened.
func (s *Session) Canvases() []store.Canvas {
	return append([]store.Canvas(nil), s.canvases...)
}

// CanvasID is empty until the canvas has been stored.
func (s *Session) CanvasID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

// Document is the stored canvas to seed the editor with, or nil for a new one.
func (s *Session) Document() *drawing.Stored {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	return &drawing.Stored{Name: s.current.Name, Data: s.current.DataJSON}
}

// Save updates the open canvas, or creates one and remembers its id. A
// canvas the service no longer knows is created anew.
func (s *Session) Save(ctx context.Context, name, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.ID != "" {
		id := s.current.ID
		log.Printf("[SESSION] Updating canvas %s", id)
		c, err := s.svc.Update(ctx, id, &name, &data)
		if err == nil {
			s.current = c
			log.Printf("[SESSION] Canvas updated successfully")
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("update canvas %s: %w", id, err)
		}
		// The store in use does not know the canvas, e.g. after switching
		// to local data. Keep the edits as a new canvas.
		log.Printf("[SESSION] Canvas %s not found, saving as a new canvas", id)
	}

	log.Printf("[SESSION] Creating new canvas for task %s", s.taskID)
	c, err := s.svc.Create(ctx, s.taskID, name, data)
	if err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}
	s.current = c
	log.Printf("[SESSION] Canvas %s created successfully", c.ID)
	return nil
}

// SaveFunc adapts Save to a surface's OnSave callback.
func (s *Session) SaveFunc(ctx context.Context) func(name, data string) error {
	return func(name, data string) error {
		return s.Save(ctx, name, data)
	}
}
