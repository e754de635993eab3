package store

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"TaskCanvas/internal/drawing"
	"TaskCanvas/internal/raster"

	"github.com/google/uuid"
)

// ThumbnailWidth is the width of thumbnails rendered by Memory.
const ThumbnailWidth = 200

// Memory keeps canvases in process. It stands in for the canvas service
// when none is reachable and backs the dev server.
type Memory struct {
	mu       sync.RWMutex
	canvases map[string]*Canvas
	now      func() time.Time
	width    int
	height   int
}

var _ Service = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		canvases: make(map[string]*Canvas),
		now:      time.Now,
		width:    drawing.CanvasWidth,
		height:   drawing.CanvasHeight,
	}
}

func (m *Memory) Create(ctx context.Context, taskID, name, data string) (*Canvas, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if taskID == "" {
		return nil, fmt.Errorf("create canvas: task id required")
	}
	now := m.now()
	c := &Canvas{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Name:      name,
		DataJSON:  data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.Thumbnail = m.thumbnail(data)

	m.mu.Lock()
	m.canvases[c.ID] = c
	m.mu.Unlock()
	log.Printf("[STORE] Created canvas %s for task %s", c.ID, taskID)

	out := *c
	return &out, nil
}

func (m *Memory) Update(ctx context.Context, id string, name, data *string) (*Canvas, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var thumb string
	if data != nil {
		thumb = m.thumbnail(*data)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.canvases[id]
	if !ok {
		return nil, ErrNotFound
	}
	if name != nil {
		c.Name = *name
	}
	if data != nil {
		c.DataJSON = *data
		c.Thumbnail = thumb
	}
	c.UpdatedAt = m.now()
	out := *c
	return &out, nil
}

func (m *Memory) List(ctx context.Context, taskID string) ([]Canvas, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Canvas{}
	for _, c := range m.canvases {
		if c.TaskID == taskID {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) thumbnail(data string) string {
	thumb, err := raster.Thumbnail(drawing.Load(data), m.width, m.height, ThumbnailWidth)
	if err != nil {
		log.Printf("[STORE] Thumbnail failed: %v", err)
		return ""
	}
	return thumb
}

// SeedMockData adds the sample canvases the app shows when it runs without
// a service.
func (m *Memory) SeedMockData() {
	ctx := context.Background()
	m.Create(ctx, "task1", "Homepage wireframe", `[`+
		`{"id":"1","type":"rectangle","x":40,"y":40,"width":720,"height":80,"color":"#3b82f6"},`+
		`{"id":"2","type":"text","x":60,"y":90,"text":"Header","color":"#3b82f6"},`+
		`{"id":"3","type":"rectangle","x":40,"y":150,"width":460,"height":380,"color":"#3b82f6"},`+
		`{"id":"4","type":"circle","x":640,"y":260,"radius":80,"color":"#3b82f6"}]`)
	m.Create(ctx, "task3", "Mockup notes", `[`+
		`{"id":"1","type":"path","x":100,"y":100,"color":"#ffeb3b","points":[{"x":100,"y":100},{"x":400,"y":110}],"lineWidth":15,"kind":"highlighter","layer":"behind"},`+
		`{"id":"2","type":"text","x":100,"y":105,"text":"Revisit spacing","color":"#3b82f6"}]`)
}
