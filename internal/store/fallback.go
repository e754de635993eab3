package store

import (
	"context"
	"errors"
	"log"
	"sync/atomic"

	"TaskCanvas/internal/graphql"
)

// Fallback sends calls to Primary until one fails at the transport level,
// then serves every later call from Secondary. GraphQL errors from a
// reachable service are returned as they are.
type Fallback struct {
	Primary   Service
	Secondary Service

	offline atomic.Bool
}

var _ Service = (*Fallback)(nil)

func NewFallback(primary, secondary Service) *Fallback {
	return &Fallback{Primary: primary, Secondary: secondary}
}

// Offline reports whether the secondary is in use.
func (f *Fallback) Offline() bool { return f.offline.Load() }

func (f *Fallback) pick() Service {
	if f.offline.Load() {
		return f.Secondary
	}
	return f.Primary
}

func (f *Fallback) failed(op string, err error) bool {
	if !graphql.IsNetwork(err) || errors.Is(err, ErrNotFound) {
		return false
	}
	if !f.offline.CompareAndSwap(false, true) {
		return false
	}
	log.Printf("[STORE] %s failed, switching to local data: %v", op, err)
	return true
}

func (f *Fallback) Create(ctx context.Context, taskID, name, data string) (*Canvas, error) {
	c, err := f.pick().Create(ctx, taskID, name, data)
	if err != nil && ctx.Err() == nil && f.failed("create", err) {
		return f.Secondary.Create(ctx, taskID, name, data)
	}
	return c, err
}

func (f *Fallback) Update(ctx context.Context, id string, name, data *string) (*Canvas, error) {
	c, err := f.pick().Update(ctx, id, name, data)
	if err != nil && ctx.Err() == nil && f.failed("update", err) {
		return f.Secondary.Update(ctx, id, name, data)
	}
	return c, err
}

func (f *Fallback) List(ctx context.Context, taskID string) ([]Canvas, error) {
	cs, err := f.pick().List(ctx, taskID)
	if err != nil && ctx.Err() == nil && f.failed("list", err) {
		return f.Secondary.List(ctx, taskID)
	}
	return cs, err
}
