package core

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"exposure-debugpanel/internal/domain"
)

// Context is handed to a running side effect. Side effects it dispatches are
// queued and run one after another in dispatch order.
type Context struct {
	store *Store

	mu       sync.Mutex
	queue    []SideEffect
	draining bool
}

func newContext(s *Store) *Context {
	return &Context{store: s}
}

// GetState returns a snapshot of the current state.
func (c *Context) GetState() domain.AppState {
	return c.store.GetState()
}

// Dependencies returns the platform services.
func (c *Context) Dependencies() *domain.Dependencies {
	return c.store.deps
}

// Dispatch applies an updater before returning or queues a side effect.
// Failures are logged; use AwaitDispatch when the outcome matters.
func (c *Context) Dispatch(action Action) {
	switch a := action.(type) {
	case Updater:
		if err := c.store.apply(a); err != nil {
			c.store.log.Warn("dispatch", zap.String("action", a.ActionName()), zap.Error(err))
		}
	case SideEffect:
		c.enqueue(a)
	default:
		c.store.log.Error("dispatch", zap.Error(domain.ErrUnknownAction))
	}
}

// AwaitDispatch dispatches action and waits for its completion.
func (c *Context) AwaitDispatch(ctx context.Context, action Action) error {
	return c.store.AwaitDispatch(ctx, action)
}

func (c *Context) enqueue(effect SideEffect) {
	ctx, err := c.store.running()
	if err != nil {
		c.store.log.Warn("dispatch", zap.String("action", effect.ActionName()), zap.Error(err))
		return
	}
	c.store.inflight.Add(1)

	c.mu.Lock()
	c.queue = append(c.queue, effect)
	if c.draining {
		c.mu.Unlock()
		return
	}
	c.draining = true
	c.mu.Unlock()

	go c.drain(ctx)
}

func (c *Context) drain(ctx context.Context) {
	for {
		c.mu.Lock()
		if len(c.queue) == 0 {
			c.draining = false
			c.mu.Unlock()
			return
		}
		next := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()

		c.store.run(ctx, next)
		c.store.inflight.Done()
	}
}
