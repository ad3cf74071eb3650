package core

import (
	"context"

	"exposure-debugpanel/internal/domain"
)

// Action is anything that can be dispatched to the store.
// Concrete actions implement either Updater or SideEffect.
type Action interface {
	ActionName() string
}

// Updater is a synchronous, atomic state transition.
// Update must be a total function over valid states and must not block.
type Updater interface {
	Action
	Update(state *domain.AppState)
}

// SideEffect is an asynchronous workflow. It reads state and dispatches
// further actions through ec. A returned error is only logged by the store;
// effects that face the user are expected to report failures themselves.
type SideEffect interface {
	Action
	SideEffect(ctx context.Context, ec *Context) error
}

type updaterFunc struct {
	name string
	fn   func(*domain.AppState)
}

func (u updaterFunc) ActionName() string            { return u.name }
func (u updaterFunc) Update(state *domain.AppState) { u.fn(state) }

// NewUpdater wraps fn as a named Updater.
func NewUpdater(name string, fn func(*domain.AppState)) Updater {
	return updaterFunc{name: name, fn: fn}
}

type sideEffectFunc struct {
	name string
	fn   func(context.Context, *Context) error
}

func (s sideEffectFunc) ActionName() string { return s.name }
func (s sideEffectFunc) SideEffect(ctx context.Context, ec *Context) error {
	return s.fn(ctx, ec)
}

// NewSideEffect wraps fn as a named SideEffect.
func NewSideEffect(name string, fn func(context.Context, *Context) error) SideEffect {
	return sideEffectFunc{name: name, fn: fn}
}
