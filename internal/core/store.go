package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"exposure-debugpanel/internal/domain"
	"exposure-debugpanel/internal/logging"
)

// Store owns the application state and dispatches actions.
// Updaters are applied one at a time by a single loop goroutine; side effects
// run on their own goroutines and come back to the store to mutate state.
type Store struct {
	repo domain.StateRepository
	deps *domain.Dependencies
	log  *zap.Logger

	mu    sync.RWMutex
	state domain.AppState

	updateCh  chan updateRequest
	startOnce sync.Once
	started   chan struct{}
	ctx       context.Context
	inflight  sync.WaitGroup
}

type updateRequest struct {
	updater Updater
	doneCh  chan struct{}
}

// NewStore loads the persisted state and prepares the store.
// repo may be nil, in which case the state starts from defaults and is not persisted.
func NewStore(repo domain.StateRepository, deps *domain.Dependencies) (*Store, error) {
	if deps == nil {
		return nil, errors.New("dependencies are required")
	}
	state := domain.DefaultState()
	if repo != nil {
		loaded, err := repo.Load()
		if err != nil {
			return nil, fmt.Errorf("load state: %w", err)
		}
		state = loaded
	}
	return &Store{
		repo:     repo,
		deps:     deps,
		log:      logging.L().Named("store"),
		state:    state,
		updateCh: make(chan updateRequest),
		started:  make(chan struct{}),
	}, nil
}

// Start launches the update loop until ctx is cancelled.
func (s *Store) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.ctx = ctx
		close(s.started)
		go s.loop(ctx)
	})
}

func (s *Store) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-s.updateCh:
			s.mu.Lock()
			next := s.state.Clone()
			req.updater.Update(&next)
			s.state = next
			snapshot := next.Clone()
			s.mu.Unlock()

			s.log.Debug("state updated", zap.String("action", req.updater.ActionName()))
			s.persist(snapshot)
			close(req.doneCh)
		}
	}
}

func (s *Store) persist(state domain.AppState) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(state); err != nil {
		s.log.Error("persist state", zap.Error(err))
	}
}

// GetState returns a snapshot of the current state.
func (s *Store) GetState() domain.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Dependencies returns the dependency bundle handed to side effects.
func (s *Store) Dependencies() *domain.Dependencies {
	return s.deps
}

// Dispatch applies an updater before returning, or schedules a side effect
// and returns immediately.
func (s *Store) Dispatch(action Action) error {
	switch a := action.(type) {
	case Updater:
		return s.apply(a)
	case SideEffect:
		ctx, err := s.running()
		if err != nil {
			return err
		}
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			s.run(ctx, a)
		}()
		return nil
	default:
		return fmt.Errorf("%w: %T", domain.ErrUnknownAction, action)
	}
}

// AwaitDispatch dispatches action and waits for it to complete.
// For side effects the workflow's own error is returned.
func (s *Store) AwaitDispatch(ctx context.Context, action Action) error {
	switch a := action.(type) {
	case Updater:
		return s.apply(a)
	case SideEffect:
		if _, err := s.running(); err != nil {
			return err
		}
		return s.invoke(ctx, a, newContext(s))
	default:
		return fmt.Errorf("%w: %T", domain.ErrUnknownAction, action)
	}
}

// Wait blocks until every dispatched side effect, including the ones they
// queued, has finished.
func (s *Store) Wait() {
	s.inflight.Wait()
}

func (s *Store) running() (context.Context, error) {
	select {
	case <-s.started:
	default:
		return nil, domain.ErrStoreNotStarted
	}
	if s.ctx.Err() != nil {
		return nil, domain.ErrStoreStopped
	}
	return s.ctx, nil
}

func (s *Store) apply(u Updater) error {
	ctx, err := s.running()
	if err != nil {
		return err
	}
	req := updateRequest{updater: u, doneCh: make(chan struct{})}
	select {
	case s.updateCh <- req:
	case <-ctx.Done():
		return domain.ErrStoreStopped
	}
	<-req.doneCh
	return nil
}

func (s *Store) run(ctx context.Context, effect SideEffect) {
	if err := s.invoke(ctx, effect, newContext(s)); err != nil {
		s.log.Warn("side effect failed",
			zap.String("action", effect.ActionName()),
			zap.Error(err),
		)
	}
}

func (s *Store) invoke(ctx context.Context, effect SideEffect, ec *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("side effect %s panicked: %v", effect.ActionName(), r)
		}
	}()
	s.log.Debug("side effect started", zap.String("action", effect.ActionName()))
	return effect.SideEffect(ctx, ec)
}
