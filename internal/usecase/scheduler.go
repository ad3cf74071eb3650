package usecase

import (
	"context"
	"errors"
	"time"

	"exposure-debugpanel/internal/core"
	"exposure-debugpanel/internal/domain"
	"exposure-debugpanel/internal/logging"
)

// Dispatcher is the part of the store the scheduler needs.
type Dispatcher interface {
	Dispatch(action core.Action) error
}

// BackgroundDetection periodically dispatches a background exposure
// detection, emulating the OS background task.
type BackgroundDetection struct {
	dispatcher Dispatcher
	interval   time.Duration
}

// NewBackgroundDetection creates the scheduler.
func NewBackgroundDetection(dispatcher Dispatcher, interval time.Duration) (*BackgroundDetection, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if interval <= 0 {
		return nil, errors.New("interval must be >0")
	}
	return &BackgroundDetection{dispatcher: dispatcher, interval: interval}, nil
}

// Start begins the scheduler loop until ctx is cancelled.
func (b *BackgroundDetection) Start(ctx context.Context) {
	go b.loop(ctx)
}

func (b *BackgroundDetection) loop(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logging.Tracef("background task fired")
			action := PerformExposureDetectionIfNecessary{Trigger: domain.TriggerBackground}
			if err := b.dispatcher.Dispatch(action); err != nil {
				logging.Warnf("background detection: %v", err)
			}
		}
	}
}
