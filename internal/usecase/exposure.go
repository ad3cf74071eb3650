package usecase

import (
	"context"
	"errors"
	"fmt"

	"exposure-debugpanel/internal/core"
	"exposure-debugpanel/internal/domain"
	"exposure-debugpanel/internal/logging"
)

// RefreshConfiguration downloads the remote configuration and stores it.
type RefreshConfiguration struct{}

func (RefreshConfiguration) ActionName() string { return "configuration.refresh" }

func (RefreshConfiguration) SideEffect(ctx context.Context, ec *core.Context) error {
	deps := ec.Dependencies()
	cfg, err := deps.Configuration.FetchConfiguration(ctx)
	if err != nil {
		return fmt.Errorf("fetch configuration: %w", err)
	}
	fetchedAt := deps.Clock()
	cfg.FetchedAt = &fetchedAt
	return ec.AwaitDispatch(ctx, SetConfiguration{Configuration: cfg})
}

// SetConfiguration replaces the configuration snapshot.
type SetConfiguration struct {
	Configuration domain.Configuration
}

func (SetConfiguration) ActionName() string { return "configuration.set" }

func (a SetConfiguration) Update(state *domain.AppState) {
	state.Configuration = a.Configuration
}

// PerformExposureDetectionIfNecessary runs a detection when the configured
// period has elapsed, or unconditionally when ForceRun is set. The result is
// appended to the detection history.
type PerformExposureDetectionIfNecessary struct {
	Trigger  domain.DetectionTrigger
	ForceRun bool
}

func (PerformExposureDetectionIfNecessary) ActionName() string {
	return "exposure.performDetectionIfNecessary"
}

func (a PerformExposureDetectionIfNecessary) SideEffect(ctx context.Context, ec *core.Context) error {
	deps := ec.Dependencies()
	if !deps.Capabilities.ExposureNotification {
		return domain.ErrNotSupported
	}
	state := ec.GetState()
	now := deps.Clock()
	if !a.ForceRun && !domain.DetectionNeeded(state.ExposureDetection, state.Configuration, now) {
		logging.Debugf("exposure detection (%s) not necessary yet", a.Trigger)
		return nil
	}

	result, err := deps.Detector.Detect(ctx, state.Configuration)
	if errors.Is(err, domain.ErrDetectionDeclined) {
		logging.Infof("exposure detection (%s) declined by the detector", a.Trigger)
		return nil
	}
	if err != nil {
		return fmt.Errorf("exposure detection: %w", err)
	}
	if result.Date.IsZero() {
		result.Date = now
	}
	if err := ec.AwaitDispatch(ctx, RecordDetection{Result: result}); err != nil {
		return err
	}
	logging.Infof("exposure detection (%s) completed, matched=%t", a.Trigger, result.Matched())

	if result.Matched() {
		contact := result.Date.AddDate(0, 0, -result.Summary.DaysSinceLastExposure)
		ec.Dispatch(UpdateStatusWithEvent{Event: domain.ContactDetected(domain.CalendarDayOf(contact))})
	}

	if a.Trigger == domain.TriggerBackground && state.Toggles.IsBackgroundTaskDebugMode {
		note := domain.LocalNotification{
			Title:      "Background detection",
			Body:       fmt.Sprintf("Detection at %s, matched: %t", result.Date.UTC().Format("2006-01-02@15:04"), result.Matched()),
			Identifier: "debug.backgroundTask",
		}
		if err := deps.PushNotifications.ScheduleLocalNotification(ctx, note, domain.NotificationTrigger{}); err != nil {
			logging.Warnf("schedule background debug notification: %v", err)
		}
	}
	return nil
}

// RecordDetection appends a result and advances the last detection date.
type RecordDetection struct {
	Result domain.DetectionResult
}

func (RecordDetection) ActionName() string { return "exposure.recordDetection" }

func (a RecordDetection) Update(state *domain.AppState) {
	det := &state.ExposureDetection
	det.PreviousDetectionResults = append(det.PreviousDetectionResults, a.Result)
	if det.LastDetectionDate == nil || det.LastDetectionDate.Before(a.Result.Date) {
		d := a.Result.Date
		det.LastDetectionDate = &d
	}
}
