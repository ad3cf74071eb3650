package domain

import (
	"context"
	"time"
)

// StateRepository is a secondary port that persists the application state.
type StateRepository interface {
	Load() (AppState, error)
	Save(state AppState) error
}

// PushNotifier schedules and lists local notifications.
type PushNotifier interface {
	ScheduleLocalNotification(ctx context.Context, content LocalNotification, trigger NotificationTrigger) error
	ScheduledNotificationIDs(ctx context.Context) ([]string, error)
}

// ExposureNotifier is the exposure notification framework facade.
type ExposureNotifier interface {
	AuthorizeAndStart(ctx context.Context) error
	DiagnosisKeys(ctx context.Context) ([]DiagnosisKey, error)
}

// ConfigurationProvider downloads the remote configuration.
type ConfigurationProvider interface {
	FetchConfiguration(ctx context.Context) (Configuration, error)
}

// ExposureDetector runs one detection over the downloaded positive keys.
type ExposureDetector interface {
	Detect(ctx context.Context, cfg Configuration) (DetectionResult, error)
}

// Presenter shows alerts and screens to the user.
type Presenter interface {
	ShowAlert(ctx context.Context, alert Alert) error
	ShowScreen(ctx context.Context, screen Screen) error
	HideScreen(ctx context.Context, id ScreenID) error
}

// AnalyticsSender delivers operational info.
type AnalyticsSender interface {
	SendOperationalInfo(ctx context.Context, info OperationalInfo) error
}

// Housekeeper wipes local data.
type Housekeeper interface {
	ResetKeychain(ctx context.Context) error
	CleanApp(ctx context.Context) error
}

// Terminator ends the process. Terminate is not expected to return in
// production; callers must stop their work right after calling it.
type Terminator interface {
	Terminate(reason string)
}

// Dependencies is the bundle of platform services handed to side effects.
type Dependencies struct {
	PushNotifications     PushNotifier
	ExposureNotifications ExposureNotifier
	Configuration         ConfigurationProvider
	Detector              ExposureDetector
	Presenter             Presenter
	Analytics             AnalyticsSender
	Housekeeper           Housekeeper
	Terminator            Terminator
	Capabilities          Capabilities

	// RestartDelay is waited before a deliberate restart so that the last
	// state commit reaches the repository.
	RestartDelay time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Clock returns Now or time.Now.
func (d *Dependencies) Clock() time.Time {
	if d == nil || d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
