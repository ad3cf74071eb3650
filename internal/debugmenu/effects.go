package debugmenu

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"exposure-debugpanel/internal/core"
	"exposure-debugpanel/internal/domain"
	"exposure-debugpanel/internal/logging"
	"exposure-debugpanel/internal/usecase"
)

const (
	// ForceUpdateNotificationID identifies the "update required" notification.
	ForceUpdateNotificationID = "forceUpdate.requiredUpdateApp"
	// ForceUpdateNotificationDelay is how long the simulated notification waits.
	ForceUpdateNotificationDelay = 5 * time.Second
)

func report(ec *core.Context, title, message string) {
	ec.Dispatch(usecase.ShowAlert{Alert: usecase.OKAlert(title, message)})
}

func errorAlert(err error) domain.Alert {
	return usecase.OKAlert("Error", DescribeError(err))
}

// ToggleForceUpdateAndRestart flips the force update flag, gives the store
// time to persist it and then ends the process to emulate a cold start.
type ToggleForceUpdateAndRestart struct{}

func (ToggleForceUpdateAndRestart) ActionName() string { return "debug.toggleForceUpdateAndRestart" }

func (ToggleForceUpdateAndRestart) SideEffect(ctx context.Context, ec *core.Context) error {
	if err := ec.AwaitDispatch(ctx, ToggleForceUpdate{}); err != nil {
		return err
	}
	deps := ec.Dependencies()
	if deps.RestartDelay > 0 {
		timer := time.NewTimer(deps.RestartDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	deps.Terminator.Terminate("Restart app")
	return nil
}

// SimulateForceUpdateNotification schedules the force update notification.
type SimulateForceUpdateNotification struct{}

func (SimulateForceUpdateNotification) ActionName() string {
	return "debug.simulateForceUpdateNotification"
}

func (SimulateForceUpdateNotification) SideEffect(ctx context.Context, ec *core.Context) error {
	content := domain.LocalNotification{
		Title:      "Update the app",
		Body:       "A new version is required to keep the app working.",
		UserInfo:   map[string]string{},
		Identifier: ForceUpdateNotificationID,
	}
	trigger := domain.NotificationTrigger{Interval: ForceUpdateNotificationDelay}
	if err := ec.Dependencies().PushNotifications.ScheduleLocalNotification(ctx, content, trigger); err != nil {
		ec.Dispatch(usecase.ShowAlert{Alert: errorAlert(err)})
	}
	return nil
}

// ShowScheduledNotifications reports the pending local notifications.
type ShowScheduledNotifications struct{}

func (ShowScheduledNotifications) ActionName() string { return "debug.showScheduledNotifications" }

func (ShowScheduledNotifications) SideEffect(ctx context.Context, ec *core.Context) error {
	ids, err := ec.Dependencies().PushNotifications.ScheduledNotificationIDs(ctx)
	if err != nil {
		ec.Dispatch(usecase.ShowAlert{Alert: errorAlert(err)})
		return nil
	}
	report(ec, "Scheduled Notifications", "Scheduled:\n"+FormatScheduledIDs(ids))
	return nil
}

// ShowDiagnosisKeys reports the device's temporary exposure keys.
type ShowDiagnosisKeys struct{}

func (ShowDiagnosisKeys) ActionName() string { return "debug.showDiagnosisKeys" }

func (ShowDiagnosisKeys) SideEffect(ctx context.Context, ec *core.Context) error {
	en := ec.Dependencies().ExposureNotifications
	if err := en.AuthorizeAndStart(ctx); err != nil {
		ec.Dispatch(usecase.ShowAlert{Alert: errorAlert(fmt.Errorf("authorize: %w", err))})
		return nil
	}
	keys, err := en.DiagnosisKeys(ctx)
	if err != nil {
		ec.Dispatch(usecase.ShowAlert{Alert: errorAlert(fmt.Errorf("retrieve keys: %w", err))})
		return nil
	}
	report(ec, "Success", FormatDiagnosisKeys(keys))
	return nil
}

// PerformExposureDetection forces a full detection and reports its result.
// A successful run that leaves no result in state is an internal
// inconsistency and terminates the process.
type PerformExposureDetection struct{}

func (PerformExposureDetection) ActionName() string { return "debug.performExposureDetection" }

func (PerformExposureDetection) SideEffect(ctx context.Context, ec *core.Context) error {
	deps := ec.Dependencies()
	loading := domain.Screen{ID: domain.ScreenLoading, Message: "Loading"}
	if err := ec.AwaitDispatch(ctx, usecase.ShowScreen{Screen: loading}); err != nil {
		logging.Warnf("show loading screen: %v", err)
	}

	var alert domain.Alert
	if err := detect(ctx, ec); err != nil {
		alert = errorAlert(err)
	} else {
		result, ok := domain.LatestDetection(ec.GetState().ExposureDetection)
		if !ok {
			deps.Terminator.Terminate(domain.ErrNoDetectionResult.Error())
			return domain.ErrNoDetectionResult
		}
		alert = usecase.OKAlert("Completed", "Exposure Detection result:\n"+DescribeResult(result))
	}

	if err := ec.AwaitDispatch(ctx, usecase.HideScreen{ID: domain.ScreenLoading}); err != nil {
		logging.Warnf("hide loading screen: %v", err)
	}
	ec.Dispatch(usecase.ShowAlert{Alert: alert})
	return nil
}

func detect(ctx context.Context, ec *core.Context) error {
	if err := ec.Dependencies().ExposureNotifications.AuthorizeAndStart(ctx); err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	if err := ec.AwaitDispatch(ctx, usecase.RefreshConfiguration{}); err != nil {
		return err
	}
	return ec.AwaitDispatch(ctx, usecase.PerformExposureDetectionIfNecessary{Trigger: domain.TriggerForeground, ForceRun: true})
}

// ShowPastExposureDetections reports the detection history.
type ShowPastExposureDetections struct{}

func (ShowPastExposureDetections) ActionName() string { return "debug.showPastExposureDetections" }

func (ShowPastExposureDetections) SideEffect(_ context.Context, ec *core.Context) error {
	report(ec, "Result", FormatPastDetections(ec.GetState().ExposureDetection))
	return nil
}

// ShowStateExplorer shows the whole state tree.
type ShowStateExplorer struct{}

func (ShowStateExplorer) ActionName() string { return "debug.showStateExplorer" }

func (ShowStateExplorer) SideEffect(ctx context.Context, ec *core.Context) error {
	data, err := json.MarshalIndent(ec.GetState(), "", "  ")
	if err != nil {
		ec.Dispatch(usecase.ShowAlert{Alert: errorAlert(err)})
		return nil
	}
	screen := domain.Screen{ID: domain.ScreenStateExplorer, Message: string(data)}
	return ec.AwaitDispatch(ctx, usecase.ShowScreen{Screen: screen})
}

// ResetKeychain wipes the stored secrets.
type ResetKeychain struct{}

func (ResetKeychain) ActionName() string { return "debug.resetKeychain" }

func (ResetKeychain) SideEffect(ctx context.Context, ec *core.Context) error {
	if err := ec.Dependencies().Housekeeper.ResetKeychain(ctx); err != nil {
		ec.Dispatch(usecase.ShowAlert{Alert: errorAlert(err)})
		return nil
	}
	report(ec, "Keychain", "Keychain reset")
	return nil
}

// CleanApp removes every local file and ends the process.
type CleanApp struct{}

func (CleanApp) ActionName() string { return "debug.cleanApp" }

func (CleanApp) SideEffect(ctx context.Context, ec *core.Context) error {
	deps := ec.Dependencies()
	if err := deps.Housekeeper.CleanApp(ctx); err != nil {
		ec.Dispatch(usecase.ShowAlert{Alert: errorAlert(err)})
		return nil
	}
	deps.Terminator.Terminate("App cleaned")
	return nil
}
