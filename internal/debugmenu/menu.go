// Package debugmenu builds the diagnostic menu and implements the workflows
// its items dispatch.
package debugmenu

import (
	"time"

	"exposure-debugpanel/internal/core"
	"exposure-debugpanel/internal/domain"
	"exposure-debugpanel/internal/usecase"
)

// Item is one menu entry.
type Item struct {
	Label  string
	Action core.Action
}

// Build returns the menu for state. Labels show the current value of the
// toggle an item flips. Exposure notification tools are left out entirely
// when the platform lacks the capability.
func Build(state domain.AppState, caps domain.Capabilities, now time.Time) []Item {
	toggles := state.Toggles

	items := []Item{
		{Label: "🔎 State Explorer", Action: ShowStateExplorer{}},
		{Label: "🔓 Reset Keychain", Action: ResetKeychain{}},
		{Label: "💥 Clean App", Action: CleanApp{}},
		{
			Label:  "⛔️ Simulate Force Update " + pick(toggles.MustShowForceUpdate, "not necessary", "necessary"),
			Action: ToggleForceUpdateAndRestart{},
		},
		{Label: "📧 Send App Force Update notification in 5 sec", Action: SimulateForceUpdateNotification{}},
		{Label: "🔔 Show Scheduled Notifications", Action: ShowScheduledNotifications{}},
		{
			Label:  "🔔 " + pick(toggles.IsPushNotificationDebugMode, "Disable", "Enable") + " Debug Notifications",
			Action: ToggleDebugNotifications{},
		},
	}

	if caps.ExposureNotification {
		items = append(items,
			Item{Label: "🔑 Show TEKs", Action: ShowDiagnosisKeys{}},
			Item{Label: "🔬 Perform exposure detection", Action: PerformExposureDetection{}},
			Item{Label: "📌 Show past exposure detections", Action: ShowPastExposureDetections{}},
			Item{
				Label:  "📫 " + pick(toggles.IsBackgroundTaskDebugMode, "Deactivate", "Activate") + " background task notification",
				Action: ToggleBackgroundTaskDebugMode{},
			},
		)
	}

	today := domain.CalendarDayOf(now)
	items = append(items,
		Item{
			Label:  "🎮 [Status] Simulate Contact (RISK)",
			Action: usecase.UpdateStatusWithEvent{Event: domain.ContactDetected(today)},
		},
		Item{
			Label:  "🎮 [Status] Simulate Data Upload",
			Action: usecase.UpdateStatusWithEvent{Event: domain.DataUpload(today)},
		},
		Item{
			Label:  "🎮 [Status] Simulate Alert Dismissal",
			Action: usecase.UpdateStatusWithEvent{Event: domain.StatusEvent{Kind: domain.EventAlertDismissal}},
		},
		Item{
			Label:  "🎮 [Status] Simulate Recover Confirmed",
			Action: usecase.UpdateStatusWithEvent{Event: domain.StatusEvent{Kind: domain.EventRecoverConfirmed}},
		},
	)

	items = append(items,
		Item{Label: "[Analytics] Trigger send without exposure logic", Action: usecase.SendOperationalInfoIfNeeded{}},
		Item{Label: "[Analytics] Trigger send with exposure logic", Action: usecase.SendOperationalInfoIfNeeded{WithExposure: true}},
	)

	return items
}

func pick(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
