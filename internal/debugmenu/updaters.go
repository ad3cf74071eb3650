package debugmenu

import "exposure-debugpanel/internal/domain"

// ToggleForceUpdate flips the simulated force update requirement.
type ToggleForceUpdate struct{}

func (ToggleForceUpdate) ActionName() string { return "debug.toggleForceUpdate" }

func (ToggleForceUpdate) Update(state *domain.AppState) {
	state.Toggles.MustShowForceUpdate = !state.Toggles.MustShowForceUpdate
}

// ToggleDebugNotifications flips the push notification debug mode.
type ToggleDebugNotifications struct{}

func (ToggleDebugNotifications) ActionName() string { return "debug.toggleDebugNotifications" }

func (ToggleDebugNotifications) Update(state *domain.AppState) {
	state.Toggles.IsPushNotificationDebugMode = !state.Toggles.IsPushNotificationDebugMode
}

// ToggleBackgroundTaskDebugMode flips the background task debug notification.
type ToggleBackgroundTaskDebugMode struct{}

func (ToggleBackgroundTaskDebugMode) ActionName() string { return "debug.toggleBackgroundTaskDebugMode" }

func (ToggleBackgroundTaskDebugMode) Update(state *domain.AppState) {
	state.Toggles.IsBackgroundTaskDebugMode = !state.Toggles.IsBackgroundTaskDebugMode
}
