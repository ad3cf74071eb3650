package debugmenu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposure-debugpanel/internal/domain"
	"exposure-debugpanel/internal/testutil"
	"exposure-debugpanel/internal/usecase"
)

func labels(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

func TestBuildDefaultMenu(t *testing.T) {
	items := Build(domain.DefaultState(), domain.Capabilities{ExposureNotification: true}, testutil.Now)

	assert.Equal(t, []string{
		"🔎 State Explorer",
		"🔓 Reset Keychain",
		"💥 Clean App",
		"⛔️ Simulate Force Update necessary",
		"📧 Send App Force Update notification in 5 sec",
		"🔔 Show Scheduled Notifications",
		"🔔 Enable Debug Notifications",
		"🔑 Show TEKs",
		"🔬 Perform exposure detection",
		"📌 Show past exposure detections",
		"📫 Activate background task notification",
		"🎮 [Status] Simulate Contact (RISK)",
		"🎮 [Status] Simulate Data Upload",
		"🎮 [Status] Simulate Alert Dismissal",
		"🎮 [Status] Simulate Recover Confirmed",
		"[Analytics] Trigger send without exposure logic",
		"[Analytics] Trigger send with exposure logic",
	}, labels(items))
}

func TestBuildCapabilityGate(t *testing.T) {
	with := Build(domain.DefaultState(), domain.Capabilities{ExposureNotification: true}, testutil.Now)
	without := Build(domain.DefaultState(), domain.Capabilities{}, testutil.Now)

	require.Len(t, with, len(without)+4)
	assert.Equal(t, labels(without[:7]), labels(with[:7]))
	assert.Equal(t, labels(without[7:]), labels(with[11:]))
	for _, it := range without {
		switch it.Action.(type) {
		case ShowDiagnosisKeys, PerformExposureDetection, ShowPastExposureDetections, ToggleBackgroundTaskDebugMode:
			t.Errorf("exposure item %q present without capability", it.Label)
		}
	}
}

func TestBuildLabelsFollowToggles(t *testing.T) {
	state := domain.DefaultState()
	state.Toggles = domain.Toggles{
		MustShowForceUpdate:         true,
		IsPushNotificationDebugMode: true,
		IsBackgroundTaskDebugMode:   true,
	}
	got := labels(Build(state, domain.Capabilities{ExposureNotification: true}, testutil.Now))

	assert.Contains(t, got, "⛔️ Simulate Force Update not necessary")
	assert.Contains(t, got, "🔔 Disable Debug Notifications")
	assert.Contains(t, got, "📫 Deactivate background task notification")
}

func TestBuildStatusItemsUseToday(t *testing.T) {
	items := Build(domain.DefaultState(), domain.Capabilities{}, testutil.Now)
	today := domain.CalendarDayOf(testutil.Now)

	contact := items[7].Action.(usecase.UpdateStatusWithEvent)
	assert.Equal(t, domain.ContactDetected(today), contact.Event)
	upload := items[8].Action.(usecase.UpdateStatusWithEvent)
	assert.Equal(t, domain.DataUpload(today), upload.Event)

	assert.Equal(t, usecase.SendOperationalInfoIfNeeded{}, items[11].Action)
	assert.Equal(t, usecase.SendOperationalInfoIfNeeded{WithExposure: true}, items[12].Action)
}

func TestTogglesAreIndependentInvolutions(t *testing.T) {
	tests := []struct {
		name    string
		updater interface{ Update(*domain.AppState) }
		flag    func(domain.Toggles) bool
	}{
		{"force update", ToggleForceUpdate{}, func(t domain.Toggles) bool { return t.MustShowForceUpdate }},
		{"debug notifications", ToggleDebugNotifications{}, func(t domain.Toggles) bool { return t.IsPushNotificationDebugMode }},
		{"background task", ToggleBackgroundTaskDebugMode{}, func(t domain.Toggles) bool { return t.IsBackgroundTaskDebugMode }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := domain.DefaultState()
			before := state.Clone()

			tt.updater.Update(&state)
			assert.True(t, tt.flag(state.Toggles))
			flipped := state.Clone()
			flipped.Toggles = before.Toggles
			assert.Equal(t, before, flipped, "only the toggled flag may change")

			tt.updater.Update(&state)
			assert.Equal(t, before, state)
		})
	}
}
