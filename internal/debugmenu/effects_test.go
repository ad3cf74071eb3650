package debugmenu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposure-debugpanel/internal/core"
	"exposure-debugpanel/internal/domain"
	"exposure-debugpanel/internal/testutil"
)

func startStore(t *testing.T, fakes *testutil.Fakes) *core.Store {
	t.Helper()
	store, err := core.NewStore(nil, fakes.Dependencies())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	store.Start(ctx)
	return store
}

// run awaits action and every side effect it queued.
func run(t *testing.T, store *core.Store, action core.Action) error {
	t.Helper()
	err := store.AwaitDispatch(context.Background(), action)
	store.Wait()
	return err
}

func TestToggleForceUpdateAndRestart(t *testing.T) {
	fakes := testutil.NewFakes()
	store := startStore(t, fakes)

	require.NoError(t, run(t, store, ToggleForceUpdateAndRestart{}))

	state := store.GetState()
	assert.True(t, state.Toggles.MustShowForceUpdate)
	assert.False(t, state.Toggles.IsPushNotificationDebugMode)
	assert.False(t, state.Toggles.IsBackgroundTaskDebugMode)
	assert.Equal(t, []string{"Restart app"}, fakes.Terminator.Reasons())
}

func TestToggleForceUpdateAndRestartWaitsForDelay(t *testing.T) {
	fakes := testutil.NewFakes()
	deps := fakes.Dependencies()
	deps.RestartDelay = 20 * time.Millisecond
	store, err := core.NewStore(nil, deps)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.Start(ctx)

	start := time.Now()
	require.NoError(t, store.AwaitDispatch(ctx, ToggleForceUpdateAndRestart{}))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Len(t, fakes.Terminator.Reasons(), 1)
}

func TestSimulateForceUpdateNotification(t *testing.T) {
	fakes := testutil.NewFakes()
	store := startStore(t, fakes)

	require.NoError(t, run(t, store, SimulateForceUpdateNotification{}))

	calls := fakes.Notifier.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, ForceUpdateNotificationID, calls[0].Content.Identifier)
	assert.Equal(t, 5*time.Second, calls[0].Trigger.Interval)
	assert.Empty(t, fakes.Presenter.Alerts())

	fakes.Notifier.Err = errors.New("denied")
	require.NoError(t, run(t, store, SimulateForceUpdateNotification{}))
	alerts := fakes.Presenter.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "Error", alerts[0].Title)
}

func TestShowScheduledNotifications(t *testing.T) {
	fakes := testutil.NewFakes()
	fakes.Notifier.IDs = []string{"a", "b"}
	store := startStore(t, fakes)

	require.NoError(t, run(t, store, ShowScheduledNotifications{}))

	alerts := fakes.Presenter.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "Scheduled Notifications", alerts[0].Title)
	assert.Equal(t, "Scheduled:\n- a\n\n- b", alerts[0].Message)
	assert.Equal(t, []string{"Ok"}, alerts[0].Actions)
}

func TestShowDiagnosisKeys(t *testing.T) {
	fakes := testutil.NewFakes()
	fakes.Exposure.Keys = []domain.DiagnosisKey{{KeyData: []byte{1, 2}, RollingStartNumber: 0, RollingPeriod: 144}}
	store := startStore(t, fakes)

	require.NoError(t, run(t, store, ShowDiagnosisKeys{}))

	alerts := fakes.Presenter.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "Success", alerts[0].Title)
	assert.Equal(t, "Count: 1\n<Start: 1970-01-01@00:00, End: 1970-01-02@00:00, Key: AQI=>", alerts[0].Message)
}

func TestShowDiagnosisKeysReportsFailures(t *testing.T) {
	t.Run("authorization", func(t *testing.T) {
		fakes := testutil.NewFakes()
		fakes.Exposure.AuthorizeErr = domain.ErrAuthorizationDenied
		store := startStore(t, fakes)

		require.NoError(t, run(t, store, ShowDiagnosisKeys{}))
		alerts := fakes.Presenter.Alerts()
		require.Len(t, alerts, 1)
		assert.Equal(t, "Error", alerts[0].Title)
		assert.Contains(t, alerts[0].Message, "authorization denied")
	})
	t.Run("retrieval", func(t *testing.T) {
		fakes := testutil.NewFakes()
		fakes.Exposure.KeysErr = domain.ErrNotAuthorized
		store := startStore(t, fakes)

		require.NoError(t, run(t, store, ShowDiagnosisKeys{}))
		alerts := fakes.Presenter.Alerts()
		require.Len(t, alerts, 1)
		assert.Equal(t, "Error", alerts[0].Title)
		assert.Contains(t, alerts[0].Message, "retrieve keys")
	})
}

func TestPerformExposureDetectionReportsResult(t *testing.T) {
	fakes := testutil.NewFakes()
	fakes.Detector.Result = domain.DetectionResult{Date: testutil.Now}
	store := startStore(t, fakes)

	require.NoError(t, run(t, store, PerformExposureDetection{}))

	screens := fakes.Presenter.Screens()
	require.Len(t, screens, 2)
	assert.Equal(t, testutil.ScreenEvent{Visible: true, Screen: domain.Screen{ID: domain.ScreenLoading, Message: "Loading"}}, screens[0])
	assert.Equal(t, testutil.ScreenEvent{Screen: domain.Screen{ID: domain.ScreenLoading}}, screens[1])

	alerts := fakes.Presenter.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "Completed", alerts[0].Title)
	assert.Equal(t, "Exposure Detection result:\n2021-03-15@09:30: none", alerts[0].Message)

	state := store.GetState()
	assert.Len(t, state.ExposureDetection.PreviousDetectionResults, 1)
	assert.NotNil(t, state.Configuration.FetchedAt)
	assert.Empty(t, fakes.Terminator.Reasons())
}

func TestPerformExposureDetectionReportsError(t *testing.T) {
	fakes := testutil.NewFakes()
	fakes.Exposure.AuthorizeErr = domain.ErrAuthorizationDenied
	store := startStore(t, fakes)

	require.NoError(t, run(t, store, PerformExposureDetection{}))

	assert.Len(t, fakes.Presenter.Screens(), 2, "loading screen is hidden again")
	alerts := fakes.Presenter.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "Error", alerts[0].Title)
	assert.Contains(t, alerts[0].Message, "authorization denied")
	assert.Zero(t, fakes.Detector.Calls())
	assert.Empty(t, fakes.Terminator.Reasons())
}

func TestPerformExposureDetectionWithoutResultTerminates(t *testing.T) {
	fakes := testutil.NewFakes()
	fakes.Detector.Err = domain.ErrDetectionDeclined
	store := startStore(t, fakes)

	err := run(t, store, PerformExposureDetection{})

	assert.ErrorIs(t, err, domain.ErrNoDetectionResult)
	assert.Equal(t, 1, fakes.Detector.Calls())
	assert.Equal(t, []string{"no result recorded"}, fakes.Terminator.Reasons())
	assert.Empty(t, fakes.Presenter.Alerts())
}

func TestPerformExposureDetectionReportsDespiteScreenFailure(t *testing.T) {
	fakes := testutil.NewFakes()
	fakes.Presenter.ScreenErr = errors.New("no window")
	fakes.Detector.Result = domain.DetectionResult{Date: testutil.Now}
	store := startStore(t, fakes)

	require.NoError(t, run(t, store, PerformExposureDetection{}))

	assert.Empty(t, fakes.Presenter.Screens())
	alerts := fakes.Presenter.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "Completed", alerts[0].Title)
}

func TestShowPastExposureDetections(t *testing.T) {
	fakes := testutil.NewFakes()
	store := startStore(t, fakes)

	require.NoError(t, run(t, store, ShowPastExposureDetections{}))

	alerts := fakes.Presenter.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "Result", alerts[0].Title)
	assert.Equal(t, "Last detection: never.\nAll results: ", alerts[0].Message)
}

func TestShowStateExplorer(t *testing.T) {
	fakes := testutil.NewFakes()
	store := startStore(t, fakes)

	require.NoError(t, run(t, store, ShowStateExplorer{}))

	screens := fakes.Presenter.Screens()
	require.Len(t, screens, 1)
	assert.True(t, screens[0].Visible)
	assert.Equal(t, domain.ScreenStateExplorer, screens[0].Screen.ID)
	assert.Contains(t, screens[0].Screen.Message, `"toggles"`)
	assert.Contains(t, screens[0].Screen.Message, `"kind": "neutral"`)
}

func TestResetKeychain(t *testing.T) {
	fakes := testutil.NewFakes()
	store := startStore(t, fakes)

	require.NoError(t, run(t, store, ResetKeychain{}))
	assert.Equal(t, 1, fakes.Housekeep.Resets)
	assert.Empty(t, fakes.Terminator.Reasons())
}

func TestCleanApp(t *testing.T) {
	fakes := testutil.NewFakes()
	store := startStore(t, fakes)

	require.NoError(t, run(t, store, CleanApp{}))
	assert.Equal(t, 1, fakes.Housekeep.Cleanups)
	assert.Equal(t, []string{"App cleaned"}, fakes.Terminator.Reasons())

	fakes.Housekeep.Err = errors.New("read-only")
	require.NoError(t, run(t, store, CleanApp{}))
	assert.Len(t, fakes.Terminator.Reasons(), 1)
	alerts := fakes.Presenter.Alerts()
	require.NotEmpty(t, alerts)
	assert.Equal(t, "Error", alerts[len(alerts)-1].Title)
}
