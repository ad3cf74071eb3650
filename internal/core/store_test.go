package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposure-debugpanel/internal/core"
	"exposure-debugpanel/internal/domain"
	"exposure-debugpanel/internal/testutil"
)

func newStartedStore(t *testing.T) (*core.Store, *testutil.MemoryRepository) {
	t.Helper()
	repo := &testutil.MemoryRepository{}
	store, err := core.NewStore(repo, testutil.NewFakes().Dependencies())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	store.Start(ctx)
	return store, repo
}

func appendResult(at time.Time) core.Updater {
	return core.NewUpdater("test.append", func(s *domain.AppState) {
		s.ExposureDetection.PreviousDetectionResults = append(s.ExposureDetection.PreviousDetectionResults, domain.DetectionResult{Date: at})
	})
}

type bareAction struct{}

func (bareAction) ActionName() string { return "test.bare" }

func TestDispatchUpdaterCommitsAndPersists(t *testing.T) {
	store, repo := newStartedStore(t)

	err := store.Dispatch(core.NewUpdater("test.toggle", func(s *domain.AppState) {
		s.Toggles.IsPushNotificationDebugMode = true
	}))
	require.NoError(t, err)

	assert.True(t, store.GetState().Toggles.IsPushNotificationDebugMode)
	assert.Equal(t, 1, repo.Saves())
	persisted, err := repo.Load()
	require.NoError(t, err)
	assert.True(t, persisted.Toggles.IsPushNotificationDebugMode)
}

func TestNewStoreLoadsPersistedState(t *testing.T) {
	repo := &testutil.MemoryRepository{}
	state := domain.DefaultState()
	state.Toggles.MustShowForceUpdate = true
	require.NoError(t, repo.Save(state))

	store, err := core.NewStore(repo, testutil.NewFakes().Dependencies())
	require.NoError(t, err)
	assert.True(t, store.GetState().Toggles.MustShowForceUpdate)

	_, err = core.NewStore(repo, nil)
	assert.Error(t, err)
}

func TestDispatchBeforeStart(t *testing.T) {
	store, err := core.NewStore(nil, testutil.NewFakes().Dependencies())
	require.NoError(t, err)

	err = store.Dispatch(appendResult(testutil.Now))
	assert.ErrorIs(t, err, domain.ErrStoreNotStarted)
}

func TestDispatchAfterStop(t *testing.T) {
	store, err := core.NewStore(nil, testutil.NewFakes().Dependencies())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	store.Start(ctx)
	cancel()

	assert.ErrorIs(t, store.Dispatch(appendResult(testutil.Now)), domain.ErrStoreStopped)
	noop := core.NewSideEffect("test.noop", func(context.Context, *core.Context) error { return nil })
	assert.ErrorIs(t, store.Dispatch(noop), domain.ErrStoreStopped)
}

func TestDispatchUnknownAction(t *testing.T) {
	store, _ := newStartedStore(t)
	assert.ErrorIs(t, store.Dispatch(bareAction{}), domain.ErrUnknownAction)
	assert.ErrorIs(t, store.AwaitDispatch(context.Background(), bareAction{}), domain.ErrUnknownAction)
}

func TestConcurrentSideEffectsEachCommitOnce(t *testing.T) {
	store, _ := newStartedStore(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			effect := core.NewSideEffect("test.commit", func(ctx context.Context, ec *core.Context) error {
				return ec.AwaitDispatch(ctx, appendResult(testutil.Now.Add(time.Duration(i)*time.Second)))
			})
			assert.NoError(t, store.Dispatch(effect))
		}(i)
	}
	wg.Wait()
	store.Wait()

	results := store.GetState().ExposureDetection.PreviousDetectionResults
	require.Len(t, results, n)
	seen := make(map[time.Time]bool, n)
	for _, r := range results {
		assert.False(t, seen[r.Date], "result committed twice")
		seen[r.Date] = true
	}
}

func TestChildSideEffectsRunInDispatchOrder(t *testing.T) {
	store, _ := newStartedStore(t)

	parent := core.NewSideEffect("test.parent", func(ctx context.Context, ec *core.Context) error {
		for i := 0; i < 5; i++ {
			at := testutil.Now.Add(time.Duration(i) * time.Minute)
			ec.Dispatch(core.NewSideEffect("test.child", func(ctx context.Context, ec *core.Context) error {
				// Later children finish faster unless they are serialized.
				time.Sleep(time.Duration(5-i) * time.Millisecond)
				return ec.AwaitDispatch(ctx, appendResult(at))
			}))
		}
		return nil
	})
	require.NoError(t, store.Dispatch(parent))
	store.Wait()

	results := store.GetState().ExposureDetection.PreviousDetectionResults
	require.Len(t, results, 5)
	for i, r := range results {
		assert.Equal(t, testutil.Now.Add(time.Duration(i)*time.Minute), r.Date)
	}
}

func TestAwaitDispatchReturnsWorkflowError(t *testing.T) {
	store, _ := newStartedStore(t)
	boom := errors.New("boom")

	err := store.AwaitDispatch(context.Background(), core.NewSideEffect("test.fail", func(context.Context, *core.Context) error {
		return boom
	}))
	assert.ErrorIs(t, err, boom)
}

func TestSideEffectPanicIsRecovered(t *testing.T) {
	store, _ := newStartedStore(t)

	err := store.AwaitDispatch(context.Background(), core.NewSideEffect("test.panic", func(context.Context, *core.Context) error {
		panic("oops")
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")

	require.NoError(t, store.Dispatch(appendResult(testutil.Now)))
	assert.Len(t, store.GetState().ExposureDetection.PreviousDetectionResults, 1)
}

func TestGetStateReturnsSnapshot(t *testing.T) {
	store, _ := newStartedStore(t)
	require.NoError(t, store.Dispatch(appendResult(testutil.Now)))

	snap := store.GetState()
	snap.ExposureDetection.PreviousDetectionResults[0].Date = time.Time{}

	assert.Equal(t, testutil.Now, store.GetState().ExposureDetection.PreviousDetectionResults[0].Date)
}
