package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposure-debugpanel/internal/domain"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "nested", "state.json"))
	require.NoError(t, err)

	state, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultState(), state)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	repo, err := NewFileRepository(path)
	require.NoError(t, err)

	at := time.Date(2021, 3, 15, 9, 30, 0, 0, time.UTC)
	day := domain.CalendarDayOf(at)
	state := domain.DefaultState()
	state.Toggles.IsBackgroundTaskDebugMode = true
	state.ExposureDetection.LastDetectionDate = &at
	state.ExposureDetection.PreviousDetectionResults = []domain.DetectionResult{{
		Date:    at,
		Summary: &domain.SummaryData{MatchedKeyCount: 1, DaysSinceLastExposure: 2, DurationByAttenuationBucket: []int{900, 300}, MaximumRiskScore: 4},
	}}
	state.User.CovidStatus = domain.CovidStatus{Kind: domain.StatusRisk, LastContact: day}
	state.Analytics.EventWithoutExposureLastSent = &day

	require.NoError(t, repo.Save(state))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file is renamed away")

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	repo, err := NewFileRepository(path)
	require.NoError(t, err)

	_, err = repo.Load()
	assert.Error(t, err)
}

func TestNewFileRepositoryRequiresPath(t *testing.T) {
	_, err := NewFileRepository("")
	assert.Error(t, err)
}
