package debugmenu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposure-debugpanel/internal/testutil"
)

func TestPanelResolve(t *testing.T) {
	panel := NewPanel(startStore(t, testutil.NewFakes()))

	tests := []struct {
		query string
		want  int
	}{
		{"1", 0},
		{"3", 2},
		{"state explorer", 0},
		{"Show TEKs", 7},
		{"stat explorr", 0},
		{"past exposure", 9},
	}
	for _, tt := range tests {
		got, err := panel.Resolve(tt.query)
		require.NoError(t, err, tt.query)
		assert.Equal(t, tt.want, got, tt.query)
	}

	for _, bad := range []string{"", "0", "99", "zzzzzzzzzz"} {
		_, err := panel.Resolve(bad)
		assert.ErrorIs(t, err, ErrNoSuchItem, bad)
	}
}

func TestPanelSelectDispatches(t *testing.T) {
	store := startStore(t, testutil.NewFakes())
	panel := NewPanel(store)

	index, err := panel.Resolve("debug notifications")
	require.NoError(t, err)
	item, err := panel.Select(index)
	require.NoError(t, err)

	assert.Equal(t, "🔔 Enable Debug Notifications", item.Label)
	assert.True(t, store.GetState().Toggles.IsPushNotificationDebugMode)
	assert.Contains(t, panel.Labels(), "🔔 Disable Debug Notifications")

	_, err = panel.Select(len(panel.Labels()))
	assert.ErrorIs(t, err, ErrNoSuchItem)
}
