package web

import (
	"context"
	"sort"
	"sync"

	"exposure-debugpanel/internal/adapter/secondary/bus"
	"exposure-debugpanel/internal/domain"
)

// Feed keeps the recent alerts and the visible screens published on the bus
// so that HTTP clients can poll them.
type Feed struct {
	mu      sync.RWMutex
	limit   int
	seq     int
	alerts  []AlertView
	screens map[domain.ScreenID]domain.Screen
}

// AlertView is an alert with its position in the feed.
type AlertView struct {
	Seq int `json:"seq"`
	domain.Alert
}

// NewFeed subscribes to the presentation topics until ctx is done.
func NewFeed(ctx context.Context, b *bus.Bus, limit int) (*Feed, error) {
	if limit <= 0 {
		limit = 50
	}
	f := &Feed{limit: limit, screens: make(map[domain.ScreenID]domain.Screen)}
	if err := bus.Subscribe(ctx, b, bus.TopicAlerts, f.addAlert); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(ctx, b, bus.TopicScreens, f.applyScreen); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Feed) addAlert(a domain.Alert) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.alerts = append(f.alerts, AlertView{Seq: f.seq, Alert: a})
	if len(f.alerts) > f.limit {
		f.alerts = f.alerts[len(f.alerts)-f.limit:]
	}
}

func (f *Feed) applyScreen(ev bus.ScreenEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ev.Visible {
		f.screens[ev.Screen.ID] = ev.Screen
		return
	}
	delete(f.screens, ev.Screen.ID)
}

// Alerts returns the alerts with a sequence number above after.
func (f *Feed) Alerts(after int) []AlertView {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []AlertView{}
	for _, a := range f.alerts {
		if a.Seq > after {
			out = append(out, a)
		}
	}
	return out
}

// Screens returns the visible screens ordered by id.
func (f *Feed) Screens() []domain.Screen {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.Screen, 0, len(f.screens))
	for _, s := range f.screens {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DismissScreen hides a screen that has no workflow to close it.
func (f *Feed) DismissScreen(id domain.ScreenID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.screens[id]
	delete(f.screens, id)
	return ok
}
