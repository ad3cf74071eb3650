// Package testutil provides in-memory fakes of the domain ports for tests.
package testutil

import (
	"context"
	"sync"
	"time"

	"exposure-debugpanel/internal/domain"
)

// Now is the fixed clock of Fakes.
var Now = time.Date(2021, 3, 15, 9, 30, 0, 0, time.UTC)

// Fakes bundles one fake per port.
type Fakes struct {
	Notifier   *Notifier
	Exposure   *ExposureNotifier
	Config     *ConfigurationProvider
	Detector   *Detector
	Presenter  *Presenter
	Analytics  *Analytics
	Housekeep  *Housekeeper
	Terminator *Terminator
}

// NewFakes creates fakes that succeed by default.
func NewFakes() *Fakes {
	return &Fakes{
		Notifier:   &Notifier{},
		Exposure:   &ExposureNotifier{},
		Config:     &ConfigurationProvider{Configuration: domain.Configuration{MinimumBuildVersion: 1, ExposureDetectionPeriod: 4 * time.Hour}},
		Detector:   &Detector{},
		Presenter:  &Presenter{},
		Analytics:  &Analytics{},
		Housekeep:  &Housekeeper{},
		Terminator: NewTerminator(),
	}
}

// Dependencies wires the fakes with the exposure capability on.
func (f *Fakes) Dependencies() *domain.Dependencies {
	return &domain.Dependencies{
		PushNotifications:     f.Notifier,
		ExposureNotifications: f.Exposure,
		Configuration:         f.Config,
		Detector:              f.Detector,
		Presenter:             f.Presenter,
		Analytics:             f.Analytics,
		Housekeeper:           f.Housekeep,
		Terminator:            f.Terminator,
		Capabilities:          domain.Capabilities{ExposureNotification: true},
		Now:                   func() time.Time { return Now },
	}
}

// MemoryRepository keeps the state in memory.
type MemoryRepository struct {
	mu    sync.Mutex
	state *domain.AppState
	saves int
}

func (r *MemoryRepository) Load() (domain.AppState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return domain.DefaultState(), nil
	}
	return r.state.Clone(), nil
}

func (r *MemoryRepository) Save(state domain.AppState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := state.Clone()
	r.state = &s
	r.saves++
	return nil
}

// Saves returns how many times Save was called.
func (r *MemoryRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// Scheduled is one recorded ScheduleLocalNotification call.
type Scheduled struct {
	Content domain.LocalNotification
	Trigger domain.NotificationTrigger
}

// Notifier fakes domain.PushNotifier.
type Notifier struct {
	mu        sync.Mutex
	Scheduled []Scheduled
	IDs       []string
	Err       error
}

func (n *Notifier) ScheduleLocalNotification(_ context.Context, content domain.LocalNotification, trigger domain.NotificationTrigger) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Scheduled = append(n.Scheduled, Scheduled{Content: content, Trigger: trigger})
	return nil
}

func (n *Notifier) ScheduledNotificationIDs(context.Context) ([]string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return nil, n.Err
	}
	return append([]string(nil), n.IDs...), nil
}

// Calls returns a copy of the recorded calls.
func (n *Notifier) Calls() []Scheduled {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Scheduled(nil), n.Scheduled...)
}

// ExposureNotifier fakes domain.ExposureNotifier.
type ExposureNotifier struct {
	mu           sync.Mutex
	AuthorizeErr error
	Keys         []domain.DiagnosisKey
	KeysErr      error
	Authorized   int
}

func (e *ExposureNotifier) AuthorizeAndStart(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.AuthorizeErr != nil {
		return e.AuthorizeErr
	}
	e.Authorized++
	return nil
}

func (e *ExposureNotifier) DiagnosisKeys(context.Context) ([]domain.DiagnosisKey, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.KeysErr != nil {
		return nil, e.KeysErr
	}
	return e.Keys, nil
}

// ConfigurationProvider fakes domain.ConfigurationProvider.
type ConfigurationProvider struct {
	Configuration domain.Configuration
	Err           error
}

func (c *ConfigurationProvider) FetchConfiguration(context.Context) (domain.Configuration, error) {
	return c.Configuration, c.Err
}

// Detector fakes domain.ExposureDetector.
type Detector struct {
	mu     sync.Mutex
	Result domain.DetectionResult
	Err    error
	calls  int
}

func (d *Detector) Detect(context.Context, domain.Configuration) (domain.DetectionResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.Err != nil {
		return domain.DetectionResult{}, d.Err
	}
	return d.Result, nil
}

// Calls returns how many detections ran.
func (d *Detector) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// ScreenEvent is one recorded show or hide.
type ScreenEvent struct {
	Visible bool
	Screen  domain.Screen
}

// Presenter fakes domain.Presenter.
type Presenter struct {
	mu      sync.Mutex
	alerts  []domain.Alert
	screens []ScreenEvent
	// ScreenErr fails every screen show and hide.
	ScreenErr error
}

func (p *Presenter) ShowAlert(_ context.Context, alert domain.Alert) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, alert)
	return nil
}

func (p *Presenter) ShowScreen(_ context.Context, screen domain.Screen) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ScreenErr != nil {
		return p.ScreenErr
	}
	p.screens = append(p.screens, ScreenEvent{Visible: true, Screen: screen})
	return nil
}

func (p *Presenter) HideScreen(_ context.Context, id domain.ScreenID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ScreenErr != nil {
		return p.ScreenErr
	}
	p.screens = append(p.screens, ScreenEvent{Screen: domain.Screen{ID: id}})
	return nil
}

// Alerts returns the alerts shown so far.
func (p *Presenter) Alerts() []domain.Alert {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Alert(nil), p.alerts...)
}

// Screens returns the screen events so far.
func (p *Presenter) Screens() []ScreenEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ScreenEvent(nil), p.screens...)
}

// Analytics fakes domain.AnalyticsSender.
type Analytics struct {
	mu   sync.Mutex
	Sent []domain.OperationalInfo
	Err  error
	// Delay slows every send down.
	Delay time.Duration
}

func (a *Analytics) SendOperationalInfo(_ context.Context, info domain.OperationalInfo) error {
	if a.Delay > 0 {
		time.Sleep(a.Delay)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.Sent = append(a.Sent, info)
	return nil
}

// Infos returns a copy of the sent payloads.
func (a *Analytics) Infos() []domain.OperationalInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.OperationalInfo(nil), a.Sent...)
}

// Housekeeper fakes domain.Housekeeper.
type Housekeeper struct {
	mu       sync.Mutex
	Err      error
	Resets   int
	Cleanups int
}

func (h *Housekeeper) ResetKeychain(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Err != nil {
		return h.Err
	}
	h.Resets++
	return nil
}

func (h *Housekeeper) CleanApp(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Err != nil {
		return h.Err
	}
	h.Cleanups++
	return nil
}

// Terminator records termination requests instead of exiting.
type Terminator struct {
	mu      sync.Mutex
	reasons []string
}

// NewTerminator creates the fake.
func NewTerminator() *Terminator {
	return &Terminator{}
}

func (t *Terminator) Terminate(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reasons = append(t.reasons, reason)
}

// Reasons returns the recorded reasons.
func (t *Terminator) Reasons() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.reasons...)
}
