package bus

import (
	"context"

	"exposure-debugpanel/internal/domain"
	"exposure-debugpanel/internal/logging"
)

// ScreenEvent asks a surface to show or hide a screen.
type ScreenEvent struct {
	Visible bool          `json:"visible"`
	Screen  domain.Screen `json:"screen"`
}

// Presenter implements domain.Presenter by publishing on the bus.
type Presenter struct {
	bus *Bus
}

// NewPresenter creates the presenter.
func NewPresenter(b *Bus) *Presenter {
	return &Presenter{bus: b}
}

func (p *Presenter) ShowAlert(_ context.Context, alert domain.Alert) error {
	return p.bus.Publish(TopicAlerts, alert)
}

func (p *Presenter) ShowScreen(_ context.Context, screen domain.Screen) error {
	return p.bus.Publish(TopicScreens, ScreenEvent{Visible: true, Screen: screen})
}

func (p *Presenter) HideScreen(_ context.Context, id domain.ScreenID) error {
	return p.bus.Publish(TopicScreens, ScreenEvent{Screen: domain.Screen{ID: id}})
}

// AnalyticsSender implements domain.AnalyticsSender by publishing on the bus.
type AnalyticsSender struct {
	bus *Bus
}

// NewAnalyticsSender creates the sender.
func NewAnalyticsSender(b *Bus) *AnalyticsSender {
	return &AnalyticsSender{bus: b}
}

func (s *AnalyticsSender) SendOperationalInfo(_ context.Context, info domain.OperationalInfo) error {
	return s.bus.Publish(TopicAnalytics, info)
}

// DeliverNotification publishes a fired local notification.
func (b *Bus) DeliverNotification(n domain.LocalNotification) {
	if err := b.Publish(TopicNotifications, n); err != nil {
		logging.Warnf("deliver notification %s: %v", n.Identifier, err)
	}
}
