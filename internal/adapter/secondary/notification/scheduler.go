package notification

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"exposure-debugpanel/internal/domain"
	"exposure-debugpanel/internal/logging"
)

// DeliverFunc receives notifications whose trigger fired.
type DeliverFunc func(n domain.LocalNotification)

type pending struct {
	content domain.LocalNotification
	fireAt  time.Time
	timer   *time.Timer
}

// Scheduler is an in-process stand-in for the OS notification center.
// Pending notifications live in a cache whose entries expire when they fire.
type Scheduler struct {
	mu         sync.Mutex
	pending    *cache.Cache
	delivering int
	deliver    DeliverFunc
	now        func() time.Time
}

const drainPoll = 50 * time.Millisecond

// NewScheduler creates a scheduler. deliver may be nil.
func NewScheduler(deliver DeliverFunc) *Scheduler {
	return &Scheduler{
		pending: cache.New(cache.NoExpiration, time.Minute),
		deliver: deliver,
		now:     time.Now,
	}
}

// ScheduleLocalNotification registers content to fire after trigger.Interval.
// An existing notification with the same identifier is replaced.
func (s *Scheduler) ScheduleLocalNotification(_ context.Context, content domain.LocalNotification, trigger domain.NotificationTrigger) error {
	if content.Identifier == "" {
		content.Identifier = uuid.NewString()
	}
	interval := trigger.Interval
	if interval < 0 {
		interval = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.pending.Get(content.Identifier); ok {
		old.(*pending).timer.Stop()
	}
	p := &pending{content: content, fireAt: s.now().Add(interval)}
	p.timer = time.AfterFunc(interval, func() { s.fire(p) })
	s.pending.Set(content.Identifier, p, cache.NoExpiration)
	logging.Debugf("notification %s scheduled in %s", content.Identifier, interval)
	return nil
}

// ScheduledNotificationIDs lists pending identifiers, earliest first.
func (s *Scheduler) ScheduledNotificationIDs(context.Context) ([]string, error) {
	s.mu.Lock()
	items := s.pending.Items()
	s.mu.Unlock()

	list := make([]*pending, 0, len(items))
	for _, item := range items {
		list = append(list, item.Object.(*pending))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].fireAt.Equal(list[j].fireAt) {
			return list[i].content.Identifier < list[j].content.Identifier
		}
		return list[i].fireAt.Before(list[j].fireAt)
	})
	ids := make([]string, len(list))
	for i, p := range list {
		ids[i] = p.content.Identifier
	}
	return ids, nil
}

// Close cancels every pending notification.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.pending.Items() {
		item.Object.(*pending).timer.Stop()
	}
	s.pending.Flush()
}

// Drain blocks until every pending notification has been delivered or ctx
// is done.
func (s *Scheduler) Drain(ctx context.Context) error {
	ticker := time.NewTicker(drainPoll)
	defer ticker.Stop()
	for !s.idle() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func (s *Scheduler) idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.ItemCount() == 0 && s.delivering == 0
}

func (s *Scheduler) fire(p *pending) {
	s.mu.Lock()
	current, ok := s.pending.Get(p.content.Identifier)
	if !ok || current.(*pending) != p {
		s.mu.Unlock()
		return
	}
	s.pending.Delete(p.content.Identifier)
	s.delivering++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.delivering--
		s.mu.Unlock()
	}()
	logging.Infof("notification %s delivered", p.content.Identifier)
	if s.deliver != nil {
		s.deliver(p.content)
	}
}
