package exposure

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"exposure-debugpanel/internal/domain"
)

const (
	keyLength      = 16
	keyRetention   = 14
	intervalsInDay = 144
)

// Manager simulates the exposure notification framework on a host without one.
// Keys are generated once per day and kept for the retention window.
type Manager struct {
	mu         sync.Mutex
	deny       bool
	authorized bool
	keys       map[uint32]domain.DiagnosisKey
	now        func() time.Time
}

// NewManager creates a simulated framework. When deny is set every
// authorization request is refused.
func NewManager(deny bool, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{deny: deny, keys: make(map[uint32]domain.DiagnosisKey), now: now}
}

// AuthorizeAndStart asks for user consent and starts the framework.
func (m *Manager) AuthorizeAndStart(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deny {
		return domain.ErrAuthorizationDenied
	}
	m.authorized = true
	return nil
}

// DiagnosisKeys returns one key per day of the retention window, oldest first.
func (m *Manager) DiagnosisKeys(ctx context.Context) ([]domain.DiagnosisKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.authorized {
		return nil, domain.ErrNotAuthorized
	}

	today := m.now().UTC().Truncate(24 * time.Hour)
	out := make([]domain.DiagnosisKey, 0, keyRetention)
	live := make(map[uint32]domain.DiagnosisKey, keyRetention)
	for d := keyRetention - 1; d >= 0; d-- {
		start := rollingStartNumber(today.AddDate(0, 0, -d))
		key, ok := m.keys[start]
		if !ok {
			data := make([]byte, keyLength)
			if _, err := rand.Read(data); err != nil {
				return nil, fmt.Errorf("generate key: %w", err)
			}
			key = domain.DiagnosisKey{
				KeyData:               data,
				RollingStartNumber:    start,
				RollingPeriod:         intervalsInDay,
				TransmissionRiskLevel: 4,
			}
		}
		live[start] = key
		out = append(out, key)
	}
	m.keys = live
	return out, nil
}

func rollingStartNumber(t time.Time) uint32 {
	return uint32(t.Unix() / 600)
}
