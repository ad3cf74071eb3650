package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"exposure-debugpanel/internal/core"
	"exposure-debugpanel/internal/domain"
	"exposure-debugpanel/internal/logging"
)

// SendOperationalInfoIfNeeded sends operational info at most once per
// calendar month for each flavour. The with-exposure flavour is only sent
// when the latest detection matched.
type SendOperationalInfoIfNeeded struct {
	WithExposure bool
}

func (a SendOperationalInfoIfNeeded) ActionName() string {
	if a.WithExposure {
		return "analytics.sendWithExposureIfNeeded"
	}
	return "analytics.sendWithoutExposureIfNeeded"
}

func (a SendOperationalInfoIfNeeded) SideEffect(ctx context.Context, ec *core.Context) error {
	deps := ec.Dependencies()
	state := ec.GetState()
	today := domain.CalendarDayOf(deps.Clock())

	if last := lastSent(state.Analytics, a.WithExposure); last != nil && last.SameMonth(today) {
		logging.Infof("%s: already sent on %s", a.ActionName(), last)
		return nil
	}

	info := domain.OperationalInfo{
		ExposureNotification: deps.Capabilities.ExposureNotification,
		WithExposure:         a.WithExposure,
		SentOn:               today,
	}
	if a.WithExposure {
		latest, ok := domain.LatestDetection(state.ExposureDetection)
		if !ok || !latest.Matched() {
			logging.Infof("%s: no exposure to report", a.ActionName())
			return nil
		}
		day := domain.CalendarDayOf(latest.Date.AddDate(0, 0, -latest.Summary.DaysSinceLastExposure))
		info.LastRiskyExposureOn = &day
	}

	token := uuid.NewString()
	if err := ec.AwaitDispatch(ctx, ClaimOperationalInfoSend{WithExposure: a.WithExposure, Day: today, Token: token}); err != nil {
		return err
	}
	if sending(ec.GetState().Analytics, a.WithExposure) != token {
		logging.Infof("%s: already sent or in flight", a.ActionName())
		return nil
	}

	if err := deps.Analytics.SendOperationalInfo(ctx, info); err != nil {
		ec.Dispatch(ReleaseOperationalInfoSend{WithExposure: a.WithExposure, Token: token})
		return fmt.Errorf("send operational info: %w", err)
	}
	ec.Dispatch(MarkOperationalInfoSent{WithExposure: a.WithExposure, Day: today, Token: token})
	return nil
}

func lastSent(s domain.AnalyticsState, withExposure bool) *domain.CalendarDay {
	if withExposure {
		return s.EventWithExposureLastSent
	}
	return s.EventWithoutExposureLastSent
}

func sending(s domain.AnalyticsState, withExposure bool) string {
	if withExposure {
		return s.WithExposureSending
	}
	return s.WithoutExposureSending
}

func setSending(s *domain.AnalyticsState, withExposure bool, token string) {
	if withExposure {
		s.WithExposureSending = token
		return
	}
	s.WithoutExposureSending = token
}

// ClaimOperationalInfoSend reserves the month's send for Token. It does
// nothing when the month was already sent or another send holds the claim.
type ClaimOperationalInfoSend struct {
	WithExposure bool
	Day          domain.CalendarDay
	Token        string
}

func (ClaimOperationalInfoSend) ActionName() string { return "analytics.claimSend" }

func (a ClaimOperationalInfoSend) Update(state *domain.AppState) {
	if last := lastSent(state.Analytics, a.WithExposure); last != nil && last.SameMonth(a.Day) {
		return
	}
	if sending(state.Analytics, a.WithExposure) != "" {
		return
	}
	setSending(&state.Analytics, a.WithExposure, a.Token)
}

// ReleaseOperationalInfoSend drops the claim of a failed send.
type ReleaseOperationalInfoSend struct {
	WithExposure bool
	Token        string
}

func (ReleaseOperationalInfoSend) ActionName() string { return "analytics.releaseSend" }

func (a ReleaseOperationalInfoSend) Update(state *domain.AppState) {
	if sending(state.Analytics, a.WithExposure) == a.Token {
		setSending(&state.Analytics, a.WithExposure, "")
	}
}

// MarkOperationalInfoSent records a successful send and drops its claim.
type MarkOperationalInfoSent struct {
	WithExposure bool
	Day          domain.CalendarDay
	Token        string
}

func (MarkOperationalInfoSent) ActionName() string { return "analytics.markSent" }

func (a MarkOperationalInfoSent) Update(state *domain.AppState) {
	day := a.Day
	if a.WithExposure {
		state.Analytics.EventWithExposureLastSent = &day
	} else {
		state.Analytics.EventWithoutExposureLastSent = &day
	}
	if a.Token != "" {
		ReleaseOperationalInfoSend{WithExposure: a.WithExposure, Token: a.Token}.Update(state)
	}
}
