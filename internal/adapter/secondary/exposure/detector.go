package exposure

import (
	"context"
	"sync"
	"time"

	"exposure-debugpanel/internal/domain"
)

// Detector simulates detection runs. Every n-th run reports a contact two
// days before the run; the others match nothing. n == 0 never matches.
type Detector struct {
	mu    sync.Mutex
	every int
	runs  int
	now   func() time.Time
}

// NewDetector creates a simulated detector.
func NewDetector(matchEvery int, now func() time.Time) *Detector {
	if now == nil {
		now = time.Now
	}
	return &Detector{every: matchEvery, now: now}
}

// Detect runs one detection.
func (d *Detector) Detect(ctx context.Context, cfg domain.Configuration) (domain.DetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.DetectionResult{}, err
	}
	d.mu.Lock()
	d.runs++
	matched := d.every > 0 && d.runs%d.every == 0
	d.mu.Unlock()

	now := d.now()
	result := domain.DetectionResult{Date: now}
	if !matched {
		return result, nil
	}

	const daysAgo = 2
	result.Summary = &domain.SummaryData{
		MatchedKeyCount:             1,
		DaysSinceLastExposure:       daysAgo,
		DurationByAttenuationBucket: []int{900, 300},
		MaximumRiskScore:            4,
	}
	result.Exposures = []domain.ExposureInfo{{
		Date:             now.UTC().Truncate(24*time.Hour).AddDate(0, 0, -daysAgo),
		Duration:         20 * time.Minute,
		AttenuationValue: 45,
		TransmissionRisk: 4,
		TotalRiskScore:   4,
	}}
	return result, nil
}

// StaticConfiguration serves a fixed remote configuration.
type StaticConfiguration struct {
	MinimumBuildVersion int
	DetectionPeriod     time.Duration
}

// FetchConfiguration returns the configured snapshot.
func (s StaticConfiguration) FetchConfiguration(ctx context.Context) (domain.Configuration, error) {
	if err := ctx.Err(); err != nil {
		return domain.Configuration{}, err
	}
	return domain.Configuration{
		MinimumBuildVersion:     s.MinimumBuildVersion,
		ExposureDetectionPeriod: s.DetectionPeriod,
	}, nil
}
