package debugmenu

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"exposure-debugpanel/internal/domain"
)

// DateLayout is the layout of every date in debug reports.
const DateLayout = "2006-01-02@15:04"

// rollingInterval is the length of one exposure notification interval number.
const rollingInterval = 600 * time.Second

// FormatDate renders t in UTC with DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// KeyValidity returns the window a diagnosis key was used in.
func KeyValidity(key domain.DiagnosisKey) (start, end time.Time) {
	seconds := int64(rollingInterval / time.Second)
	start = time.Unix(int64(key.RollingStartNumber)*seconds, 0).UTC()
	end = time.Unix((int64(key.RollingStartNumber)+int64(key.RollingPeriod))*seconds, 0).UTC()
	return start, end
}

// DescribeKey renders a key as <Start: …, End: …, Key: base64>.
func DescribeKey(key domain.DiagnosisKey) string {
	start, end := KeyValidity(key)
	return fmt.Sprintf("<Start: %s, End: %s, Key: %s>",
		FormatDate(start), FormatDate(end), base64.StdEncoding.EncodeToString(key.KeyData))
}

// FormatDiagnosisKeys renders the body of the keys report.
func FormatDiagnosisKeys(keys []domain.DiagnosisKey) string {
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = DescribeKey(k)
	}
	return fmt.Sprintf("Count: %d\n%s", len(keys), strings.Join(lines, ",\n"))
}

// DescribeSummary renders a detection summary, or "none" for no match.
func DescribeSummary(sum *domain.SummaryData) string {
	if sum == nil {
		return "none"
	}
	var below, above int
	if len(sum.DurationByAttenuationBucket) > 0 {
		below = sum.DurationByAttenuationBucket[0]
	}
	if len(sum.DurationByAttenuationBucket) > 1 {
		above = sum.DurationByAttenuationBucket[1]
	}
	return strings.Join([]string{
		fmt.Sprintf("Count: %d", sum.MatchedKeyCount),
		fmt.Sprintf("LastExposure: %d days ago", sum.DaysSinceLastExposure),
		fmt.Sprintf("Durations: %d <= 50, %d > 50", below, above),
		fmt.Sprintf("MaxRisk: %d", sum.MaximumRiskScore),
	}, ", ")
}

// DescribeExposure renders a single exposure.
func DescribeExposure(info domain.ExposureInfo) string {
	return strings.Join([]string{
		"Date: " + FormatDate(info.Date),
		fmt.Sprintf("Duration: %dmin", int(info.Duration/time.Minute)),
		fmt.Sprintf("Attenuation: %d", info.AttenuationValue),
		fmt.Sprintf("Risk: %d", info.TransmissionRisk),
		fmt.Sprintf("Score: %d", info.TotalRiskScore),
	}, ", ")
}

// DescribeResult renders a detection result with its exposures, one per line.
func DescribeResult(result domain.DetectionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", FormatDate(result.Date), DescribeSummary(result.Summary))
	for _, e := range result.Exposures {
		b.WriteString("\n  ")
		b.WriteString(DescribeExposure(e))
	}
	return b.String()
}

// FormatScheduledIDs renders pending notification identifiers.
func FormatScheduledIDs(ids []string) string {
	lines := make([]string, len(ids))
	for i, id := range ids {
		lines[i] = "- " + id
	}
	return strings.Join(lines, "\n\n")
}

// FormatPastDetections renders the detection history report.
func FormatPastDetections(state domain.ExposureDetectionState) string {
	last := "never"
	if state.LastDetectionDate != nil {
		last = "at " + FormatDate(*state.LastDetectionDate)
	}
	results := make([]string, len(state.PreviousDetectionResults))
	for i, r := range state.PreviousDetectionResults {
		results[i] = DescribeResult(r)
	}
	return fmt.Sprintf("Last detection: %s.\nAll results: %s", last, strings.Join(results, ",\n"))
}

// DescribeError renders err and every error it wraps, with their types.
func DescribeError(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%T: %v", err, err)
	for e := errors.Unwrap(err); e != nil; e = errors.Unwrap(e) {
		fmt.Fprintf(&b, "\ncaused by %T: %v", e, e)
	}
	return b.String()
}
