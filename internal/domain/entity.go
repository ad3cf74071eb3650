package domain

import "time"

// AppState is the single application state tree.
// Only the core store mutates it, and only through declared updaters.
type AppState struct {
	Toggles           Toggles                `json:"toggles"`
	ExposureDetection ExposureDetectionState `json:"exposureDetection"`
	Configuration     Configuration          `json:"configuration"`
	User              UserState              `json:"user"`
	Analytics         AnalyticsState         `json:"analytics"`
}

// Toggles are independent debug flags.
type Toggles struct {
	MustShowForceUpdate         bool `json:"mustShowForceUpdate"`
	IsPushNotificationDebugMode bool `json:"isPushNotificationDebugMode"`
	IsBackgroundTaskDebugMode   bool `json:"isBackgroundTaskDebugMode"`
}

// ExposureDetectionState records the outcome of past detection runs.
type ExposureDetectionState struct {
	LastDetectionDate        *time.Time        `json:"lastDetectionDate,omitempty"`
	PreviousDetectionResults []DetectionResult `json:"previousDetectionResults"`
}

// DetectionResult is the outcome of one exposure detection run.
// A nil Summary means no key matched.
type DetectionResult struct {
	Date      time.Time      `json:"date"`
	Summary   *SummaryData   `json:"summary,omitempty"`
	Exposures []ExposureInfo `json:"exposures,omitempty"`
}

// Matched reports whether the run matched at least one key.
func (r DetectionResult) Matched() bool {
	return r.Summary != nil
}

// SummaryData summarizes a matching detection run.
type SummaryData struct {
	MatchedKeyCount       int `json:"matchedKeyCount"`
	DaysSinceLastExposure int `json:"daysSinceLastExposure"`
	// DurationByAttenuationBucket holds seconds spent below and above the
	// attenuation threshold, in that order.
	DurationByAttenuationBucket []int `json:"durationByAttenuationBucket"`
	MaximumRiskScore            int   `json:"maximumRiskScore"`
}

// ExposureInfo describes a single matched exposure.
type ExposureInfo struct {
	Date             time.Time     `json:"date"`
	Duration         time.Duration `json:"duration"`
	AttenuationValue int           `json:"attenuationValue"`
	TransmissionRisk int           `json:"transmissionRisk"`
	TotalRiskScore   int           `json:"totalRiskScore"`
}

// DiagnosisKey is a temporary exposure key as handed out by the
// exposure notification framework. It is never stored.
type DiagnosisKey struct {
	KeyData               []byte
	RollingStartNumber    uint32
	RollingPeriod         uint32
	TransmissionRiskLevel int
}

// Configuration is the remote configuration snapshot used by detection.
type Configuration struct {
	MinimumBuildVersion     int           `json:"minimumBuildVersion"`
	ExposureDetectionPeriod time.Duration `json:"exposureDetectionPeriod"`
	FetchedAt               *time.Time    `json:"fetchedAt,omitempty"`
}

// UserState holds user facing status.
type UserState struct {
	CovidStatus CovidStatus `json:"covidStatus"`
}

// AnalyticsState keeps track of the last operational info sends.
type AnalyticsState struct {
	EventWithExposureLastSent    *CalendarDay `json:"eventWithExposureLastSent,omitempty"`
	EventWithoutExposureLastSent *CalendarDay `json:"eventWithoutExposureLastSent,omitempty"`

	// Claim tokens of sends in flight. Not persisted so a crash mid-send
	// does not block the month.
	WithExposureSending    string `json:"-"`
	WithoutExposureSending string `json:"-"`
}

// Capabilities describes what the host platform supports.
type Capabilities struct {
	ExposureNotification bool
}

// Alert is a modal report with acknowledgement buttons.
type Alert struct {
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Actions []string `json:"actions"`
}

// ScreenID identifies a presentable screen.
type ScreenID string

const (
	ScreenLoading       ScreenID = "loading"
	ScreenStateExplorer ScreenID = "state_explorer"
)

// Screen is a full screen presentation request.
type Screen struct {
	ID      ScreenID `json:"id"`
	Message string   `json:"message"`
}

// LocalNotification is the content of a locally scheduled notification.
type LocalNotification struct {
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	UserInfo   map[string]string `json:"userInfo,omitempty"`
	Identifier string            `json:"identifier"`
}

// NotificationTrigger fires a notification after Interval.
type NotificationTrigger struct {
	Interval time.Duration
}

// DetectionTrigger tells what started an exposure detection.
type DetectionTrigger int

const (
	TriggerForeground DetectionTrigger = iota
	TriggerBackground
)

func (t DetectionTrigger) String() string {
	switch t {
	case TriggerForeground:
		return "foreground"
	case TriggerBackground:
		return "background"
	default:
		return "unknown"
	}
}

// OperationalInfo is the analytics payload.
type OperationalInfo struct {
	ExposureNotification bool         `json:"exposureNotification"`
	WithExposure         bool         `json:"withExposure"`
	LastRiskyExposureOn  *CalendarDay `json:"lastRiskyExposureOn,omitempty"`
	SentOn               CalendarDay  `json:"sentOn"`
}

// DefaultState returns the state of a fresh install.
func DefaultState() AppState {
	return AppState{
		ExposureDetection: ExposureDetectionState{
			PreviousDetectionResults: []DetectionResult{},
		},
		User: UserState{CovidStatus: CovidStatus{Kind: StatusNeutral}},
	}
}

// Clone returns a deep copy of the state.
func (s AppState) Clone() AppState {
	out := s
	if s.ExposureDetection.LastDetectionDate != nil {
		d := *s.ExposureDetection.LastDetectionDate
		out.ExposureDetection.LastDetectionDate = &d
	}
	out.ExposureDetection.PreviousDetectionResults = make([]DetectionResult, len(s.ExposureDetection.PreviousDetectionResults))
	for i, r := range s.ExposureDetection.PreviousDetectionResults {
		out.ExposureDetection.PreviousDetectionResults[i] = r.clone()
	}
	if s.Configuration.FetchedAt != nil {
		t := *s.Configuration.FetchedAt
		out.Configuration.FetchedAt = &t
	}
	out.Analytics.EventWithExposureLastSent = s.Analytics.EventWithExposureLastSent.clone()
	out.Analytics.EventWithoutExposureLastSent = s.Analytics.EventWithoutExposureLastSent.clone()
	return out
}

func (r DetectionResult) clone() DetectionResult {
	out := r
	if r.Summary != nil {
		sum := *r.Summary
		sum.DurationByAttenuationBucket = append([]int(nil), r.Summary.DurationByAttenuationBucket...)
		out.Summary = &sum
	}
	if r.Exposures != nil {
		out.Exposures = append([]ExposureInfo(nil), r.Exposures...)
	}
	return out
}
