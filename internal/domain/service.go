package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const calendarDayLayout = "2006-01-02"

// CalendarDay is a date without time of day.
type CalendarDay struct {
	Year  int
	Month time.Month
	Day   int
}

// CalendarDayOf returns the calendar day t falls on, in t's location.
func CalendarDayOf(t time.Time) CalendarDay {
	y, m, d := t.Date()
	return CalendarDay{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the day.
func (d CalendarDay) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CalendarDay) String() string {
	return d.Time().Format(calendarDayLayout)
}

// Before reports whether d is strictly earlier than other.
func (d CalendarDay) Before(other CalendarDay) bool {
	return d.Time().Before(other.Time())
}

// SameMonth reports whether both days are in the same month of the same year.
func (d CalendarDay) SameMonth(other CalendarDay) bool {
	return d.Year == other.Year && d.Month == other.Month
}

// IsZero reports whether d is the zero value.
func (d CalendarDay) IsZero() bool {
	return d == CalendarDay{}
}

func (d CalendarDay) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.String())
}

func (d *CalendarDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = CalendarDay{}
		return nil
	}
	t, err := time.Parse(calendarDayLayout, s)
	if err != nil {
		return fmt.Errorf("parse calendar day %q: %w", s, err)
	}
	*d = CalendarDayOf(t)
	return nil
}

func (d *CalendarDay) clone() *CalendarDay {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// StatusKind is the kind of COVID status the user is in.
type StatusKind string

const (
	StatusNeutral  StatusKind = "neutral"
	StatusRisk     StatusKind = "risk"
	StatusPositive StatusKind = "positive"
)

// CovidStatus is the user's status. LastContact is set for StatusRisk and
// LastUpload for StatusPositive.
type CovidStatus struct {
	Kind        StatusKind  `json:"kind"`
	LastContact CalendarDay `json:"lastContact,omitempty"`
	LastUpload  CalendarDay `json:"lastUpload,omitempty"`
}

func (s CovidStatus) String() string {
	switch s.Kind {
	case StatusRisk:
		return fmt.Sprintf("risk(lastContact: %s)", s.LastContact)
	case StatusPositive:
		return fmt.Sprintf("positive(lastUpload: %s)", s.LastUpload)
	default:
		return string(StatusNeutral)
	}
}

// StatusEventKind enumerates the events the status machine accepts.
type StatusEventKind string

const (
	EventContactDetected  StatusEventKind = "contactDetected"
	EventDataUpload       StatusEventKind = "dataUpload"
	EventAlertDismissal   StatusEventKind = "alertDismissal"
	EventRecoverConfirmed StatusEventKind = "recoverConfirmed"
)

// StatusEvent is an input of the status machine. Date is only meaningful
// for contact detection and data upload.
type StatusEvent struct {
	Kind StatusEventKind
	Date CalendarDay
}

// ContactDetected returns the event for a risky contact on day.
func ContactDetected(day CalendarDay) StatusEvent {
	return StatusEvent{Kind: EventContactDetected, Date: day}
}

// DataUpload returns the event for a positive key upload on day.
func DataUpload(day CalendarDay) StatusEvent {
	return StatusEvent{Kind: EventDataUpload, Date: day}
}

// NextStatus is the pure status transition function.
func NextStatus(current CovidStatus, event StatusEvent) CovidStatus {
	switch current.Kind {
	case StatusRisk:
		switch event.Kind {
		case EventContactDetected:
			if current.LastContact.Before(event.Date) {
				return CovidStatus{Kind: StatusRisk, LastContact: event.Date}
			}
			return current
		case EventDataUpload:
			return CovidStatus{Kind: StatusPositive, LastUpload: event.Date}
		case EventAlertDismissal:
			return CovidStatus{Kind: StatusNeutral}
		}
	case StatusPositive:
		if event.Kind == EventRecoverConfirmed {
			return CovidStatus{Kind: StatusNeutral}
		}
	default:
		switch event.Kind {
		case EventContactDetected:
			return CovidStatus{Kind: StatusRisk, LastContact: event.Date}
		case EventDataUpload:
			return CovidStatus{Kind: StatusPositive, LastUpload: event.Date}
		}
	}
	return current
}

// DetectionNeeded reports whether a non-forced detection should run at now.
func DetectionNeeded(state ExposureDetectionState, cfg Configuration, now time.Time) bool {
	if state.LastDetectionDate == nil {
		return true
	}
	return !now.Before(state.LastDetectionDate.Add(cfg.ExposureDetectionPeriod))
}

// LatestDetection returns the most recent recorded result, if any.
func LatestDetection(state ExposureDetectionState) (DetectionResult, bool) {
	n := len(state.PreviousDetectionResults)
	if n == 0 {
		return DetectionResult{}, false
	}
	return state.PreviousDetectionResults[n-1], true
}
