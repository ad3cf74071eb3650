package domain

import "errors"

var (
	// ErrAuthorizationDenied indicates that the user refused exposure notification access.
	ErrAuthorizationDenied = errors.New("exposure notification authorization denied")

	// ErrNotAuthorized indicates a call that requires a prior successful authorization.
	ErrNotAuthorized = errors.New("exposure notification not authorized")

	// ErrNotSupported indicates that the platform lacks the exposure notification capability.
	ErrNotSupported = errors.New("exposure notification not supported")

	// ErrDetectionDeclined is returned by an ExposureDetector that chose not
	// to run, e.g. because the framework's daily quota is used up. It is not
	// a failure and nothing is recorded.
	ErrDetectionDeclined = errors.New("exposure detection declined")

	// ErrNoDetectionResult indicates that a successful detection left no result in state.
	ErrNoDetectionResult = errors.New("no result recorded")

	// ErrStoreStopped indicates a dispatch after the store has been shut down.
	ErrStoreStopped = errors.New("store is stopped")

	// ErrStoreNotStarted indicates a dispatch before Start.
	ErrStoreNotStarted = errors.New("store is not started")

	// ErrUnknownAction indicates an action that is neither an updater nor a side effect.
	ErrUnknownAction = errors.New("unknown action kind")
)
