package service

import (
	"errors"

	"inforia/internal/model"
)

var (
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrSubscriptionInactive    = errors.New("subscription not active")
	ErrQuotaExceeded           = errors.New("report limit reached")
	ErrSubscriptionCanceled    = errors.New("subscription canceled")
	ErrPatientNotFound         = errors.New("patient not found or access denied")
	ErrNoInputProvided         = errors.New("no transcription or session notes provided")
	ErrIntegrationNotConnected = errors.New("google drive integration not connected")
	ErrTokenExpired            = errors.New("google access token not available")
	ErrExportFailed            = errors.New("failed to create google doc")
	ErrDraftFailed             = errors.New("report drafting failed")
	ErrPersistFailed           = errors.New("failed to save report metadata")
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrInvalidTimeRange        = errors.New("end_time must be after start_time")
	ErrInvalidAppointment      = errors.New("invalid appointment")
	ErrUnknownPlan             = errors.New("unknown plan")
	ErrNotConfigured           = errors.New("feature not configured")
)

// QuotaError is returned by the quota guard. It carries the snapshot so callers can
// tell the user where they stand.
type QuotaError struct {
	Kind         error
	Subscription *model.Subscription
}

func (e *QuotaError) Error() string { return e.Kind.Error() }
func (e *QuotaError) Unwrap() error { return e.Kind }

// UpstreamError wraps a failure from an external API. Message is safe to return to the caller.
type UpstreamError struct {
	Kind    error
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// ValidationError names the offending field for 400 responses.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Kind }
