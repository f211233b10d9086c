package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"inforia/internal/api/v1/dto"
	"inforia/internal/service"

	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errMsg, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: errMsg, Message: message})
}

// allowMethod rejects other methods before authentication runs.
func allowMethod(method string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeServiceError maps service errors to the response envelope. Every handler goes through here
// so a given failure always produces the same status and wording.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		quotaErr    *service.QuotaError
		upstreamErr *service.UpstreamError
		validErr    *service.ValidationError
	)

	switch {
	case errors.Is(err, service.ErrSubscriptionNotFound):
		writeError(w, http.StatusNotFound, "Subscription not found",
			"Please contact support to set up your subscription")
	case errors.Is(err, service.ErrSubscriptionInactive):
		writeError(w, http.StatusForbidden, "Subscription not active",
			"Your subscription is not active. Please renew your plan to continue creating reports.")
	case errors.Is(err, service.ErrQuotaExceeded) && errors.As(err, &quotaErr):
		sub := quotaErr.Subscription
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{
			Error: "Report limit reached",
			Message: fmt.Sprintf("You have reached your monthly limit of %d reports. Please upgrade your plan to continue.",
				sub.ReportsLimit),
			Subscription: &dto.QuotaSubscriptionDTO{
				PlanID:           sub.PlanID,
				ReportsLimit:     sub.ReportsLimit,
				ReportsUsed:      sub.ReportsUsed,
				ReportsRemaining: 0,
			},
		})
	case errors.Is(err, service.ErrSubscriptionCanceled):
		writeError(w, http.StatusForbidden, "Subscription canceled",
			"Canceled subscriptions cannot be renewed. Please choose a new plan.")
	case errors.Is(err, service.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "Patient not found or access denied",
			"The specified patient does not exist or you don't have access to it")
	case errors.Is(err, service.ErrIntegrationNotConnected):
		writeError(w, http.StatusBadRequest, "Google Drive integration not connected",
			"Please connect your Google account to save reports to Google Drive")
	case errors.Is(err, service.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "Google access token not available",
			"Please re-authenticate with Google to save reports")
	case errors.Is(err, service.ErrExportFailed):
		writeError(w, http.StatusInternalServerError, "Failed to create Google Doc",
			"Unable to save report to Google Drive")
	case errors.Is(err, service.ErrPersistFailed):
		details := ""
		if errors.As(err, &upstreamErr) {
			details = upstreamErr.Message
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Failed to save report metadata to database",
			Details: details,
		})
	case errors.Is(err, service.ErrNoInputProvided):
		writeError(w, http.StatusBadRequest, "No se proporcionó ni transcripción ni notas de sesión.", "")
	case errors.Is(err, service.ErrDraftFailed):
		msg := err.Error()
		if errors.As(err, &upstreamErr) && upstreamErr.Message != "" {
			msg = upstreamErr.Message
		}
		writeError(w, http.StatusInternalServerError, msg, "")
	case errors.Is(err, service.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "Appointment not found", "")
	case errors.Is(err, service.ErrInvalidTimeRange):
		writeError(w, http.StatusBadRequest, "end_time must be after start_time", "")
	case errors.As(err, &validErr):
		writeError(w, http.StatusBadRequest, validErr.Message, "")
	case errors.Is(err, service.ErrUnknownPlan):
		writeError(w, http.StatusBadRequest, "Unknown plan", "Choose one of: profesional, clinica, enterprise")
	case errors.Is(err, service.ErrInvalidWebhook):
		writeError(w, http.StatusBadRequest, "Invalid webhook", "")
	case errors.Is(err, service.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "Service not configured", "")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled service error")
		writeError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}
