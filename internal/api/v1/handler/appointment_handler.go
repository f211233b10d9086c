package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"inforia/internal/api/v1/dto"
	"inforia/internal/middleware"
	"inforia/internal/model"
	"inforia/internal/service"
	"inforia/internal/util"

	"github.com/go-playground/validator/v10"
)

type AppointmentHandler struct {
	appointmentService service.AppointmentService
	validate           *validator.Validate
}

func NewAppointmentHandler(appointmentService service.AppointmentService, v *validator.Validate) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService, validate: v}
}

// RegisterRoutes mounts appointment routes under /appointments and /appointments/{id}
func (h *AppointmentHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/appointments", authMw(http.HandlerFunc(h.handleAppointments)))
	mux.Handle("/appointments/", authMw(http.HandlerFunc(h.handleAppointment)))
}

func (h *AppointmentHandler) handleAppointments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listAppointments(w, r)
	case http.MethodPost:
		h.createAppointment(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "")
	}
}

func (h *AppointmentHandler) handleAppointment(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/appointments/"), "/")
	if !util.IsValidUUID(id) {
		writeError(w, http.StatusBadRequest, "appointment id must be a valid UUID", "")
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getAppointment(w, r, id)
	case http.MethodPatch:
		h.updateAppointment(w, r, id)
	case http.MethodDelete:
		h.deleteAppointment(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "")
	}
}

func parseTimeParam(r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// listAppointments godoc
// @Summary List appointments
// @Description Appointments starting at or after `from` and ending at or before `to`, ordered by start time.
// @Tags appointments
// @Produce json
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Success 200 {array} model.Appointment
// @Failure 400 {object} dto.ErrorResponse
// @Router /appointments [get]
func (h *AppointmentHandler) listAppointments(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	from, ok := parseTimeParam(r, "from")
	if !ok {
		writeError(w, http.StatusBadRequest, "from must be an RFC3339 timestamp", "")
		return
	}
	to, ok := parseTimeParam(r, "to")
	if !ok {
		writeError(w, http.StatusBadRequest, "to must be an RFC3339 timestamp", "")
		return
	}

	appts, err := h.appointmentService.ListAppointments(r.Context(), userID, from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

// createAppointment godoc
// @Summary Create an appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointment body dto.AppointmentCreateDTO true "Appointment"
// @Success 201 {object} model.Appointment
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Patient not found or access denied"
// @Router /appointments [post]
func (h *AppointmentHandler) createAppointment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req dto.AppointmentCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload", "")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, firstValidationMessage(err, nil), "")
		return
	}

	a := &model.Appointment{
		UserID:          userID,
		PatientID:       req.PatientID,
		Title:           req.Title,
		Description:     req.Description,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		AppointmentType: req.AppointmentType,
		Location:        req.Location,
		Notes:           req.Notes,
	}
	if err := h.appointmentService.CreateAppointment(r.Context(), a); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AppointmentHandler) getAppointment(w http.ResponseWriter, r *http.Request, id string) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	a, err := h.appointmentService.GetAppointment(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// updateAppointment godoc
// @Summary Update an appointment
// @Description Only the fields present in the body change.
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointmentId path string true "Appointment ID"
// @Param appointment body dto.AppointmentUpdateDTO true "Fields to change"
// @Success 200 {object} model.Appointment
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Appointment not found"
// @Router /appointments/{appointmentId} [patch]
func (h *AppointmentHandler) updateAppointment(w http.ResponseWriter, r *http.Request, id string) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req dto.AppointmentUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload", "")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, firstValidationMessage(err, nil), "")
		return
	}

	a, err := h.appointmentService.UpdateAppointment(r.Context(), userID, id, model.AppointmentPatch{
		Title:           req.Title,
		Description:     req.Description,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Status:          req.Status,
		AppointmentType: req.AppointmentType,
		Location:        req.Location,
		Notes:           req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AppointmentHandler) deleteAppointment(w http.ResponseWriter, r *http.Request, id string) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	if err := h.appointmentService.DeleteAppointment(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
