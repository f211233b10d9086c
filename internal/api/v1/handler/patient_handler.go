package handler

import (
	"net/http"
	"strings"

	"inforia/internal/api/v1/dto"
	"inforia/internal/middleware"
	"inforia/internal/model"
	"inforia/internal/service"
	"inforia/internal/util"
)

// PatientHandler exposes read-only patient endpoints.
type PatientHandler struct {
	patientService service.PatientService
	reportService  service.ReportService
}

func NewPatientHandler(patientService service.PatientService, reportService service.ReportService) *PatientHandler {
	return &PatientHandler{patientService: patientService, reportService: reportService}
}

// RegisterRoutes mounts /patients and /patients/{id}[/reports]
func (h *PatientHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/patients", allowMethod(http.MethodGet, authMw(http.HandlerFunc(h.listPatients))))
	mux.Handle("/patients/", allowMethod(http.MethodGet, authMw(http.HandlerFunc(h.handlePatient))))
}

func (h *PatientHandler) handlePatient(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/patients/"), "/")
	patientID, sub, _ := strings.Cut(rest, "/")
	if !util.IsValidUUID(patientID) {
		writeError(w, http.StatusBadRequest, "patient_id must be a valid UUID", "")
		return
	}
	switch sub {
	case "":
		h.getPatient(w, r, patientID)
	case "reports":
		h.listPatientReports(w, r, patientID)
	default:
		writeError(w, http.StatusNotFound, "Not found", "")
	}
}

// listPatients godoc
// @Summary List the caller's patients
// @Tags patients
// @Produce json
// @Success 200 {array} model.Patient
// @Failure 401 {object} dto.ErrorResponse
// @Router /patients [get]
func (h *PatientHandler) listPatients(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	patients, err := h.patientService.ListPatients(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, patients)
}

// getPatient godoc
// @Summary Get a patient
// @Tags patients
// @Produce json
// @Param patientId path string true "Patient ID"
// @Success 200 {object} model.Patient
// @Failure 404 {object} dto.ErrorResponse "Patient not found or access denied"
// @Router /patients/{patientId} [get]
func (h *PatientHandler) getPatient(w http.ResponseWriter, r *http.Request, patientID string) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	p, err := h.patientService.GetPatient(r.Context(), userID, patientID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// listPatientReports godoc
// @Summary List saved reports for a patient, newest first
// @Tags patients
// @Produce json
// @Param patientId path string true "Patient ID"
// @Success 200 {array} dto.ReportResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Patient not found or access denied"
// @Router /patients/{patientId}/reports [get]
func (h *PatientHandler) listPatientReports(w http.ResponseWriter, r *http.Request, patientID string) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	reports, err := h.reportService.ListPatientReports(r.Context(), userID, patientID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTOs(reports))
}

func toReportDTOs(reports []model.Report) []dto.ReportResponseDTO {
	out := make([]dto.ReportResponseDTO, 0, len(reports))
	for _, rep := range reports {
		out = append(out, dto.ReportResponseDTO{
			ID:            rep.ID,
			PatientID:     rep.PatientID,
			FileName:      rep.FileName,
			GDriveFileID:  rep.GDriveFileID,
			GDriveFileURL: rep.GDriveFileURL,
			FileSize:      rep.FileSize,
			CreatedAt:     rep.CreatedAt,
		})
	}
	return out
}
