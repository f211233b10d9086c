package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"inforia/internal/api/v1/dto"
	"inforia/internal/middleware"
	"inforia/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// GoogleAccessTokenHeader carries the Supabase session's provider_token for Google.
const GoogleAccessTokenHeader = "X-Google-Access-Token"

// Multipart bodies above this are rejected; transcripts of a long session fit comfortably.
const maxDraftFormBytes = 10 << 20

type ReportHandler struct {
	reportService service.ReportService
	validate      *validator.Validate
	logger        zerolog.Logger
}

func NewReportHandler(reportService service.ReportService, v *validator.Validate, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, validate: v, logger: logger}
}

// RegisterRoutes mounts the drafting and saving pipelines.
func (h *ReportHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/reports", allowMethod(http.MethodPost, authMw(http.HandlerFunc(h.saveReport))))
	mux.Handle("/reports/draft", allowMethod(http.MethodPost, authMw(http.HandlerFunc(h.draftReport))))
}

// draftReport godoc
// @Summary Draft a session report
// @Description Sends the session transcript and notes to the LLM and returns a Markdown draft. Nothing is stored.
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Param transcription formData string false "Session transcript"
// @Param sessionNotes formData string false "Therapist notes"
// @Success 200 {object} dto.DraftReportResponse
// @Failure 400 {object} dto.ErrorResponse "No se proporcionó ni transcripción ni notas de sesión."
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse "Upstream LLM error"
// @Router /reports/draft [post]
func (h *ReportHandler) draftReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDraftFormBytes)
	if err := r.ParseMultipartForm(maxDraftFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, "Invalid form data", "")
		return
	}

	report, err := h.reportService.Draft(r.Context(), r.PostFormValue("transcription"), r.PostFormValue("sessionNotes"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DraftReportResponse{Report: report})
}

// saveReport godoc
// @Summary Save a report to Google Drive
// @Description Checks quota and patient ownership, creates a Google Doc, records its metadata and counts it against the plan.
// @Tags reports
// @Accept json
// @Produce json
// @Param report body dto.SaveReportRequest true "Report to save"
// @Param X-Google-Access-Token header string false "Google OAuth access token"
// @Success 201 {object} dto.SaveReportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Subscription not active or report limit reached"
// @Failure 404 {object} dto.ErrorResponse "Subscription or patient not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /reports [post]
func (h *ReportHandler) saveReport(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication token is missing", "")
		return
	}

	// A wrongly typed field stays at its zero value and fails validation below like a missing one.
	var req dto.SaveReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			writeError(w, http.StatusBadRequest, "Invalid JSON payload", "")
			return
		}
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, firstValidationMessage(err, saveReportMessages), "")
		return
	}
	if err := h.validate.Var(req.PatientID, "patient_uuid"); err != nil {
		writeError(w, http.StatusBadRequest, "patient_id must be a valid UUID", "")
		return
	}

	res, err := h.reportService.Save(r.Context(), service.SaveReportInput{
		Claims:            claims,
		GoogleAccessToken: r.Header.Get(GoogleAccessTokenHeader),
		PatientID:         req.PatientID,
		Content:           req.ReportContent,
		SessionType:       req.SessionType,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SaveReportResponse{
		Success: true,
		Message: "Report saved successfully to Google Drive",
		Report: dto.SavedReportDTO{
			ID:            res.Report.ID,
			CreatedAt:     res.Report.CreatedAt,
			GDriveFileURL: res.Report.GDriveFileURL,
			GDriveFileID:  res.Report.GDriveFileID,
			FileName:      res.Report.FileName,
			PatientName:   res.PatientName,
			SessionType:   res.SessionType,
		},
		Subscription: dto.UsageDTO{
			PlanID:           res.Usage.PlanID,
			ReportsLimit:     res.Usage.ReportsLimit,
			ReportsUsed:      res.Usage.ReportsUsed,
			ReportsRemaining: res.ReportsRemaining(),
			Status:           res.Usage.Status,
		},
	})
}
