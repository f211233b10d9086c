package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inforia/internal/model"
	"inforia/internal/repository"
	"inforia/internal/util"

	"github.com/rs/zerolog"
)

// SaveReportInput is an already validated save request.
type SaveReportInput struct {
	Claims            *util.Claims
	GoogleAccessToken string
	PatientID         string
	Content           string
	SessionType       string
}

// SaveReportResult is everything the response needs after a successful save.
type SaveReportResult struct {
	Report      *model.Report
	PatientName string
	SessionType string
	Usage       model.UsageCounter
	// UsageFromSnapshot is set when the increment failed and Usage was derived from the quota check.
	UsageFromSnapshot bool
}

// ReportsRemaining is floored at zero.
func (r *SaveReportResult) ReportsRemaining() int {
	if rem := r.Usage.ReportsLimit - r.Usage.ReportsUsed; rem > 0 {
		return rem
	}
	return 0
}

// ReportService runs the report drafting and saving pipelines.
type ReportService interface {
	Draft(ctx context.Context, transcription, sessionNotes string) (string, error)
	Save(ctx context.Context, in SaveReportInput) (*SaveReportResult, error)
	ListPatientReports(ctx context.Context, userID, patientID string) ([]model.Report, error)
}

type reportService struct {
	subs     SubscriptionService
	patients repository.PatientRepository
	reports  repository.ReportRepository
	google   GoogleIntegrationService
	exporter DocumentExporter
	drafter  ReportDrafter
	now      func() time.Time
	logger   zerolog.Logger
}

// NewReportService creates a new ReportService with a scoped logger.
func NewReportService(
	subs SubscriptionService,
	patients repository.PatientRepository,
	reports repository.ReportRepository,
	google GoogleIntegrationService,
	exporter DocumentExporter,
	drafter ReportDrafter,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		subs:     subs,
		patients: patients,
		reports:  reports,
		google:   google,
		exporter: exporter,
		drafter:  drafter,
		now:      time.Now,
		logger:   logger.With().Str("service", "ReportService").Logger(),
	}
}

// ReportFileName builds "YYYY-MM-DD - patient - session type" with the date in UTC.
func ReportFileName(at time.Time, patientName, sessionType string) string {
	return fmt.Sprintf("%s - %s - %s",
		at.UTC().Format("2006-01-02"),
		strings.TrimSpace(patientName),
		strings.TrimSpace(sessionType),
	)
}

func (s *reportService) Draft(ctx context.Context, transcription, sessionNotes string) (string, error) {
	return s.drafter.Draft(ctx, transcription, sessionNotes)
}

// Save checks quota and patient ownership, exports the document, records its metadata
// and counts it against the quota. Steps run strictly in that order and the first
// failure stops the pipeline, except the final increment which only degrades the response.
func (s *reportService) Save(ctx context.Context, in SaveReportInput) (*SaveReportResult, error) {
	userID := in.Claims.Subject
	log := s.logger.With().Str("user_id", userID).Str("patient_id", in.PatientID).Logger()

	sub, err := s.subs.CheckQuota(ctx, userID)
	if err != nil {
		return nil, err
	}

	patient, err := s.patients.GetOwnedPatient(ctx, in.PatientID, userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to resolve patient")
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	ts, err := s.google.TokenSource(ctx, in.Claims, in.GoogleAccessToken)
	if err != nil {
		return nil, err
	}

	fileName := ReportFileName(s.now(), patient.FullName, in.SessionType)
	doc, err := s.exporter.Export(ctx, ts, fileName, in.Content)
	if err != nil {
		return nil, err
	}

	rep := &model.Report{
		UserID:        userID,
		PatientID:     patient.ID,
		GDriveFileID:  doc.ID,
		GDriveFileURL: doc.URL,
		FileName:      fileName,
		FileSize:      doc.Size,
	}
	if err := s.reports.CreateReport(ctx, rep); err != nil {
		// The Google Doc already exists and is now orphaned.
		log.Error().Err(err).Str("gdrive_file_id", doc.ID).Msg("Failed to insert report metadata")
		return nil, &UpstreamError{Kind: ErrPersistFailed, Message: err.Error(), Err: err}
	}

	res := &SaveReportResult{
		Report:      rep,
		PatientName: patient.FullName,
		SessionType: in.SessionType,
	}
	counter, err := s.subs.RecordReportCreated(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("report_id", rep.ID).Msg("Failed to increment reports used; report saved anyway")
		res.UsageFromSnapshot = true
		res.Usage = model.UsageCounter{
			PlanID:       sub.PlanID,
			ReportsLimit: sub.ReportsLimit,
			ReportsUsed:  sub.ReportsUsed + 1,
			Status:       sub.Status,
		}
	} else {
		res.Usage = *counter
	}

	log.Info().Str("report_id", rep.ID).Int("reports_used", res.Usage.ReportsUsed).Msg("Report saved")
	return res, nil
}

func (s *reportService) ListPatientReports(ctx context.Context, userID, patientID string) ([]model.Report, error) {
	patient, err := s.patients.GetOwnedPatient(ctx, patientID, userID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	reports, err := s.reports.ListReportsByPatient(ctx, userID, patientID)
	if err != nil {
		s.logger.Error().Err(err).Str("patient_id", patientID).Msg("Failed to list reports")
		return nil, err
	}
	return reports, nil
}
