package dto

import "time"

// SaveReportRequest is the body of POST /reports.
type SaveReportRequest struct {
	PatientID     string `json:"patient_id" validate:"required"`
	ReportContent string `json:"report_content" validate:"notblank"`
	SessionType   string `json:"session_type" validate:"notblank"`
}

type SavedReportDTO struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	GDriveFileURL string    `json:"gdrive_file_url"`
	GDriveFileID  string    `json:"gdrive_file_id"`
	FileName      string    `json:"file_name"`
	PatientName   string    `json:"patient_name"`
	SessionType   string    `json:"session_type"`
}

type UsageDTO struct {
	PlanID           string `json:"plan_id"`
	ReportsLimit     int    `json:"reports_limit"`
	ReportsUsed      int    `json:"reports_used"`
	ReportsRemaining int    `json:"reports_remaining"`
	Status           string `json:"status"`
}

type SaveReportResponse struct {
	Success      bool           `json:"success"`
	Message      string         `json:"message"`
	Report       SavedReportDTO `json:"report"`
	Subscription UsageDTO       `json:"subscription"`
}

// DraftReportResponse is the body of a successful POST /reports/draft.
type DraftReportResponse struct {
	Report string `json:"report"`
}

type ReportResponseDTO struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patient_id"`
	FileName      string    `json:"file_name"`
	GDriveFileID  string    `json:"gdrive_file_id"`
	GDriveFileURL string    `json:"gdrive_file_url"`
	FileSize      *int64    `json:"file_size,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
