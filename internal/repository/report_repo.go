package repository

import (
	"context"
	"fmt"

	"inforia/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportRepository stores report metadata. Report bodies live in Google Drive only.
type ReportRepository interface {
	// CreateReport inserts the row and fills in ID and CreatedAt.
	CreateReport(ctx context.Context, r *model.Report) error
	ListReportsByPatient(ctx context.Context, userID, patientID string) ([]model.Report, error)
}

type reportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepo creates a new ReportRepository
func NewReportRepo(pool *pgxpool.Pool) ReportRepository {
	return &reportRepo{pool: pool}
}

func (r *reportRepo) CreateReport(ctx context.Context, rep *model.Report) error {
	query := `
		INSERT INTO reports (user_id, patient_id, gdrive_file_id, gdrive_file_url, file_name, file_size)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		rep.UserID,
		rep.PatientID,
		rep.GDriveFileID,
		rep.GDriveFileURL,
		rep.FileName,
		rep.FileSize,
	).Scan(&rep.ID, &rep.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting report for patient %s: %w", rep.PatientID, err)
	}
	return nil
}

func (r *reportRepo) ListReportsByPatient(ctx context.Context, userID, patientID string) ([]model.Report, error) {
	query := `
		SELECT id, user_id, patient_id, gdrive_file_id, gdrive_file_url, file_name, file_size, created_at
		FROM reports
		WHERE user_id = $1 AND patient_id = $2
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID, patientID)
	if err != nil {
		return nil, fmt.Errorf("listing reports for patient %s: %w", patientID, err)
	}
	reports, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Report])
	if err != nil {
		return nil, fmt.Errorf("scanning reports: %w", err)
	}
	if reports == nil {
		return []model.Report{}, nil
	}
	return reports, nil
}
