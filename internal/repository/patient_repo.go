package repository

import (
	"context"
	"errors"
	"fmt"

	"inforia/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PatientRepository reads the caller's patients.
type PatientRepository interface {
	// GetOwnedPatient returns the patient only if it belongs to userID, otherwise nil.
	GetOwnedPatient(ctx context.Context, patientID, userID string) (*model.Patient, error)
	ListPatients(ctx context.Context, userID string) ([]model.Patient, error)
}

type patientRepo struct {
	pool *pgxpool.Pool
}

// NewPatientRepo creates a new PatientRepository
func NewPatientRepo(pool *pgxpool.Pool) PatientRepository {
	return &patientRepo{pool: pool}
}

func (r *patientRepo) GetOwnedPatient(ctx context.Context, patientID, userID string) (*model.Patient, error) {
	query := `
		SELECT id, user_id, full_name, email, phone, created_at, updated_at
		FROM patients
		WHERE id = $1 AND user_id = $2
	`
	var p model.Patient
	err := r.pool.QueryRow(ctx, query, patientID, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.FullName,
		&p.Email,
		&p.Phone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching patient %s: %w", patientID, err)
	}
	return &p, nil
}

func (r *patientRepo) ListPatients(ctx context.Context, userID string) ([]model.Patient, error) {
	query := `
		SELECT id, user_id, full_name, email, phone, created_at, updated_at
		FROM patients
		WHERE user_id = $1
		ORDER BY full_name ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	patients, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Patient])
	if err != nil {
		return nil, fmt.Errorf("scanning patients: %w", err)
	}
	// If no patients found, return an empty slice, not nil
	if patients == nil {
		return []model.Patient{}, nil
	}
	return patients, nil
}
