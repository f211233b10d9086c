package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inforia/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AppointmentRepository manages the caller's calendar. Every method is scoped by user id.
type AppointmentRepository interface {
	// ListAppointments returns appointments with start_time >= from and end_time <= to; nil bounds are open.
	ListAppointments(ctx context.Context, userID string, from, to *time.Time) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, id, userID string) (*model.Appointment, error)
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	// UpdateAppointment applies the non-nil patch fields and returns the updated row, or nil if not found.
	UpdateAppointment(ctx context.Context, id, userID string, p model.AppointmentPatch) (*model.Appointment, error)
	// DeleteAppointment reports whether a row was removed.
	DeleteAppointment(ctx context.Context, id, userID string) (bool, error)
}

type appointmentRepo struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepo creates a new AppointmentRepository
func NewAppointmentRepo(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepo{pool: pool}
}

const appointmentColumns = `id, user_id, patient_id, title, description, start_time, end_time, status,
		appointment_type, location, notes, created_at, updated_at`

func (r *appointmentRepo) ListAppointments(ctx context.Context, userID string, from, to *time.Time) ([]model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR start_time >= $2)
		  AND ($3::timestamptz IS NULL OR end_time <= $3)
		ORDER BY start_time ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	appts, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Appointment])
	if err != nil {
		return nil, fmt.Errorf("scanning appointments: %w", err)
	}
	if appts == nil {
		return []model.Appointment{}, nil
	}
	return appts, nil
}

func (r *appointmentRepo) collectOne(rows pgx.Rows, err error, id string) (*model.Appointment, error) {
	if err != nil {
		return nil, fmt.Errorf("querying appointment %s: %w", id, err)
	}
	a, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Appointment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning appointment %s: %w", id, err)
	}
	return a, nil
}

func (r *appointmentRepo) GetAppointment(ctx context.Context, id, userID string) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 AND user_id = $2`
	rows, err := r.pool.Query(ctx, query, id, userID)
	return r.collectOne(rows, err, id)
}

func (r *appointmentRepo) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	query := `
		INSERT INTO appointments (user_id, patient_id, title, description, start_time, end_time, status,
			appointment_type, location, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		a.UserID,
		a.PatientID,
		a.Title,
		a.Description,
		a.StartTime,
		a.EndTime,
		a.Status,
		a.AppointmentType,
		a.Location,
		a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepo) UpdateAppointment(ctx context.Context, id, userID string, p model.AppointmentPatch) (*model.Appointment, error) {
	query := `
		UPDATE appointments
		SET title = COALESCE($3, title),
		    description = COALESCE($4, description),
		    start_time = COALESCE($5, start_time),
		    end_time = COALESCE($6, end_time),
		    status = COALESCE($7, status),
		    appointment_type = COALESCE($8, appointment_type),
		    location = COALESCE($9, location),
		    notes = COALESCE($10, notes),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + appointmentColumns
	rows, err := r.pool.Query(ctx, query,
		id,
		userID,
		p.Title,
		p.Description,
		p.StartTime,
		p.EndTime,
		p.Status,
		p.AppointmentType,
		p.Location,
		p.Notes,
	)
	return r.collectOne(rows, err, id)
}

func (r *appointmentRepo) DeleteAppointment(ctx context.Context, id, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting appointment %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
