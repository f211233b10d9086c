package service

import (
	"context"
	"strings"
	"time"

	"inforia/internal/model"
	"inforia/internal/repository"

	"github.com/rs/zerolog"
)

var (
	appointmentStatuses = map[string]bool{
		model.AppointmentScheduled: true,
		model.AppointmentCompleted: true,
		model.AppointmentCancelled: true,
		model.AppointmentNoShow:    true,
	}
	appointmentTypes = map[string]bool{
		model.AppointmentTypeSession:           true,
		model.AppointmentTypeConsultation:      true,
		model.AppointmentTypeFollowUp:          true,
		model.AppointmentTypeInitialAssessment: true,
	}
)

// AppointmentService manages the professional's calendar.
type AppointmentService interface {
	ListAppointments(ctx context.Context, userID string, from, to *time.Time) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, userID, id string) (*model.Appointment, error)
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	UpdateAppointment(ctx context.Context, userID, id string, p model.AppointmentPatch) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, userID, id string) error
}

type appointmentService struct {
	repo     repository.AppointmentRepository
	patients repository.PatientRepository
	logger   zerolog.Logger
}

func NewAppointmentService(repo repository.AppointmentRepository, patients repository.PatientRepository, logger zerolog.Logger) AppointmentService {
	return &appointmentService{
		repo:     repo,
		patients: patients,
		logger:   logger.With().Str("service", "AppointmentService").Logger(),
	}
}

func invalidAppointment(msg string) error {
	return &ValidationError{Kind: ErrInvalidAppointment, Message: msg}
}

func (s *appointmentService) ListAppointments(ctx context.Context, userID string, from, to *time.Time) ([]model.Appointment, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, ErrInvalidTimeRange
	}
	appts, err := s.repo.ListAppointments(ctx, userID, from, to)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list appointments")
		return nil, err
	}
	return appts, nil
}

func (s *appointmentService) GetAppointment(ctx context.Context, userID, id string) (*model.Appointment, error) {
	a, err := s.repo.GetAppointment(ctx, id, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("appointment_id", id).Msg("Failed to fetch appointment")
		return nil, err
	}
	if a == nil {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

// CreateAppointment validates and inserts a. Status is always reset to scheduled.
func (s *appointmentService) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return invalidAppointment("title is required")
	}
	if a.StartTime.IsZero() || a.EndTime.IsZero() {
		return invalidAppointment("start_time and end_time are required")
	}
	if !a.EndTime.After(a.StartTime) {
		return ErrInvalidTimeRange
	}
	if a.AppointmentType == "" {
		a.AppointmentType = model.AppointmentTypeSession
	}
	if !appointmentTypes[a.AppointmentType] {
		return invalidAppointment("invalid appointment_type")
	}
	a.Status = model.AppointmentScheduled

	patient, err := s.patients.GetOwnedPatient(ctx, a.PatientID, a.UserID)
	if err != nil {
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}

	if err := s.repo.CreateAppointment(ctx, a); err != nil {
		s.logger.Error().Err(err).Str("user_id", a.UserID).Msg("Failed to create appointment")
		return err
	}
	return nil
}

func (s *appointmentService) UpdateAppointment(ctx context.Context, userID, id string, p model.AppointmentPatch) (*model.Appointment, error) {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return nil, invalidAppointment("title cannot be empty")
		}
		p.Title = &t
	}
	if p.Status != nil && !appointmentStatuses[*p.Status] {
		return nil, invalidAppointment("invalid status")
	}
	if p.AppointmentType != nil && !appointmentTypes[*p.AppointmentType] {
		return nil, invalidAppointment("invalid appointment_type")
	}

	// Only one bound changing still has to keep the range valid.
	if p.StartTime != nil || p.EndTime != nil {
		start, end := p.StartTime, p.EndTime
		if start == nil || end == nil {
			current, err := s.GetAppointment(ctx, userID, id)
			if err != nil {
				return nil, err
			}
			if start == nil {
				start = &current.StartTime
			}
			if end == nil {
				end = &current.EndTime
			}
		}
		if !end.After(*start) {
			return nil, ErrInvalidTimeRange
		}
	}

	a, err := s.repo.UpdateAppointment(ctx, id, userID, p)
	if err != nil {
		s.logger.Error().Err(err).Str("appointment_id", id).Msg("Failed to update appointment")
		return nil, err
	}
	if a == nil {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

func (s *appointmentService) DeleteAppointment(ctx context.Context, userID, id string) error {
	deleted, err := s.repo.DeleteAppointment(ctx, id, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("appointment_id", id).Msg("Failed to delete appointment")
		return err
	}
	if !deleted {
		return ErrAppointmentNotFound
	}
	return nil
}
