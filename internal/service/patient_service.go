package service

import (
	"context"

	"inforia/internal/model"
	"inforia/internal/repository"

	"github.com/rs/zerolog"
)

// PatientService exposes the caller's patients. Patients are maintained elsewhere; this is read-only.
type PatientService interface {
	ListPatients(ctx context.Context, userID string) ([]model.Patient, error)
	GetPatient(ctx context.Context, userID, patientID string) (*model.Patient, error)
}

type patientService struct {
	repo   repository.PatientRepository
	logger zerolog.Logger
}

func NewPatientService(repo repository.PatientRepository, logger zerolog.Logger) PatientService {
	return &patientService{
		repo:   repo,
		logger: logger.With().Str("service", "PatientService").Logger(),
	}
}

func (s *patientService) ListPatients(ctx context.Context, userID string) ([]model.Patient, error) {
	patients, err := s.repo.ListPatients(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list patients")
		return nil, err
	}
	return patients, nil
}

// GetPatient does not distinguish a missing patient from one owned by someone else.
func (s *patientService) GetPatient(ctx context.Context, userID, patientID string) (*model.Patient, error) {
	p, err := s.repo.GetOwnedPatient(ctx, patientID, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("patient_id", patientID).Msg("Failed to fetch patient")
		return nil, err
	}
	if p == nil {
		return nil, ErrPatientNotFound
	}
	return p, nil
}
