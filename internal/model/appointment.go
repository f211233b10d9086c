package model

import "time"

const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
	AppointmentNoShow    = "no_show"
)

const (
	AppointmentTypeSession           = "session"
	AppointmentTypeConsultation      = "consultation"
	AppointmentTypeFollowUp          = "follow_up"
	AppointmentTypeInitialAssessment = "initial_assessment"
)

type Appointment struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	PatientID       string    `db:"patient_id" json:"patient_id"`
	Title           string    `db:"title" json:"title"`
	Description     *string   `db:"description" json:"description,omitempty"`
	StartTime       time.Time `db:"start_time" json:"start_time"`
	EndTime         time.Time `db:"end_time" json:"end_time"`
	Status          string    `db:"status" json:"status"`
	AppointmentType string    `db:"appointment_type" json:"appointment_type"`
	Location        *string   `db:"location" json:"location,omitempty"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// AppointmentPatch carries only the fields a caller asked to change.
type AppointmentPatch struct {
	Title           *string
	Description     *string
	StartTime       *time.Time
	EndTime         *time.Time
	Status          *string
	AppointmentType *string
	Location        *string
	Notes           *string
}
