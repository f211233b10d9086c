package dto

import "time"

type AppointmentCreateDTO struct {
	PatientID       string    `json:"patient_id" validate:"required,patient_uuid"`
	Title           string    `json:"title" validate:"notblank,max=200"`
	Description     *string   `json:"description"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	EndTime         time.Time `json:"end_time" validate:"required"`
	AppointmentType string    `json:"appointment_type" validate:"omitempty,oneof=session consultation follow_up initial_assessment"`
	Location        *string   `json:"location"`
	Notes           *string   `json:"notes"`
}

type AppointmentUpdateDTO struct {
	Title           *string    `json:"title" validate:"omitempty,notblank,max=200"`
	Description     *string    `json:"description"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	Status          *string    `json:"status" validate:"omitempty,oneof=scheduled completed cancelled no_show"`
	AppointmentType *string    `json:"appointment_type" validate:"omitempty,oneof=session consultation follow_up initial_assessment"`
	Location        *string    `json:"location"`
	Notes           *string    `json:"notes"`
}
