package model

import "time"

// Report is the metadata row pointing at a document stored in the professional's Google Drive.
// The report body itself never lands in our database.
type Report struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	PatientID     string    `db:"patient_id" json:"patient_id"`
	GDriveFileID  string    `db:"gdrive_file_id" json:"gdrive_file_id"`
	GDriveFileURL string    `db:"gdrive_file_url" json:"gdrive_file_url"`
	FileName      string    `db:"file_name" json:"file_name"`
	FileSize      *int64    `db:"file_size" json:"file_size,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ExternalDocument is the handle returned by the document exporter. Not persisted as such.
type ExternalDocument struct {
	ID   string
	Name string
	URL  string
	Size *int64
}
