package models

import "time"

type RegistrationStatus string

const (
	RegistrationWaiting   RegistrationStatus = "waiting"
	RegistrationInExam    RegistrationStatus = "in_exam"
	RegistrationDone      RegistrationStatus = "done"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// Registration: pendaftaran rawat jalan. Nomor antrian berjalan
// per poli per hari.
type Registration struct {
	ID          uint `gorm:"primaryKey"`
	PatientID   uint `gorm:"index;not null"`
	Patient     Patient
	PoliID      uint `gorm:"index;not null"`
	Poli        Polyclinic
	DoctorID    *uint `gorm:"index"`
	Doctor      *Doctor
	Date        time.Time          `gorm:"index;not null"` // tanggal kunjungan (00:00)
	QueueNumber int                `gorm:"not null"`
	Status      RegistrationStatus `gorm:"size:20;not null;default:waiting"`
	Complaint   string             `gorm:"size:255"` // keluhan awal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
