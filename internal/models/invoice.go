package models

import "time"

type InvoiceStatus string

const (
	InvoicePaid   InvoiceStatus = "lunas"
	InvoiceUnpaid InvoiceStatus = "belum_lunas"
)

// Invoice: cermin tagihan per kunjungan, di-upsert setiap submit
// pembayaran. Satu baris per medical record.
type Invoice struct {
	ID        uint   `gorm:"primaryKey"`
	Number    string `gorm:"size:30;uniqueIndex;not null"` // INV-YYYYMMDD-NNNN
	RecordID  uint   `gorm:"uniqueIndex;not null"`
	Record    MedicalRecord
	Total     float64       `gorm:"not null"`
	Paid      float64       `gorm:"not null"`
	Status    InvoiceStatus `gorm:"size:20;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
