package models

import "time"

type Patient struct {
	ID        uint   `gorm:"primaryKey"`
	NoRM      string `gorm:"size:20;uniqueIndex;not null"` // nomor rekam medis (RM-YYYYMM-NNNN)
	Name      string `gorm:"size:100;not null"`
	NIK       string `gorm:"size:20;index"` // NIK KTP (opsional)
	BirthDate *time.Time
	Gender    string `gorm:"size:10"` // "L" / "P"
	Address   string `gorm:"size:255"`
	Phone     string `gorm:"size:30"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
