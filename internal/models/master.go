package models

import "time"

// Master data: poli, dokter, tindakan, supplier.
// Obat ada di drug.go karena membawa field stok.

type Polyclinic struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Doctor struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:100;not null"`
	Specialization string `gorm:"size:100"`
	SIPNumber      string `gorm:"size:50"` // nomor surat izin praktik
	PoliID         *uint  `gorm:"index"`   // poli utama (opsional)
	Poli           *Polyclinic
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Procedure: tindakan medis, sumber daftar harga referensi tindakan.
type Procedure struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:100;not null;unique"`
	Price     float64 `gorm:"not null"` // harga referensi
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Supplier struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:200;not null"`
	Address   string `gorm:"size:255"`
	Phone     string `gorm:"size:30"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
