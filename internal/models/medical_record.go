package models

import "time"

type RecordStatus string

const (
	RecordInProgress RecordStatus = "in_progress"
	RecordCompleted  RecordStatus = "completed"
	RecordCancelled  RecordStatus = "cancelled"
)

// MedicalRecord: satu kunjungan klinis. Cost dan PaidAmount hanya
// difinalisasi lewat submit pembayaran di modul billing.
type MedicalRecord struct {
	ID             uint `gorm:"primaryKey"`
	PatientID      uint `gorm:"index;not null"`
	Patient        Patient
	RegistrationID *uint `gorm:"index"`
	Date           time.Time `gorm:"index;not null"`
	PoliID         uint      `gorm:"index;not null"`
	Poli           Polyclinic
	DoctorID       uint `gorm:"index;not null"`
	Doctor         Doctor
	Complaint      string       `gorm:"size:255"`
	Diagnosis      string       `gorm:"size:255"`
	Action         string       `gorm:"size:100"` // nama tindakan (teks bebas)
	Status         RecordStatus `gorm:"size:20;not null;default:in_progress"`
	Cost           float64      `gorm:"not null;default:0"` // total final (0 = belum difinalisasi)
	PaidAmount     float64      `gorm:"not null;default:0"` // akumulasi pembayaran
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Lines []MedicationLine `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE"`
}

// MedicationLine: satu obat yang diresepkan pada kunjungan.
// Price 0 berarti harga diambil dari daftar harga referensi obat.
type MedicationLine struct {
	ID       uint `gorm:"primaryKey"`
	RecordID uint `gorm:"index;not null"`
	DrugID   *uint `gorm:"index"` // nil kalau obat luar / tidak ada di master
	Name     string  `gorm:"size:100;not null"`
	Dose     string  `gorm:"size:50"` // mis. "3x1"
	Quantity int     `gorm:"not null"`
	Unit     string  `gorm:"size:20"`
	Price    float64 `gorm:"not null;default:0"` // harga satuan override
	CreatedAt time.Time
	UpdatedAt time.Time
}
