package models

import (
	"time"

	"gorm.io/gorm"
)

// Drug: master obat sekaligus item stok. Harga jual dipakai sebagai
// daftar harga referensi obat saat baris resep tidak membawa harga sendiri.
type Drug struct {
	ID         uint    `gorm:"primaryKey"`
	Name       string  `gorm:"size:100;not null;unique"`
	Unit       string  `gorm:"size:20;not null"` // tablet, botol, strip, dst.
	Price      float64 `gorm:"not null"`         // harga jual per unit
	SupplierID *uint   `gorm:"index"`
	Supplier   *Supplier
	MinStock   int `gorm:"not null;default:0"` // ambang stok minimum
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`

	Batches []DrugBatch `gorm:"foreignKey:DrugID"`
}

// DrugBatch: satu lot/batch stok obat dengan kadaluarsa sendiri.
// Batch dengan quantity 0 di-soft-delete, tidak pernah negatif.
type DrugBatch struct {
	ID         uint   `gorm:"primaryKey"`
	DrugID     uint   `gorm:"index;not null"`
	LotCode    string `gorm:"size:50;not null"`
	Quantity   int    `gorm:"not null"`
	ExpiryDate *time.Time `gorm:"index"` // nil = tanpa kadaluarsa
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}
