package models

import "time"

type FinanceType string

const (
	FinanceIncome  FinanceType = "income"
	FinanceExpense FinanceType = "expense"
)

// FinanceEntry: pemasukan/pengeluaran klinik. Pembayaran tagihan
// otomatis membuat entry income dengan RecordID terisi.
type FinanceEntry struct {
	ID          uint        `gorm:"primaryKey"`
	Type        FinanceType `gorm:"size:10;not null;index"`
	Date        time.Time   `gorm:"index;not null"` // per hari
	Amount      float64     `gorm:"not null"`
	Description string      `gorm:"size:255;not null"`
	RecordID    *uint       `gorm:"index"` // kunjungan sumber (untuk income pembayaran)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
