package database

import (
	"log"

	"klinik-backend/internal/config"
	"klinik-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Tidak bisa konek ke database: %v", err)
	}

	// Migrasi manual MedicalRecord: kolom paid_amount ditambahkan belakangan
	// (sebelum AutoMigrate, supaya data lama tetap terjaga)
	if DB.Migrator().HasTable(&models.MedicalRecord{}) {
		if !DB.Migrator().HasColumn(&models.MedicalRecord{}, "paid_amount") {
			log.Println("Menambahkan kolom medical_records.paid_amount...")

			if err := DB.Exec("ALTER TABLE medical_records ADD COLUMN paid_amount DOUBLE PRECISION NOT NULL DEFAULT 0").Error; err != nil {
				log.Printf("Gagal menambahkan kolom paid_amount (mungkin sudah ada): %v", err)
			}

			// Kunjungan completed lama dianggap sudah lunas sebesar cost
			if err := DB.Exec("UPDATE medical_records SET paid_amount = cost WHERE status = 'completed' AND paid_amount = 0").Error; err != nil {
				log.Printf("Gagal backfill paid_amount: %v", err)
			} else {
				log.Println("Backfill paid_amount untuk kunjungan completed selesai")
			}
		}
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.Polyclinic{},
		&models.Doctor{},
		&models.Procedure{},
		&models.Supplier{},
		&models.Drug{},
		&models.DrugBatch{},
		&models.Registration{},
		&models.MedicalRecord{},
		&models.MedicationLine{},
		&models.Invoice{},
		&models.FinanceEntry{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate gagal: %v", err)
	}

	// AutoMigrate kadang tidak menambahkan constraint lot; pastikan index
	// unik lot per obat ada (lot yang sama boleh muncul lagi setelah
	// batch lama di-soft-delete, makanya partial index)
	DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_drug_batches_drug_lot
		ON drug_batches(drug_id, lot_code) WHERE deleted_at IS NULL`)

	log.Println("Koneksi database berhasil. Migrasi selesai.")
}
