package registration

import (
	"fmt"
	"log"
	"strings"
	"time"

	"klinik-backend/internal/database"
	"klinik-backend/internal/inventory"
	"klinik-backend/internal/models"
	"klinik-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
)

type StartExamRequest struct {
	DoctorID uint `json:"doctor_id"`
}

type MedicationLineRequest struct {
	DrugID   *uint   `json:"drug_id"`
	Name     string  `json:"name"`
	Dose     string  `json:"dose"`
	Quantity int     `json:"quantity"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price"` // 0 = pakai harga referensi obat
}

type SaveRecordRequest struct {
	Complaint *string                 `json:"complaint"`
	Diagnosis *string                 `json:"diagnosis"`
	Action    *string                 `json:"action"`
	Lines     []MedicationLineRequest `json:"lines"`  // nil = baris tidak disentuh
	Finish    bool                    `json:"finish"` // pemeriksaan selesai: stok obat dikonsumsi
}

type MedicationLineResponse struct {
	ID       uint    `json:"id"`
	DrugID   *uint   `json:"drug_id"`
	Name     string  `json:"name"`
	Dose     string  `json:"dose"`
	Quantity int     `json:"quantity"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price"`
}

type RecordResponse struct {
	ID          uint                     `json:"id"`
	PatientID   uint                     `json:"patient_id"`
	PatientName string                   `json:"patient_name"`
	NoRM        string                   `json:"no_rm"`
	Date        string                   `json:"date"`
	PoliName    string                   `json:"poli_name"`
	DoctorName  string                   `json:"doctor_name"`
	Complaint   string                   `json:"complaint"`
	Diagnosis   string                   `json:"diagnosis"`
	Action      string                   `json:"action"`
	Status      string                   `json:"status"`
	Cost        float64                  `json:"cost"`
	PaidAmount  float64                  `json:"paid_amount"`
	Lines       []MedicationLineResponse `json:"lines"`
}

func recordToResponse(r models.MedicalRecord) RecordResponse {
	lines := make([]MedicationLineResponse, 0, len(r.Lines))
	for _, ln := range r.Lines {
		lines = append(lines, MedicationLineResponse{
			ID:       ln.ID,
			DrugID:   ln.DrugID,
			Name:     ln.Name,
			Dose:     ln.Dose,
			Quantity: ln.Quantity,
			Unit:     ln.Unit,
			Price:    ln.Price,
		})
	}
	return RecordResponse{
		ID:          r.ID,
		PatientID:   r.PatientID,
		PatientName: r.Patient.Name,
		NoRM:        r.Patient.NoRM,
		Date:        r.Date.Format("2006-01-02"),
		PoliName:    r.Poli.Name,
		DoctorName:  r.Doctor.Name,
		Complaint:   r.Complaint,
		Diagnosis:   r.Diagnosis,
		Action:      r.Action,
		Status:      string(r.Status),
		Cost:        r.Cost,
		PaidAmount:  r.PaidAmount,
		Lines:       lines,
	}
}

// POST /api/registrations/:id/start-exam
// Mulai pemeriksaan: buat medical record dan set antrian ke in_exam.
func StartExamHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var reg models.Registration
		if err := database.DB.First(&reg, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pendaftaran tidak ditemukan")
		}

		if reg.Status == models.RegistrationCancelled {
			return fiber.NewError(fiber.StatusBadRequest, "Pendaftaran sudah dibatalkan")
		}

		var body StartExamRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		doctorID := body.DoctorID
		if doctorID == 0 && reg.DoctorID != nil {
			doctorID = *reg.DoctorID
		}
		if doctorID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Dokter wajib dipilih")
		}

		var doc models.Doctor
		if err := database.DB.First(&doc, "id = ?", doctorID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dokter tidak ditemukan")
		}

		// Satu pendaftaran satu record
		var existing models.MedicalRecord
		if err := database.DB.Where("registration_id = ?", reg.ID).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Pemeriksaan sudah dimulai untuk pendaftaran ini")
		}

		rec := models.MedicalRecord{
			PatientID:      reg.PatientID,
			RegistrationID: &reg.ID,
			Date:           reg.Date,
			PoliID:         reg.PoliID,
			DoctorID:       doctorID,
			Complaint:      reg.Complaint,
			Status:         models.RecordInProgress,
		}
		if err := database.DB.Create(&rec).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Medical record gagal dibuat")
		}

		reg.Status = models.RegistrationInExam
		if reg.DoctorID == nil {
			reg.DoctorID = &doctorID
		}
		database.DB.Save(&reg)

		database.DB.Preload("Patient").Preload("Poli").Preload("Doctor").Preload("Lines").First(&rec, rec.ID)
		notify.Publish(notify.ColRegistrations)
		notify.Publish(notify.ColMedicalRecords)

		return c.Status(fiber.StatusCreated).JSON(recordToResponse(rec))
	}
}

// PUT /api/medical-records/:id
// Dokter mengisi diagnosa/tindakan/resep. Dengan finish=true antrian
// ditutup dan stok obat dikonsumsi FEFO per baris resep; nama obat yang
// tidak ada di master dilewati tanpa error (obat luar).
func SaveRecordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var rec models.MedicalRecord
		if err := database.DB.Preload("Lines").First(&rec, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Medical record tidak ditemukan")
		}

		if rec.Status == models.RecordCancelled {
			return fiber.NewError(fiber.StatusBadRequest, "Kunjungan sudah dibatalkan")
		}

		var body SaveRecordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.Complaint != nil {
			rec.Complaint = strings.TrimSpace(*body.Complaint)
		}
		if body.Diagnosis != nil {
			rec.Diagnosis = strings.TrimSpace(*body.Diagnosis)
		}
		if body.Action != nil {
			rec.Action = strings.TrimSpace(*body.Action)
		}

		if body.Lines != nil {
			for _, ln := range body.Lines {
				if strings.TrimSpace(ln.Name) == "" || ln.Quantity <= 0 {
					return fiber.NewError(fiber.StatusBadRequest, "Setiap baris resep butuh nama dan jumlah lebih dari 0")
				}
			}

			// Ganti seluruh baris resep
			if err := database.DB.Delete(&models.MedicationLine{}, "record_id = ?", rec.ID).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Baris resep gagal diganti")
			}
			for _, ln := range body.Lines {
				line := models.MedicationLine{
					RecordID: rec.ID,
					DrugID:   ln.DrugID,
					Name:     strings.TrimSpace(ln.Name),
					Dose:     strings.TrimSpace(ln.Dose),
					Quantity: ln.Quantity,
					Unit:     strings.TrimSpace(ln.Unit),
					Price:    ln.Price,
				}
				if err := database.DB.Create(&line).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Baris resep gagal disimpan")
				}
			}
		}

		if err := database.DB.Save(&rec).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Medical record gagal disimpan")
		}

		if body.Finish {
			// Tutup antrian; konsumsi stok hanya sekali per pendaftaran
			if rec.RegistrationID != nil {
				var reg models.Registration
				if err := database.DB.First(&reg, "id = ?", *rec.RegistrationID).Error; err == nil &&
					reg.Status != models.RegistrationDone {
					reg.Status = models.RegistrationDone
					database.DB.Save(&reg)
					notify.Publish(notify.ColRegistrations)

					database.DB.Preload("Lines").First(&rec, rec.ID)
					usages := make([]inventory.Usage, 0, len(rec.Lines))
					for _, ln := range rec.Lines {
						usages = append(usages, inventory.Usage{Name: ln.Name, Quantity: ln.Quantity})
					}
					results, err := inventory.ConsumeUsages(usages)
					if err != nil {
						log.Println("Konsumsi stok resep gagal:", err)
					}
					for _, r := range results {
						if r.Shortfall > 0 {
							log.Printf("Stok %s kurang %d saat konsumsi resep record %d", r.Name, r.Shortfall, rec.ID)
						}
					}
				}
			}
		}

		database.DB.Preload("Patient").Preload("Poli").Preload("Doctor").Preload("Lines").First(&rec, rec.ID)
		notify.Publish(notify.ColMedicalRecords)

		return c.JSON(recordToResponse(rec))
	}
}

// GET /api/medical-records?patient_id=1&status=in_progress
func ListRecordsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.MedicalRecord{}).
			Preload("Patient").Preload("Poli").Preload("Doctor").Preload("Lines")

		if pidStr := c.Query("patient_id"); pidStr != "" {
			var pid uint
			if _, err := fmt.Sscan(pidStr, &pid); err != nil || pid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "patient_id tidak valid")
			}
			dbq = dbq.Where("patient_id = ?", pid)
		}

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		if dateStr := c.Query("date"); dateStr != "" {
			d, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Format tanggal harus 'YYYY-MM-DD'")
			}
			dbq = dbq.Where("date = ?", d)
		}

		var recs []models.MedicalRecord
		if err := dbq.Order("date DESC, created_at DESC").Find(&recs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Medical record gagal dimuat")
		}

		res := make([]RecordResponse, 0, len(recs))
		for _, r := range recs {
			res = append(res, recordToResponse(r))
		}
		return c.JSON(res)
	}
}

// GET /api/medical-records/:id
func GetRecordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var rec models.MedicalRecord
		if err := database.DB.
			Preload("Patient").Preload("Poli").Preload("Doctor").Preload("Lines").
			First(&rec, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Medical record tidak ditemukan")
		}

		return c.JSON(recordToResponse(rec))
	}
}
