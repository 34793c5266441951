package registration

import (
	"fmt"
	"time"

	"klinik-backend/internal/database"
	"klinik-backend/internal/models"
	"klinik-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
)

type CreateRegistrationRequest struct {
	PatientID uint   `json:"patient_id"`
	PoliID    uint   `json:"poli_id"`
	DoctorID  *uint  `json:"doctor_id"`
	Date      string `json:"date"` // "2025-12-09", kosong = hari ini
	Complaint string `json:"complaint"`
}

type RegistrationResponse struct {
	ID          uint   `json:"id"`
	PatientID   uint   `json:"patient_id"`
	PatientName string `json:"patient_name"`
	NoRM        string `json:"no_rm"`
	PoliID      uint   `json:"poli_id"`
	PoliName    string `json:"poli_name"`
	DoctorID    *uint  `json:"doctor_id"`
	DoctorName  string `json:"doctor_name"`
	Date        string `json:"date"`
	QueueNumber int    `json:"queue_number"`
	Status      string `json:"status"`
	Complaint   string `json:"complaint"`
}

type UpdateStatusRequest struct {
	Status models.RegistrationStatus `json:"status"`
}

func registrationToResponse(r models.Registration) RegistrationResponse {
	resp := RegistrationResponse{
		ID:          r.ID,
		PatientID:   r.PatientID,
		PatientName: r.Patient.Name,
		NoRM:        r.Patient.NoRM,
		PoliID:      r.PoliID,
		PoliName:    r.Poli.Name,
		DoctorID:    r.DoctorID,
		Date:        r.Date.Format("2006-01-02"),
		QueueNumber: r.QueueNumber,
		Status:      string(r.Status),
		Complaint:   r.Complaint,
	}
	if r.Doctor != nil {
		resp.DoctorName = r.Doctor.Name
	}
	return resp
}

// dayOf: potong ke tanggal saja (00:00 lokal)
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// POST /api/registrations
// Nomor antrian berjalan per poli per hari.
func CreateRegistrationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRegistrationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.PatientID == 0 || body.PoliID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "patient_id dan poli_id wajib diisi")
		}

		var pat models.Patient
		if err := database.DB.First(&pat, "id = ?", body.PatientID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Pasien tidak ditemukan")
		}

		var poli models.Polyclinic
		if err := database.DB.First(&poli, "id = ?", body.PoliID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Poli tidak ditemukan")
		}

		if body.DoctorID != nil {
			var doc models.Doctor
			if err := database.DB.First(&doc, "id = ?", *body.DoctorID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Dokter tidak ditemukan")
			}
		}

		date := dayOf(time.Now())
		if body.Date != "" {
			d, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Format tanggal harus 'YYYY-MM-DD'")
			}
			date = d
		}

		// Nomor antrian terakhir poli ini hari ini
		var lastNumber int
		database.DB.Model(&models.Registration{}).
			Where("poli_id = ? AND date = ?", poli.ID, date).
			Select("COALESCE(MAX(queue_number), 0)").
			Scan(&lastNumber)

		reg := models.Registration{
			PatientID:   pat.ID,
			PoliID:      poli.ID,
			DoctorID:    body.DoctorID,
			Date:        date,
			QueueNumber: lastNumber + 1,
			Status:      models.RegistrationWaiting,
			Complaint:   body.Complaint,
		}

		if err := database.DB.Create(&reg).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pendaftaran gagal dibuat")
		}

		database.DB.Preload("Patient").Preload("Poli").Preload("Doctor").First(&reg, reg.ID)
		notify.Publish(notify.ColRegistrations)

		return c.Status(fiber.StatusCreated).JSON(registrationToResponse(reg))
	}
}

// GET /api/registrations?date=2025-12-09&poli_id=1&status=waiting
func ListRegistrationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Registration{}).
			Preload("Patient").Preload("Poli").Preload("Doctor")

		if dateStr := c.Query("date"); dateStr != "" {
			d, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Format tanggal harus 'YYYY-MM-DD'")
			}
			dbq = dbq.Where("date = ?", d)
		}

		if poliStr := c.Query("poli_id"); poliStr != "" {
			var pid uint
			if _, err := fmt.Sscan(poliStr, &pid); err != nil || pid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "poli_id tidak valid")
			}
			dbq = dbq.Where("poli_id = ?", pid)
		}

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var regs []models.Registration
		if err := dbq.Order("date DESC, queue_number ASC").Find(&regs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pendaftaran gagal dimuat")
		}

		res := make([]RegistrationResponse, 0, len(regs))
		for _, r := range regs {
			res = append(res, registrationToResponse(r))
		}
		return c.JSON(res)
	}
}

// PUT /api/registrations/:id/status
// Pembatalan pendaftaran ikut membatalkan medical record-nya (kalau ada),
// supaya kunjungan itu tidak pernah muncul di daftar tagihan.
func UpdateRegistrationStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var reg models.Registration
		if err := database.DB.First(&reg, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pendaftaran tidak ditemukan")
		}

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		switch body.Status {
		case models.RegistrationWaiting, models.RegistrationInExam,
			models.RegistrationDone, models.RegistrationCancelled:
			// ok
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Status tidak valid (waiting|in_exam|done|cancelled)")
		}

		reg.Status = body.Status
		if err := database.DB.Save(&reg).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Status gagal diperbarui")
		}

		if body.Status == models.RegistrationCancelled {
			database.DB.Model(&models.MedicalRecord{}).
				Where("registration_id = ?", reg.ID).
				Update("status", models.RecordCancelled)
			notify.Publish(notify.ColMedicalRecords)
		}

		notify.Publish(notify.ColRegistrations)

		return c.JSON(fiber.Map{
			"id":     reg.ID,
			"status": reg.Status,
		})
	}
}
