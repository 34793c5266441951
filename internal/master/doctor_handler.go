package master

import (
	"strings"

	"klinik-backend/internal/database"
	"klinik-backend/internal/models"
	"klinik-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
)

type DoctorResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	SIPNumber      string `json:"sip_number"`
	PoliID         *uint  `json:"poli_id"`
	PoliName       string `json:"poli_name"`
}

type CreateDoctorRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	SIPNumber      string `json:"sip_number"`
	PoliID         *uint  `json:"poli_id"`
}

type UpdateDoctorRequest struct {
	Name           *string `json:"name"`
	Specialization *string `json:"specialization"`
	SIPNumber      *string `json:"sip_number"`
	PoliID         *uint   `json:"poli_id"`
}

func doctorToResponse(d models.Doctor) DoctorResponse {
	resp := DoctorResponse{
		ID:             d.ID,
		Name:           d.Name,
		Specialization: d.Specialization,
		SIPNumber:      d.SIPNumber,
		PoliID:         d.PoliID,
	}
	if d.Poli != nil {
		resp.PoliName = d.Poli.Name
	}
	return resp
}

// GET /api/doctors
func ListDoctorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var doctors []models.Doctor
		if err := database.DB.Preload("Poli").Order("name asc").Find(&doctors).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dokter gagal dimuat")
		}

		res := make([]DoctorResponse, 0, len(doctors))
		for _, d := range doctors {
			res = append(res, doctorToResponse(d))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/doctors (admin)
func CreateDoctorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDoctorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data tidak valid")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama dokter wajib diisi")
		}

		if body.PoliID != nil {
			var poli models.Polyclinic
			if err := database.DB.First(&poli, "id = ?", *body.PoliID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Poli tidak ditemukan")
			}
		}

		doctor := models.Doctor{
			Name:           body.Name,
			Specialization: strings.TrimSpace(body.Specialization),
			SIPNumber:      strings.TrimSpace(body.SIPNumber),
			PoliID:         body.PoliID,
		}
		if err := database.DB.Create(&doctor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dokter gagal dibuat")
		}

		database.DB.Preload("Poli").First(&doctor, doctor.ID)
		notify.Publish(notify.ColMasterData)

		return c.Status(fiber.StatusCreated).JSON(doctorToResponse(doctor))
	}
}

// PUT /api/admin/doctors/:id
func UpdateDoctorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var doctor models.Doctor
		if err := database.DB.First(&doctor, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dokter tidak ditemukan")
		}

		var body UpdateDoctorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data tidak valid")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nama dokter tidak boleh kosong")
			}
			doctor.Name = name
		}
		if body.Specialization != nil {
			doctor.Specialization = strings.TrimSpace(*body.Specialization)
		}
		if body.SIPNumber != nil {
			doctor.SIPNumber = strings.TrimSpace(*body.SIPNumber)
		}
		if body.PoliID != nil {
			var poli models.Polyclinic
			if err := database.DB.First(&poli, "id = ?", *body.PoliID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Poli tidak ditemukan")
			}
			doctor.PoliID = body.PoliID
		}

		if err := database.DB.Save(&doctor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dokter gagal diperbarui")
		}

		database.DB.Preload("Poli").First(&doctor, doctor.ID)
		notify.Publish(notify.ColMasterData)

		return c.JSON(doctorToResponse(doctor))
	}
}

// DELETE /api/admin/doctors/:id
func DeleteDoctorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var doctor models.Doctor
		if err := database.DB.First(&doctor, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dokter tidak ditemukan")
		}

		var count int64
		database.DB.Model(&models.MedicalRecord{}).Where("doctor_id = ?", doctor.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Dokter masih dipakai data kunjungan")
		}

		if err := database.DB.Delete(&doctor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dokter gagal dihapus")
		}

		notify.Publish(notify.ColMasterData)

		return c.JSON(fiber.Map{"message": "Dokter dihapus"})
	}
}
