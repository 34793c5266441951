package master

import (
	"strings"

	"klinik-backend/internal/database"
	"klinik-backend/internal/models"
	"klinik-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
)

type PolyclinicResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CreatePolyclinicRequest struct {
	Name string `json:"name"`
}

type UpdatePolyclinicRequest struct {
	Name *string `json:"name"`
}

// GET /api/polyclinics (semua user yang login)
func ListPolyclinicsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var polis []models.Polyclinic
		if err := database.DB.Order("name asc").Find(&polis).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Poli gagal dimuat")
		}

		res := make([]PolyclinicResponse, 0, len(polis))
		for _, p := range polis {
			res = append(res, PolyclinicResponse{ID: p.ID, Name: p.Name})
		}
		return c.JSON(res)
	}
}

// POST /api/admin/polyclinics (admin)
func CreatePolyclinicHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePolyclinicRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data tidak valid")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama poli wajib diisi")
		}

		poli := models.Polyclinic{Name: body.Name}
		if err := database.DB.Create(&poli).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Poli gagal dibuat")
		}

		notify.Publish(notify.ColMasterData)

		return c.Status(fiber.StatusCreated).JSON(PolyclinicResponse{ID: poli.ID, Name: poli.Name})
	}
}

// PUT /api/admin/polyclinics/:id
func UpdatePolyclinicHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var poli models.Polyclinic
		if err := database.DB.First(&poli, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Poli tidak ditemukan")
		}

		var body UpdatePolyclinicRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data tidak valid")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nama poli tidak boleh kosong")
			}
			poli.Name = name
		}

		if err := database.DB.Save(&poli).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Poli gagal diperbarui")
		}

		notify.Publish(notify.ColMasterData)

		return c.JSON(PolyclinicResponse{ID: poli.ID, Name: poli.Name})
	}
}

// DELETE /api/admin/polyclinics/:id
func DeletePolyclinicHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var poli models.Polyclinic
		if err := database.DB.First(&poli, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Poli tidak ditemukan")
		}

		// Poli yang masih dipakai pendaftaran tidak boleh dihapus
		var count int64
		database.DB.Model(&models.Registration{}).Where("poli_id = ?", poli.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Poli masih dipakai data pendaftaran")
		}

		if err := database.DB.Delete(&poli).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Poli gagal dihapus")
		}

		notify.Publish(notify.ColMasterData)

		return c.JSON(fiber.Map{"message": "Poli dihapus"})
	}
}
