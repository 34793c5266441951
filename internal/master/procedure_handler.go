package master

import (
	"strings"

	"klinik-backend/internal/database"
	"klinik-backend/internal/models"
	"klinik-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
)

type ProcedureResponse struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type CreateProcedureRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type UpdateProcedureRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

// GET /api/procedures
func ListProceduresHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var procs []models.Procedure
		if err := database.DB.Order("name asc").Find(&procs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tindakan gagal dimuat")
		}

		res := make([]ProcedureResponse, 0, len(procs))
		for _, p := range procs {
			res = append(res, ProcedureResponse{ID: p.ID, Name: p.Name, Price: p.Price})
		}
		return c.JSON(res)
	}
}

// POST /api/admin/procedures (admin)
func CreateProcedureHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProcedureRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data tidak valid")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama tindakan wajib diisi")
		}
		if body.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Harga tidak boleh negatif")
		}

		proc := models.Procedure{Name: body.Name, Price: body.Price}
		if err := database.DB.Create(&proc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tindakan gagal dibuat")
		}

		notify.Publish(notify.ColMasterData)

		return c.Status(fiber.StatusCreated).JSON(ProcedureResponse{ID: proc.ID, Name: proc.Name, Price: proc.Price})
	}
}

// PUT /api/admin/procedures/:id
func UpdateProcedureHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var proc models.Procedure
		if err := database.DB.First(&proc, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tindakan tidak ditemukan")
		}

		var body UpdateProcedureRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data tidak valid")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nama tindakan tidak boleh kosong")
			}
			proc.Name = name
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Harga tidak boleh negatif")
			}
			proc.Price = *body.Price
		}

		if err := database.DB.Save(&proc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tindakan gagal diperbarui")
		}

		notify.Publish(notify.ColMasterData)

		return c.JSON(ProcedureResponse{ID: proc.ID, Name: proc.Name, Price: proc.Price})
	}
}

// DELETE /api/admin/procedures/:id
func DeleteProcedureHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var proc models.Procedure
		if err := database.DB.First(&proc, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tindakan tidak ditemukan")
		}

		if err := database.DB.Delete(&proc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tindakan gagal dihapus")
		}

		notify.Publish(notify.ColMasterData)

		return c.JSON(fiber.Map{"message": "Tindakan dihapus"})
	}
}
