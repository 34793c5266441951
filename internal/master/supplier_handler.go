package master

import (
	"strings"

	"klinik-backend/internal/database"
	"klinik-backend/internal/models"
	"klinik-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
)

type SupplierResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type CreateSupplierRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type UpdateSupplierRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sups []models.Supplier
		if err := database.DB.Order("name asc").Find(&sups).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Supplier gagal dimuat")
		}

		res := make([]SupplierResponse, 0, len(sups))
		for _, s := range sups {
			res = append(res, SupplierResponse{ID: s.ID, Name: s.Name, Address: s.Address, Phone: s.Phone})
		}
		return c.JSON(res)
	}
}

// POST /api/admin/suppliers (admin)
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data tidak valid")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama supplier wajib diisi")
		}

		sup := models.Supplier{
			Name:    body.Name,
			Address: strings.TrimSpace(body.Address),
			Phone:   strings.TrimSpace(body.Phone),
		}
		if err := database.DB.Create(&sup).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Supplier gagal dibuat")
		}

		notify.Publish(notify.ColMasterData)

		return c.Status(fiber.StatusCreated).JSON(SupplierResponse{ID: sup.ID, Name: sup.Name, Address: sup.Address, Phone: sup.Phone})
	}
}

// PUT /api/admin/suppliers/:id
func UpdateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var sup models.Supplier
		if err := database.DB.First(&sup, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier tidak ditemukan")
		}

		var body UpdateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data tidak valid")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nama supplier tidak boleh kosong")
			}
			sup.Name = name
		}
		if body.Address != nil {
			sup.Address = strings.TrimSpace(*body.Address)
		}
		if body.Phone != nil {
			sup.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Save(&sup).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Supplier gagal diperbarui")
		}

		notify.Publish(notify.ColMasterData)

		return c.JSON(SupplierResponse{ID: sup.ID, Name: sup.Name, Address: sup.Address, Phone: sup.Phone})
	}
}

// DELETE /api/admin/suppliers/:id
func DeleteSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var sup models.Supplier
		if err := database.DB.First(&sup, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier tidak ditemukan")
		}

		var count int64
		database.DB.Model(&models.Drug{}).Where("supplier_id = ?", sup.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Supplier masih dipakai data obat")
		}

		if err := database.DB.Delete(&sup).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Supplier gagal dihapus")
		}

		notify.Publish(notify.ColMasterData)

		return c.JSON(fiber.Map{"message": "Supplier dihapus"})
	}
}
