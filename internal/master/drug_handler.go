package master

import (
	"strings"

	"klinik-backend/internal/database"
	"klinik-backend/internal/models"
	"klinik-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
)

type DrugResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Price        float64 `json:"price"`
	SupplierID   *uint   `json:"supplier_id"`
	SupplierName string  `json:"supplier_name"`
	MinStock     int     `json:"min_stock"`
}

type CreateDrugRequest struct {
	Name       string  `json:"name"`
	Unit       string  `json:"unit"`
	Price      float64 `json:"price"`
	SupplierID *uint   `json:"supplier_id"`
	MinStock   int     `json:"min_stock"`
}

type UpdateDrugRequest struct {
	Name       *string  `json:"name"`
	Unit       *string  `json:"unit"`
	Price      *float64 `json:"price"`
	SupplierID *uint    `json:"supplier_id"`
	MinStock   *int     `json:"min_stock"`
}

func drugToResponse(d models.Drug) DrugResponse {
	resp := DrugResponse{
		ID:         d.ID,
		Name:       d.Name,
		Unit:       d.Unit,
		Price:      d.Price,
		SupplierID: d.SupplierID,
		MinStock:   d.MinStock,
	}
	if d.Supplier != nil {
		resp.SupplierName = d.Supplier.Name
	}
	return resp
}

// GET /api/drugs
func ListDrugsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var drugs []models.Drug
		if err := database.DB.Preload("Supplier").Order("name asc").Find(&drugs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Obat gagal dimuat")
		}

		res := make([]DrugResponse, 0, len(drugs))
		for _, d := range drugs {
			res = append(res, drugToResponse(d))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/drugs (admin)
func CreateDrugHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDrugRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data tidak valid")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Unit = strings.TrimSpace(body.Unit)
		if body.Name == "" || body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama dan satuan obat wajib diisi")
		}
		if body.Price < 0 || body.MinStock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Harga dan stok minimum tidak boleh negatif")
		}

		if body.SupplierID != nil {
			var sup models.Supplier
			if err := database.DB.First(&sup, "id = ?", *body.SupplierID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Supplier tidak ditemukan")
			}
		}

		drug := models.Drug{
			Name:       body.Name,
			Unit:       body.Unit,
			Price:      body.Price,
			SupplierID: body.SupplierID,
			MinStock:   body.MinStock,
		}
		if err := database.DB.Create(&drug).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Obat gagal dibuat (nama mungkin sudah dipakai)")
		}

		database.DB.Preload("Supplier").First(&drug, drug.ID)
		notify.Publish(notify.ColDrugs)

		return c.Status(fiber.StatusCreated).JSON(drugToResponse(drug))
	}
}

// PUT /api/admin/drugs/:id
func UpdateDrugHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var drug models.Drug
		if err := database.DB.First(&drug, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Obat tidak ditemukan")
		}

		var body UpdateDrugRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data tidak valid")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nama obat tidak boleh kosong")
			}
			drug.Name = name
		}
		if body.Unit != nil {
			unit := strings.TrimSpace(*body.Unit)
			if unit == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Satuan obat tidak boleh kosong")
			}
			drug.Unit = unit
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Harga tidak boleh negatif")
			}
			drug.Price = *body.Price
		}
		if body.SupplierID != nil {
			var sup models.Supplier
			if err := database.DB.First(&sup, "id = ?", *body.SupplierID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Supplier tidak ditemukan")
			}
			drug.SupplierID = body.SupplierID
		}
		if body.MinStock != nil {
			if *body.MinStock < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Stok minimum tidak boleh negatif")
			}
			drug.MinStock = *body.MinStock
		}

		if err := database.DB.Save(&drug).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Obat gagal diperbarui")
		}

		database.DB.Preload("Supplier").First(&drug, drug.ID)
		notify.Publish(notify.ColDrugs)

		return c.JSON(drugToResponse(drug))
	}
}

// DELETE /api/admin/drugs/:id (soft delete, batch ikut tidak terlihat)
func DeleteDrugHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var drug models.Drug
		if err := database.DB.First(&drug, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Obat tidak ditemukan")
		}

		if err := database.DB.Delete(&drug).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Obat gagal dihapus")
		}

		notify.Publish(notify.ColDrugs)

		return c.JSON(fiber.Map{"message": "Obat dihapus"})
	}
}
