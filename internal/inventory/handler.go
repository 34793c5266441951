package inventory

import (
	"fmt"
	"strings"
	"time"

	"klinik-backend/internal/audit"
	"klinik-backend/internal/auth"
	"klinik-backend/internal/database"
	"klinik-backend/internal/models"
	"klinik-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StockRow struct {
	DrugID        uint   `json:"drug_id"`
	DrugName      string `json:"drug_name"`
	Unit          string `json:"unit"`
	TotalQuantity int    `json:"total_quantity"`
	MinStock      int    `json:"min_stock"`
	LowStock      bool   `json:"low_stock"`
	NearestExpiry string `json:"nearest_expiry"` // kosong kalau semua batch tanpa kadaluarsa
	BatchCount    int    `json:"batch_count"`
}

type BatchResponse struct {
	ID         uint   `json:"id"`
	LotCode    string `json:"lot_code"`
	Quantity   int    `json:"quantity"`
	ExpiryDate string `json:"expiry_date"` // kosong = tanpa kadaluarsa
	CreatedAt  string `json:"created_at"`
}

type ReceiveStockRequest struct {
	DrugID     uint   `json:"drug_id"`
	Quantity   int    `json:"quantity"`
	LotCode    string `json:"lot_code"`    // opsional, digenerate kalau kosong
	ExpiryDate string `json:"expiry_date"` // "2027-01-31", opsional
}

type ReduceStockRequest struct {
	DrugID   uint   `json:"drug_id"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
}

// Ambil info user login untuk audit log
func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Informasi user tidak ditemukan")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "User tidak ditemukan")
	}

	return userID, user.Name, nil
}

// GET /api/stock
// Ringkasan stok per obat: total semua batch, kadaluarsa terdekat,
// penanda stok di bawah ambang minimum.
func ListStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var drugs []models.Drug
		if err := database.DB.Preload("Batches").Order("name asc").Find(&drugs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok gagal dimuat")
		}

		ledger := BuildLedger(drugs)

		rows := make([]StockRow, 0, len(drugs))
		for _, d := range drugs {
			total := ledger.TotalQuantity(d.ID)

			nearest := ""
			for _, b := range ledger.Batches(d.ID) {
				if b.Expiry != nil {
					nearest = b.Expiry.Format("2006-01-02")
					break // sudah urut FEFO
				}
			}

			rows = append(rows, StockRow{
				DrugID:        d.ID,
				DrugName:      d.Name,
				Unit:          d.Unit,
				TotalQuantity: total,
				MinStock:      d.MinStock,
				LowStock:      total < d.MinStock,
				NearestExpiry: nearest,
				BatchCount:    len(d.Batches),
			})
		}

		return c.JSON(rows)
	}
}

// GET /api/stock/:drugId/batches
func ListBatchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		drugID := c.Params("drugId")

		var drug models.Drug
		if err := database.DB.First(&drug, "id = ?", drugID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Obat tidak ditemukan")
		}

		var batches []models.DrugBatch
		if err := database.DB.
			Where("drug_id = ?", drug.ID).
			Order("expiry_date ASC NULLS LAST, created_at ASC").
			Find(&batches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Batch gagal dimuat")
		}

		res := make([]BatchResponse, 0, len(batches))
		for _, b := range batches {
			expiry := ""
			if b.ExpiryDate != nil {
				expiry = b.ExpiryDate.Format("2006-01-02")
			}
			res = append(res, BatchResponse{
				ID:         b.ID,
				LotCode:    b.LotCode,
				Quantity:   b.Quantity,
				ExpiryDate: expiry,
				CreatedAt:  b.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(fiber.Map{
			"drug_id":   drug.ID,
			"drug_name": drug.Name,
			"batches":   res,
		})
	}
}

// POST /api/stock/receive
// Penerimaan stok: satu lot baru, tidak pernah digabung ke lot lama.
func ReceiveStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ReceiveStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.DrugID == 0 || body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "drug_id wajib, quantity harus lebih dari 0")
		}

		var drug models.Drug
		if err := database.DB.First(&drug, "id = ?", body.DrugID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Obat tidak ditemukan")
		}

		var expiry *time.Time
		if body.ExpiryDate != "" {
			d, err := time.Parse("2006-01-02", body.ExpiryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Format tanggal kadaluarsa harus 'YYYY-MM-DD'")
			}
			expiry = &d
		}

		lotCode := strings.TrimSpace(body.LotCode)
		if lotCode == "" {
			// 8 karakter pertama uuid cukup unik untuk lot internal
			lotCode = "LOT-" + strings.ToUpper(uuid.NewString()[:8])
		}

		batch := models.DrugBatch{
			DrugID:     drug.ID,
			LotCode:    lotCode,
			Quantity:   body.Quantity,
			ExpiryDate: expiry,
		}

		if err := database.DB.Create(&batch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Batch gagal disimpan (kode lot mungkin sudah dipakai)")
		}

		// Audit log
		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "drug_batch",
				EntityID:    batch.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Penerimaan stok: %s - %d %s (lot %s)", drug.Name, batch.Quantity, drug.Unit, batch.LotCode),
				Before:      nil,
				After:       batch,
			})
		}

		notify.Publish(notify.ColDrugBatches)

		expiryStr := ""
		if batch.ExpiryDate != nil {
			expiryStr = batch.ExpiryDate.Format("2006-01-02")
		}
		return c.Status(fiber.StatusCreated).JSON(BatchResponse{
			ID:         batch.ID,
			LotCode:    batch.LotCode,
			Quantity:   batch.Quantity,
			ExpiryDate: expiryStr,
			CreatedAt:  batch.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// POST /api/stock/reduce
// Pengurangan manual (penyesuaian/kerusakan). FEFO seperti konsumsi resep.
func ReduceStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ReduceStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.DrugID == 0 || body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "drug_id wajib, quantity harus lebih dari 0")
		}

		var drug models.Drug
		if err := database.DB.First(&drug, "id = ?", body.DrugID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Obat tidak ditemukan")
		}

		res, err := ReduceStock(drug.ID, body.Quantity)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok gagal dikurangi")
		}

		if userID, userName, uerr := getUserInfo(c); uerr == nil {
			desc := fmt.Sprintf("Pengurangan stok: %s - %d %s", drug.Name, res.Taken, drug.Unit)
			if body.Note != "" {
				desc += " (" + body.Note + ")"
			}
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "drug_batch",
				EntityID:    drug.ID,
				Action:      models.AuditActionUpdate,
				Description: desc,
			})
		}

		return c.JSON(fiber.Map{
			"drug_id":   drug.ID,
			"taken":     res.Taken,
			"shortfall": res.Shortfall,
		})
	}
}

// GET /api/stock/expiring?days=30
func ExpiringStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := 30
		if dStr := c.Query("days"); dStr != "" {
			if _, err := fmt.Sscan(dStr, &days); err != nil || days <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "days tidak valid")
			}
		}

		limit := time.Now().AddDate(0, 0, days)

		type ExpiringRow struct {
			DrugID     uint   `json:"drug_id"`
			DrugName   string `json:"drug_name"`
			LotCode    string `json:"lot_code"`
			Quantity   int    `json:"quantity"`
			ExpiryDate string `json:"expiry_date"`
		}

		var batches []models.DrugBatch
		if err := database.DB.
			Where("expiry_date IS NOT NULL AND expiry_date <= ?", limit).
			Order("expiry_date ASC").
			Find(&batches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Batch gagal dimuat")
		}

		// Nama obat diambil sekali, bukan per batch
		drugNames := make(map[uint]string)
		var drugs []models.Drug
		if err := database.DB.Find(&drugs).Error; err == nil {
			for _, d := range drugs {
				drugNames[d.ID] = d.Name
			}
		}

		rows := make([]ExpiringRow, 0, len(batches))
		for _, b := range batches {
			rows = append(rows, ExpiringRow{
				DrugID:     b.DrugID,
				DrugName:   drugNames[b.DrugID],
				LotCode:    b.LotCode,
				Quantity:   b.Quantity,
				ExpiryDate: b.ExpiryDate.Format("2006-01-02"),
			})
		}

		return c.JSON(fiber.Map{
			"days": days,
			"rows": rows,
		})
	}
}
