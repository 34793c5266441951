package finance

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
)

type CreateEntryRequest struct {
	Type        models.FinanceType `json:"type"` // "income" | "expense"
	Date        *string            `json:"date"` // "2025-12-09", kosong = hari ini
	Amount      float64            `json:"amount"`
	Description string             `json:"description"`
}

type UpdateEntryRequest struct {
	Date        *string  `json:"date"`
	Amount      *float64 `json:"amount"`
	Description *string  `json:"description"`
}

type EntryResponse struct {
	ID          uint    `json:"id"`
	Type        string  `json:"type"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	RecordID    *uint   `json:"record_id"`
}

type MonthlySummaryResponse struct {
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Net          float64 `json:"net"`
}

func entryToResponse(e models.FinanceEntry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		Type:        string(e.Type),
		Date:        e.Date.Format("2006-01-02"),
		Amount:      e.Amount,
		Description: e.Description,
		RecordID:    e.RecordID,
	}
}

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

// parseYearMonth: validasi query year & month
func parseYearMonth(c *fiber.Ctx) (int, int, error) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr == "" || monthStr == "" {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "year dan month wajib diisi")
	}

	var year, month int
	if _, err := fmt.Sscan(yearStr, &year); err != nil || year < 2000 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "year tidak valid")
	}
	if _, err := fmt.Sscan(monthStr, &month); err != nil || month < 1 || month > 12 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "month tidak valid")
	}
	return year, month, nil
}

func monthRange(year, month int) (time.Time, time.Time) {
	loc := time.Now().Location()
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return first, first.AddDate(0, 1, -1)
}

// POST /api/finance-entries
func CreateEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		switch body.Type {
		case models.FinanceIncome, models.FinanceExpense:
			// ok
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Type tidak valid (income|expense)")
		}

		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Jumlah harus lebih dari 0")
		}

		body.Description = strings.TrimSpace(body.Description)
		if body.Description == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Keterangan wajib diisi")
		}

		var date time.Time
		if body.Date == nil || *body.Date == "" {
			now := time.Now()
			date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		} else {
			d, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Format tanggal harus 'YYYY-MM-DD'")
			}
			date = d
		}

		entry := models.FinanceEntry{
			Type:        body.Type,
			Date:        date,
			Amount:      body.Amount,
			Description: body.Description,
		}

		if err := database.DB.Create(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Entry gagal dibuat")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "finance_entry",
				EntityID:    entry.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("%s: %s - %.0f", entry.Type, entry.Description, entry.Amount),
				Before:      nil,
				After:       entry,
			})
		}

		notify.Publish(notify.ColFinanceEntries)

		return c.Status(fiber.StatusCreated).JSON(entryToResponse(entry))
	}
}

// GET /api/finance-entries?year=2025&month=12&type=expense
func ListEntriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.FinanceEntry{})

		if c.Query("year") != "" || c.Query("month") != "" {
			year, month, err := parseYearMonth(c)
			if err != nil {
				return err
			}
			first, last := monthRange(year, month)
			dbq = dbq.Where("date >= ? AND date <= ?", first, last)
		}

		if t := c.Query("type"); t != "" {
			dbq = dbq.Where("type = ?", t)
		}

		var entries []models.FinanceEntry
		if err := dbq.Order("date DESC, created_at DESC").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Entry gagal dimuat")
		}

		res := make([]EntryResponse, 0, len(entries))
		for _, e := range entries {
			res = append(res, entryToResponse(e))
		}
		return c.JSON(res)
	}
}

// PUT /api/finance-entries/:id
// Entry dari pembayaran kunjungan tidak boleh diedit manual.
func UpdateEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var entry models.FinanceEntry
		if err := database.DB.First(&entry, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Entry tidak ditemukan")
		}

		if entry.RecordID != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Entry hasil pembayaran tidak bisa diedit manual")
		}

		before := entry

		var body UpdateEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.Date != nil {
			d, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Format tanggal harus 'YYYY-MM-DD'")
			}
			entry.Date = d
		}
		if body.Amount != nil {
			if *body.Amount <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Jumlah harus lebih dari 0")
			}
			entry.Amount = *body.Amount
		}
		if body.Description != nil {
			desc := strings.TrimSpace(*body.Description)
			if desc == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Keterangan tidak boleh kosong")
			}
			entry.Description = desc
		}

		if err := database.DB.Save(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Entry gagal diperbarui")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "finance_entry",
				EntityID:    entry.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Edit %s: %s - %.0f", entry.Type, entry.Description, entry.Amount),
				Before:      before,
				After:       entry,
			})
		}

		notify.Publish(notify.ColFinanceEntries)

		return c.JSON(entryToResponse(entry))
	}
}

// DELETE /api/finance-entries/:id
func DeleteEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var entry models.FinanceEntry
		if err := database.DB.First(&entry, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Entry tidak ditemukan")
		}

		if entry.RecordID != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Entry hasil pembayaran tidak bisa dihapus manual")
		}

		if err := database.DB.Delete(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Entry gagal dihapus")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "finance_entry",
				EntityID:    entry.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Hapus %s: %s - %.0f", entry.Type, entry.Description, entry.Amount),
				Before:      entry,
				After:       entry, // keadaan terakhir, dipakai kalau di-undo
			})
		}

		notify.Publish(notify.ColFinanceEntries)

		return c.JSON(fiber.Map{"message": "Entry dihapus"})
	}
}

// GET /api/finance-summary/monthly?year=2025&month=12
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, month, err := parseYearMonth(c)
		if err != nil {
			return err
		}

		first, last := monthRange(year, month)

		var totalIncome, totalExpense float64
		database.DB.Model(&models.FinanceEntry{}).
			Where("type = ? AND date >= ? AND date <= ?", models.FinanceIncome, first, last).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&totalIncome)
		database.DB.Model(&models.FinanceEntry{}).
			Where("type = ? AND date >= ? AND date <= ?", models.FinanceExpense, first, last).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&totalExpense)

		return c.JSON(MonthlySummaryResponse{
			Year:         year,
			Month:        month,
			TotalIncome:  totalIncome,
			TotalExpense: totalExpense,
			Net:          totalIncome - totalExpense,
		})
	}
}
