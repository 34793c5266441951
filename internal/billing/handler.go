package billing

import (
	"fmt"
	"time"

	"klinik-backend/internal/audit"
	"klinik-backend/internal/auth"
	"klinik-backend/internal/database"
	"klinik-backend/internal/models"
	"klinik-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
)

type BillRow struct {
	RecordID    uint    `json:"record_id"`
	PatientName string  `json:"patient_name"`
	NoRM        string  `json:"no_rm"`
	Date        string  `json:"date"`
	PoliName    string  `json:"poli_name"`
	Action      string  `json:"action"`
	Total       float64 `json:"total"`
	Paid        float64 `json:"paid"`
	Due         float64 `json:"due"`
	Status      string  `json:"status"` // lunas | belum_lunas
}

type PaymentFormLineResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"` // harga hasil seed (override/referensi)
}

type PaymentFormResponse struct {
	RecordID    uint                      `json:"record_id"`
	Action      string                    `json:"action"`
	ActionPrice float64                   `json:"action_price"`
	Lines       []PaymentFormLineResponse `json:"lines"`
	Total       float64                   `json:"total"`
	PriorPaid   float64                   `json:"prior_paid"`
	Due         float64                   `json:"due"`
	PayNow      float64                   `json:"pay_now"` // default = due
}

type PaymentLineOverride struct {
	ID    uint    `json:"id"`
	Price float64 `json:"price"`
}

type SubmitPaymentRequest struct {
	ActionPrice *float64              `json:"action_price"` // nil = pakai hasil seed
	Lines       []PaymentLineOverride `json:"lines"`        // override harga per baris
	PayNow      *float64              `json:"pay_now"`      // nil = bayar sisa tagihan
}

// buildPriceLists: daftar harga referensi dibangun per request dari
// master tindakan dan obat, tidak pernah disimpan global.
func buildPriceLists() (procedures, drugs PriceList, err error) {
	var procs []models.Procedure
	if err = database.DB.Find(&procs).Error; err != nil {
		return nil, nil, fmt.Errorf("daftar harga tindakan gagal dimuat: %w", err)
	}
	procedures = NewPriceList()
	for _, p := range procs {
		procedures.Set(p.Name, p.Price)
	}

	var drugRows []models.Drug
	if err = database.DB.Find(&drugRows).Error; err != nil {
		return nil, nil, fmt.Errorf("daftar harga obat gagal dimuat: %w", err)
	}
	drugs = NewPriceList()
	for _, d := range drugRows {
		drugs.Set(d.Name, d.Price)
	}

	return procedures, drugs, nil
}

func recordLines(rec models.MedicalRecord) []Line {
	lines := make([]Line, 0, len(rec.Lines))
	for _, ln := range rec.Lines {
		lines = append(lines, Line{Name: ln.Name, Quantity: ln.Quantity, Price: ln.Price})
	}
	return lines
}

// GET /api/bills?status=belum_lunas&date=2025-12-09
// Kunjungan cancelled tidak pernah punya tagihan.
func ListBillsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		procedures, drugs, err := buildPriceLists()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Daftar harga gagal dimuat")
		}

		dbq := database.DB.Model(&models.MedicalRecord{}).
			Preload("Patient").Preload("Poli").Preload("Lines").
			Where("status <> ?", models.RecordCancelled)

		if dateStr := c.Query("date"); dateStr != "" {
			d, derr := time.Parse("2006-01-02", dateStr)
			if derr != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Format tanggal harus 'YYYY-MM-DD'")
			}
			dbq = dbq.Where("date = ?", d)
		}

		var recs []models.MedicalRecord
		if err := dbq.Order("date DESC, created_at DESC").Find(&recs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tagihan gagal dimuat")
		}

		statusFilter := c.Query("status")

		rows := make([]BillRow, 0, len(recs))
		for _, rec := range recs {
			total := DeriveTotal(rec.Cost, rec.Action, 0, recordLines(rec), procedures, drugs)
			due := total - rec.PaidAmount
			if due < 0 {
				due = 0
			}
			status := BillStatus(rec.PaidAmount, total)

			if statusFilter != "" && statusFilter != string(status) {
				continue
			}

			rows = append(rows, BillRow{
				RecordID:    rec.ID,
				PatientName: rec.Patient.Name,
				NoRM:        rec.Patient.NoRM,
				Date:        rec.Date.Format("2006-01-02"),
				PoliName:    rec.Poli.Name,
				Action:      rec.Action,
				Total:       total,
				Paid:        rec.PaidAmount,
				Due:         due,
				Status:      string(status),
			})
		}

		return c.JSON(rows)
	}
}

// GET /api/bills/:id/payment-form
// Seed form pembayaran: harga baris dari override yang ada, kalau kosong
// dari daftar referensi; nominal bayar default = sisa tagihan.
func GetPaymentFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var rec models.MedicalRecord
		if err := database.DB.Preload("Lines").First(&rec, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Medical record tidak ditemukan")
		}

		if rec.Status == models.RecordCancelled {
			return fiber.NewError(fiber.StatusBadRequest, "Kunjungan yang dibatalkan tidak punya tagihan")
		}

		procedures, drugs, err := buildPriceLists()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Daftar harga gagal dimuat")
		}

		form := NewPaymentForm(rec.Action, 0, recordLines(rec), rec.PaidAmount, procedures, drugs)

		lines := make([]PaymentFormLineResponse, 0, len(rec.Lines))
		for i, ln := range rec.Lines {
			lines = append(lines, PaymentFormLineResponse{
				ID:       ln.ID,
				Name:     ln.Name,
				Quantity: ln.Quantity,
				Price:    form.Lines[i].Price,
			})
		}

		return c.JSON(PaymentFormResponse{
			RecordID:    rec.ID,
			Action:      rec.Action,
			ActionPrice: form.ActionPrice,
			Lines:       lines,
			Total:       form.Total(),
			PriorPaid:   rec.PaidAmount,
			Due:         form.Due(),
			PayNow:      form.PayNow(),
		})
	}
}

// POST /api/bills/:id/payment
// Submit pembayaran: cost di-set ulang ke total hasil hitungan terkini
// (koreksi harga terlambat diperbolehkan), pembayaran parsial dan
// kelebihan bayar diterima apa adanya.
func SubmitPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var rec models.MedicalRecord
		if err := database.DB.Preload("Lines").Preload("Patient").First(&rec, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Medical record tidak ditemukan")
		}

		if rec.Status == models.RecordCancelled {
			return fiber.NewError(fiber.StatusBadRequest, "Kunjungan yang dibatalkan tidak bisa dibayar")
		}

		var body SubmitPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		procedures, drugs, err := buildPriceLists()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Daftar harga gagal dimuat")
		}

		form := NewPaymentForm(rec.Action, 0, recordLines(rec), rec.PaidAmount, procedures, drugs)

		// Editan operator: harga per baris dan harga tindakan
		lineIdx := make(map[uint]int, len(rec.Lines))
		for i, ln := range rec.Lines {
			lineIdx[ln.ID] = i
		}
		for _, ov := range body.Lines {
			idx, ok := lineIdx[ov.ID]
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Baris resep %d tidak ada di kunjungan ini", ov.ID))
			}
			form.SetLinePrice(idx, ov.Price)
		}
		if body.ActionPrice != nil {
			form.SetActionPrice(*body.ActionPrice)
		}
		if body.PayNow != nil {
			form.SetPayNow(*body.PayNow)
		}

		result := form.Submit()
		added := result.Paid - rec.PaidAmount

		// Harga override per baris ikut disimpan supaya tagihan berikutnya
		// memakai harga hasil editan
		for i, ln := range rec.Lines {
			if ln.Price != form.Lines[i].Price {
				database.DB.Model(&models.MedicationLine{}).
					Where("id = ?", ln.ID).
					Update("price", form.Lines[i].Price)
			}
		}

		priorPaid := rec.PaidAmount
		rec.Cost = result.Cost
		rec.PaidAmount = result.Paid
		rec.Status = result.Status
		if err := database.DB.Save(&rec).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pembayaran gagal disimpan")
		}

		// Upsert cermin invoice
		invStatus := BillStatus(result.Paid, result.Cost)
		var inv models.Invoice
		if err := database.DB.Where("record_id = ?", rec.ID).First(&inv).Error; err == nil {
			inv.Total = result.Cost
			inv.Paid = result.Paid
			inv.Status = invStatus
			database.DB.Save(&inv)
		} else {
			inv = models.Invoice{
				Number:   nextInvoiceNumber(time.Now()),
				RecordID: rec.ID,
				Total:    result.Cost,
				Paid:     result.Paid,
				Status:   invStatus,
			}
			database.DB.Create(&inv)
		}

		// Pembayaran masuk dicatat sebagai pemasukan keuangan
		if added > 0 {
			entry := models.FinanceEntry{
				Type:        models.FinanceIncome,
				Date:        dayOf(time.Now()),
				Amount:      added,
				Description: fmt.Sprintf("Pembayaran kunjungan %s (%s)", rec.Patient.NoRM, rec.Patient.Name),
				RecordID:    &rec.ID,
			}
			database.DB.Create(&entry)
			notify.Publish(notify.ColFinanceEntries)
		}

		// Audit log
		if userID, userName, uerr := currentUser(c); uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "payment",
				EntityID:    rec.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Pembayaran %.0f untuk kunjungan %d (total %.0f, terbayar %.0f)", added, rec.ID, result.Cost, result.Paid),
				Before:      fiber.Map{"paid": priorPaid},
				After:       fiber.Map{"paid": result.Paid, "cost": result.Cost, "status": result.Status},
			})
		}

		notify.Publish(notify.ColMedicalRecords)
		notify.Publish(notify.ColInvoices)

		return c.JSON(fiber.Map{
			"record_id":      rec.ID,
			"invoice_number": inv.Number,
			"total":          result.Cost,
			"paid":           result.Paid,
			"added":          added,
			"status":         result.Status,
			"bill_status":    invStatus,
		})
	}
}

// GET /api/invoices
func ListInvoicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var invoices []models.Invoice
		if err := database.DB.
			Preload("Record").Preload("Record.Patient").
			Order("created_at DESC").
			Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Invoice gagal dimuat")
		}

		type InvoiceRow struct {
			ID          uint    `json:"id"`
			Number      string  `json:"number"`
			RecordID    uint    `json:"record_id"`
			PatientName string  `json:"patient_name"`
			Total       float64 `json:"total"`
			Paid        float64 `json:"paid"`
			Status      string  `json:"status"`
			UpdatedAt   string  `json:"updated_at"`
		}

		rows := make([]InvoiceRow, 0, len(invoices))
		for _, inv := range invoices {
			rows = append(rows, InvoiceRow{
				ID:          inv.ID,
				Number:      inv.Number,
				RecordID:    inv.RecordID,
				PatientName: inv.Record.Patient.Name,
				Total:       inv.Total,
				Paid:        inv.Paid,
				Status:      string(inv.Status),
				UpdatedAt:   inv.UpdatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(rows)
	}
}

func nextInvoiceNumber(now time.Time) string {
	prefix := "INV-" + now.Format("20060102") + "-"
	var count int64
	database.DB.Model(&models.Invoice{}).
		Where("number LIKE ?", prefix+"%").
		Count(&count)
	return fmt.Sprintf("%s%04d", prefix, count+1)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func currentUser(c *fiber.Ctx) (uint, string, error) {
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
