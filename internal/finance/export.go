package finance

import (
	"fmt"

	"klinik-backend/internal/database"
	"klinik-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// GET /api/finance-report/monthly/xlsx?year=2025&month=12
func ExportMonthlyXLSXHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, month, err := parseYearMonth(c)
		if err != nil {
			return err
		}

		first, last := monthRange(year, month)

		var entries []models.FinanceEntry
		if err := database.DB.
			Where("date >= ? AND date <= ?", first, last).
			Order("date ASC, created_at ASC").
			Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Entry gagal dimuat")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Laporan"
		f.SetSheetName(f.GetSheetName(0), sheet)

		title := fmt.Sprintf("Laporan Keuangan %s %d", monthNames[month-1], year)
		f.SetCellValue(sheet, "A1", title)
		f.MergeCell(sheet, "A1", "E1")

		headers := []string{"Tanggal", "Jenis", "Keterangan", "Pemasukan", "Pengeluaran"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 3)
			f.SetCellValue(sheet, cell, h)
		}

		var totalIncome, totalExpense float64
		row := 4
		for _, e := range entries {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), e.Date.Format("02-01-2006"))
			if e.Type == models.FinanceIncome {
				f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Pemasukan")
				f.SetCellValue(sheet, fmt.Sprintf("D%d", row), e.Amount)
				totalIncome += e.Amount
			} else {
				f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Pengeluaran")
				f.SetCellValue(sheet, fmt.Sprintf("E%d", row), e.Amount)
				totalExpense += e.Amount
			}
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), e.Description)
			row++
		}

		row++ // satu baris kosong sebelum total
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Total")
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), totalIncome)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), totalExpense)
		row++
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Saldo Bersih")
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), totalIncome-totalExpense)

		f.SetColWidth(sheet, "A", "A", 14)
		f.SetColWidth(sheet, "B", "B", 14)
		f.SetColWidth(sheet, "C", "C", 40)
		f.SetColWidth(sheet, "D", "E", 16)

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "File laporan gagal dibuat")
		}

		fileName := fmt.Sprintf("laporan-keuangan-%d-%02d.xlsx", year, month)
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
		c.Set("Content-Length", fmt.Sprint(buf.Len()))

		return c.SendStream(buf)
	}
}
