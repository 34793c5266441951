package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"klinik-backend/internal/database"
	"klinik-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// jsonb Postgres butuh string "null", bukan string kosong
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log gagal disimpan: %w", err)
	}

	return nil
}

// UndoLog membatalkan satu operasi yang tercatat. Hanya entry keuangan
// yang bisa di-undo; mutasi stok dan pembayaran tidak (keduanya sudah
// menyentuh data lain, membatalkannya dari log bisa merusak konsistensi).
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log tidak ditemukan: %w", err)
	}

	if log.IsUndone {
		return fmt.Errorf("operasi ini sudah pernah dibatalkan")
	}

	if log.EntityType != "finance_entry" {
		return fmt.Errorf("entity %s tidak bisa dibatalkan", log.EntityType)
	}

	switch log.Action {
	case models.AuditActionCreate:
		// Create -> hapus entry-nya
		if err := database.DB.Delete(&models.FinanceEntry{}, "id = ?", log.EntityID).Error; err != nil {
			return fmt.Errorf("entry gagal dihapus: %w", err)
		}

	case models.AuditActionUpdate:
		// Update -> kembalikan ke keadaan sebelumnya
		if err := restoreFinanceEntry(log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("entry gagal dikembalikan: %w", err)
		}

	case models.AuditActionDelete:
		// Delete -> buat ulang dari AfterData (berisi keadaan terakhir)
		if err := recreateFinanceEntry(log.AfterData); err != nil {
			return fmt.Errorf("entry gagal dibuat ulang: %w", err)
		}

	default:
		return fmt.Errorf("jenis aksi ini tidak bisa dibatalkan")
	}

	// Tandai log
	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("log gagal diperbarui: %w", err)
	}

	// Catat undo-nya sebagai log baru
	undoLog := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Dibatalkan: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("undo log gagal disimpan: %w", err)
	}

	return nil
}

func restoreFinanceEntry(entityID uint, dataJSON string) error {
	var entry models.FinanceEntry
	if err := json.Unmarshal([]byte(dataJSON), &entry); err != nil {
		return err
	}
	return database.DB.Model(&models.FinanceEntry{}).Where("id = ?", entityID).Updates(map[string]interface{}{
		"type":        entry.Type,
		"date":        entry.Date,
		"amount":      entry.Amount,
		"description": entry.Description,
		"record_id":   entry.RecordID,
	}).Error
}

func recreateFinanceEntry(dataJSON string) error {
	var entry models.FinanceEntry
	if err := json.Unmarshal([]byte(dataJSON), &entry); err != nil {
		return err
	}
	entry.ID = 0 // entity baru
	return database.DB.Create(&entry).Error
}
