package inventory

import (
	"fmt"

	"klinik-backend/internal/database"
	"klinik-backend/internal/models"
	"klinik-backend/internal/notify"
)

// Jembatan antara ledger in-memory dan tabel drug_batches.
// Pola: baca snapshot -> mutasi di ledger -> tulis balik selisihnya.
// Tidak ada locking antar request (last write wins), perubahan
// disiarkan lewat notify supaya klien refetch.

// BuildLedger menyusun ledger dari obat beserta batch-nya.
func BuildLedger(drugs []models.Drug) *Ledger {
	l := NewLedger()
	for _, d := range drugs {
		l.AddItem(d.ID, d.Name)
		for _, b := range d.Batches {
			l.AddBatch(d.ID, Batch{
				ID:       b.ID,
				LotCode:  b.LotCode,
				Quantity: b.Quantity,
				Expiry:   b.ExpiryDate,
			})
		}
	}
	return l
}

// writeBackBatches menulis selisih satu item: quantity yang berubah
// di-update, batch yang habis di-soft-delete.
func writeBackBatches(drugID uint, before map[uint]int, after []Batch) error {
	seen := make(map[uint]bool, len(after))
	for _, b := range after {
		seen[b.ID] = true
		if prev, ok := before[b.ID]; ok && prev != b.Quantity {
			if err := database.DB.Model(&models.DrugBatch{}).
				Where("id = ?", b.ID).
				Update("quantity", b.Quantity).Error; err != nil {
				return fmt.Errorf("batch %d gagal diperbarui: %w", b.ID, err)
			}
		}
	}
	for id := range before {
		if !seen[id] {
			if err := database.DB.Delete(&models.DrugBatch{}, "id = ?", id).Error; err != nil {
				return fmt.Errorf("batch %d gagal dihapus: %w", id, err)
			}
		}
	}
	return nil
}

// ReduceStock mengurangi stok satu obat secara FEFO dan menulis balik
// hasilnya. Kekurangan stok tidak menggagalkan operasi; pengurangan
// parsial tetap tersimpan dan shortfall dilaporkan ke caller.
func ReduceStock(drugID uint, quantity int) (ReduceResult, error) {
	var drug models.Drug
	if err := database.DB.Preload("Batches").First(&drug, "id = ?", drugID).Error; err != nil {
		return ReduceResult{}, fmt.Errorf("obat tidak ditemukan: %w", err)
	}

	before := make(map[uint]int, len(drug.Batches))
	for _, b := range drug.Batches {
		before[b.ID] = b.Quantity
	}

	ledger := BuildLedger([]models.Drug{drug})
	res := ledger.ReduceByItemID(drugID, quantity)

	if err := writeBackBatches(drugID, before, ledger.Batches(drugID)); err != nil {
		return res, err
	}

	if res.Taken > 0 {
		notify.Publish(notify.ColDrugBatches)
	}
	return res, nil
}

// ConsumeUsages mengonsumsi stok untuk daftar pemakaian obat (baris
// resep). Nama yang tidak cocok dengan master obat dilewati diam-diam.
func ConsumeUsages(usages []Usage) ([]UsageResult, error) {
	var drugs []models.Drug
	if err := database.DB.Preload("Batches").Find(&drugs).Error; err != nil {
		return nil, fmt.Errorf("stok gagal dimuat: %w", err)
	}

	before := make(map[uint]map[uint]int, len(drugs))
	for _, d := range drugs {
		m := make(map[uint]int, len(d.Batches))
		for _, b := range d.Batches {
			m[b.ID] = b.Quantity
		}
		before[d.ID] = m
	}

	ledger := BuildLedger(drugs)
	results := ledger.ConsumeByUsageList(usages)

	changed := false
	for _, d := range drugs {
		if err := writeBackBatches(d.ID, before[d.ID], ledger.Batches(d.ID)); err != nil {
			return results, err
		}
	}
	for _, r := range results {
		if r.Taken > 0 {
			changed = true
		}
	}

	if changed {
		notify.Publish(notify.ColDrugBatches)
	}
	return results, nil
}
