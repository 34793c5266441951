package inventory

import (
	"sort"
	"strings"
	"time"
)

// Ledger: snapshot stok in-memory per obat, dipakai handler untuk
// menghitung mutasi batch sebelum ditulis balik ke database.
// Pengurangan selalu FEFO: batch dengan kadaluarsa paling dekat
// dihabiskan duluan, batch tanpa kadaluarsa paling akhir.

type Batch struct {
	ID       uint
	LotCode  string
	Quantity int
	Expiry   *time.Time // nil = tanpa kadaluarsa
}

type Item struct {
	ID      uint
	Name    string
	Batches []Batch
}

type Usage struct {
	Name     string
	Quantity int
}

// ReduceResult: hasil satu kali pengurangan. Kalau stok tidak cukup,
// pengurangan parsial tetap diterapkan dan sisanya dilaporkan lewat
// Shortfall (caller yang memutuskan mau menampilkan atau tidak).
type ReduceResult struct {
	Taken     int
	Shortfall int
}

type UsageResult struct {
	Name    string
	Matched bool
	ReduceResult
}

type Ledger struct {
	items  map[uint]*Item
	byName map[string]uint // nama lowercase -> item id
}

func NewLedger() *Ledger {
	return &Ledger{
		items:  make(map[uint]*Item),
		byName: make(map[string]uint),
	}
}

func (l *Ledger) AddItem(id uint, name string) {
	if _, ok := l.items[id]; ok {
		return
	}
	l.items[id] = &Item{ID: id, Name: name}
	l.byName[strings.ToLower(name)] = id
}

// AddBatch menambahkan satu lot baru ke item. Lot tidak pernah digabung
// walaupun kadaluarsa/kode lot sama. Quantity <= 0 diabaikan.
func (l *Ledger) AddBatch(itemID uint, b Batch) bool {
	if b.Quantity <= 0 {
		return false
	}
	item, ok := l.items[itemID]
	if !ok {
		return false
	}
	item.Batches = append(item.Batches, b)
	return true
}

// ReduceByItemID mengurangi stok item sebanyak quantity dengan urutan
// FEFO. Batch yang habis (quantity 0) dibuang dari daftar. Kalau total
// stok kurang, pengurangan parsial tetap berlaku (tidak di-rollback)
// dan Shortfall berisi sisa yang tidak terpenuhi.
func (l *Ledger) ReduceByItemID(itemID uint, quantity int) ReduceResult {
	item, ok := l.items[itemID]
	if !ok || quantity <= 0 || len(item.Batches) == 0 {
		return ReduceResult{}
	}

	sortFEFO(item.Batches)

	remaining := quantity
	for i := range item.Batches {
		if remaining == 0 {
			break
		}
		take := item.Batches[i].Quantity
		if take > remaining {
			take = remaining
		}
		item.Batches[i].Quantity -= take
		remaining -= take
	}

	// Buang batch yang sudah 0
	kept := item.Batches[:0]
	for _, b := range item.Batches {
		if b.Quantity > 0 {
			kept = append(kept, b)
		}
	}
	item.Batches = kept

	return ReduceResult{Taken: quantity - remaining, Shortfall: remaining}
}

// ConsumeByUsageList mengonsumsi stok per baris resep. Nama dicocokkan
// case-insensitive ke nama item; nama yang tidak dikenal dilewati tanpa
// error (obat luar / racikan tidak mengurangi stok).
func (l *Ledger) ConsumeByUsageList(usages []Usage) []UsageResult {
	results := make([]UsageResult, 0, len(usages))
	for _, u := range usages {
		itemID, ok := l.byName[strings.ToLower(u.Name)]
		if !ok || u.Quantity <= 0 {
			results = append(results, UsageResult{Name: u.Name, Matched: ok})
			continue
		}
		res := l.ReduceByItemID(itemID, u.Quantity)
		results = append(results, UsageResult{Name: u.Name, Matched: true, ReduceResult: res})
	}
	return results
}

// Batches mengembalikan salinan daftar batch item (urutan FEFO).
func (l *Ledger) Batches(itemID uint) []Batch {
	item, ok := l.items[itemID]
	if !ok {
		return nil
	}
	out := make([]Batch, len(item.Batches))
	copy(out, item.Batches)
	sortFEFO(out)
	return out
}

// TotalQuantity menjumlahkan seluruh batch satu item.
func (l *Ledger) TotalQuantity(itemID uint) int {
	item, ok := l.items[itemID]
	if !ok {
		return 0
	}
	total := 0
	for _, b := range item.Batches {
		total += b.Quantity
	}
	return total
}

// sortFEFO: ascending berdasarkan kadaluarsa, nil dianggap paling jauh.
// Kadaluarsa sama -> urutan masuk dipertahankan.
func sortFEFO(batches []Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		ei, ej := batches[i].Expiry, batches[j].Expiry
		if ei == nil {
			return false
		}
		if ej == nil {
			return true
		}
		return ei.Before(*ej)
	})
}
