package notify

import "sync"

// Hub: sinyal perubahan per koleksi tanpa payload. Handler yang
// memutasi data memanggil Publish dengan nama koleksinya; klien yang
// berlangganan cukup refetch koleksi itu.

// Nama koleksi yang dipakai di seluruh backend.
const (
	ColPatients       = "patients"
	ColRegistrations  = "registrations"
	ColMedicalRecords = "medical_records"
	ColDrugs          = "drugs"
	ColDrugBatches    = "drug_batches"
	ColInvoices       = "invoices"
	ColFinanceEntries = "finance_entries"
	ColMasterData     = "master_data"
)

type Hub struct {
	mu   sync.Mutex
	subs map[chan string]map[string]bool // nil/empty set = semua koleksi
}

func New() *Hub {
	return &Hub{subs: make(map[chan string]map[string]bool)}
}

// Subscribe mendaftarkan channel untuk koleksi tertentu (kosong = semua).
func (h *Hub) Subscribe(collections []string) chan string {
	ch := make(chan string, 16)
	var filter map[string]bool
	if len(collections) > 0 {
		filter = make(map[string]bool, len(collections))
		for _, c := range collections {
			filter[c] = true
		}
	}

	h.mu.Lock()
	h.subs[ch] = filter
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish mengirim nama koleksi ke semua subscriber yang cocok.
// Non-blocking: subscriber yang buffer-nya penuh dilewati, sinyal
// berikutnya toh tetap memicu refetch yang sama.
func (h *Hub) Publish(collection string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch, filter := range h.subs {
		if filter != nil && !filter[collection] {
			continue
		}
		select {
		case ch <- collection:
		default:
		}
	}
}

// Default: hub proses tunggal yang dipakai semua handler.
var Default = New()

func Publish(collection string) {
	Default.Publish(collection)
}
