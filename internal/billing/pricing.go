package billing

import (
	"strings"

	"klinik-backend/internal/models"
)

// Kalkulator tagihan. Semua fungsi di file ini murni hitung-hitungan
// di memori; handler yang mengurus baca/tulis database.

// PriceList: daftar harga referensi (nama lowercase -> harga satuan).
// Dibangun ulang per request dari master tindakan/obat, tidak pernah
// disimpan sebagai state global.
type PriceList map[string]float64

func NewPriceList() PriceList {
	return make(PriceList)
}

func (p PriceList) Set(name string, price float64) {
	p[strings.ToLower(strings.TrimSpace(name))] = price
}

// Lookup: cari harga berdasarkan nama, case-insensitive. Tidak ketemu = 0.
func (p PriceList) Lookup(name string) float64 {
	return p[strings.ToLower(strings.TrimSpace(name))]
}

// ResolvePrice: harga milik baris sendiri menang kalau positif,
// kalau tidak pakai daftar referensi, terakhir 0.
func ResolvePrice(own float64, name string, ref PriceList) float64 {
	if own > 0 {
		return own
	}
	return ref.Lookup(name)
}

// Line: satu baris obat pada form pembayaran.
type Line struct {
	Name     string
	Quantity int
	Price    float64 // harga satuan hasil resolve / editan operator
}

// ComputeTotal: harga tindakan + Σ(harga obat × jumlah).
func ComputeTotal(actionPrice float64, lines []Line) float64 {
	total := actionPrice
	for _, ln := range lines {
		total += ln.Price * float64(ln.Quantity)
	}
	return total
}

// DeriveTotal: total untuk tampilan tagihan. Cost tersimpan yang positif
// dianggap otoritatif; kalau belum ada, dihitung dari baris.
func DeriveTotal(storedCost float64, action string, actionPrice float64, lines []Line, procedures, drugs PriceList) float64 {
	if storedCost > 0 {
		return storedCost
	}
	resolved := make([]Line, len(lines))
	for i, ln := range lines {
		resolved[i] = Line{
			Name:     ln.Name,
			Quantity: ln.Quantity,
			Price:    ResolvePrice(ln.Price, ln.Name, drugs),
		}
	}
	return ComputeTotal(ResolvePrice(actionPrice, action, procedures), resolved)
}

// BillStatus: lunas hanya kalau paid >= total DAN total > 0.
// Kunjungan bertotal nol tidak pernah lunas.
func BillStatus(paid, total float64) models.InvoiceStatus {
	if paid >= total && total > 0 {
		return models.InvoicePaid
	}
	return models.InvoiceUnpaid
}

// PaymentForm: state form pembayaran satu kunjungan. Harga per baris
// bisa diedit operator; nominal bayar mengikuti sisa tagihan secara
// otomatis sampai operator mengetik nominal sendiri.
type PaymentForm struct {
	Action      string
	ActionPrice float64
	Lines       []Line
	PriorPaid   float64

	payNow       float64
	payNowEdited bool
}

// NewPaymentForm menyiapkan form: harga baris di-seed dari harga
// override yang ada, kalau kosong dari daftar referensi; nominal bayar
// default = sisa tagihan.
func NewPaymentForm(action string, actionPrice float64, lines []Line, priorPaid float64, procedures, drugs PriceList) *PaymentForm {
	f := &PaymentForm{
		Action:      action,
		ActionPrice: ResolvePrice(actionPrice, action, procedures),
		PriorPaid:   priorPaid,
	}
	f.Lines = make([]Line, len(lines))
	for i, ln := range lines {
		f.Lines[i] = Line{
			Name:     ln.Name,
			Quantity: ln.Quantity,
			Price:    ResolvePrice(ln.Price, ln.Name, drugs),
		}
	}
	f.payNow = f.Due()
	return f
}

func (f *PaymentForm) Total() float64 {
	return ComputeTotal(f.ActionPrice, f.Lines)
}

// Due: sisa tagihan, tidak pernah negatif.
func (f *PaymentForm) Due() float64 {
	due := f.Total() - f.PriorPaid
	if due < 0 {
		return 0
	}
	return due
}

func (f *PaymentForm) PayNow() float64 {
	return f.payNow
}

// SetActionPrice: edit harga tindakan; nominal bayar ikut dihitung ulang
// selama operator belum mengetik nominal sendiri.
func (f *PaymentForm) SetActionPrice(price float64) {
	f.ActionPrice = price
	f.recompute()
}

// SetLinePrice: edit harga satuan satu baris obat.
func (f *PaymentForm) SetLinePrice(idx int, price float64) {
	if idx < 0 || idx >= len(f.Lines) {
		return
	}
	f.Lines[idx].Price = price
	f.recompute()
}

// SetPayNow: operator mengetik nominal bayar sendiri; mulai sini
// hitung-ulang otomatis dibekukan.
func (f *PaymentForm) SetPayNow(amount float64) {
	f.payNow = amount
	f.payNowEdited = true
}

func (f *PaymentForm) recompute() {
	if !f.payNowEdited {
		f.payNow = f.Due()
	}
}

// SubmitResult: nilai final yang ditulis ke medical record.
type SubmitResult struct {
	Cost   float64 // total baru (menimpa cost lama)
	Paid   float64
	Status models.RecordStatus
}

// Submit: nominal negatif dianggap 0, kelebihan bayar diterima apa
// adanya. Cost di-set ulang ke total hasil hitungan terkini; ini satu-
// satunya tempat cost difinalisasi.
func (f *PaymentForm) Submit() SubmitResult {
	added := f.payNow
	if added < 0 {
		added = 0
	}
	total := f.Total()
	nextPaid := f.PriorPaid + added

	status := models.RecordInProgress
	if nextPaid >= total && total > 0 {
		status = models.RecordCompleted
	}

	return SubmitResult{Cost: total, Paid: nextPaid, Status: status}
}
