package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klinik-backend/internal/models"
)

func refLists() (PriceList, PriceList) {
	procedures := NewPriceList()
	procedures.Set("Pemeriksaan Umum", 50000)
	procedures.Set("Jahit Luka", 150000)

	drugs := NewPriceList()
	drugs.Set("Paracetamol 500mg", 2000)
	drugs.Set("Amoxicillin", 3500)
	return procedures, drugs
}

func TestResolvePrice(t *testing.T) {
	procedures, _ := refLists()

	t.Run("harga sendiri menang kalau positif", func(t *testing.T) {
		assert.Equal(t, 75000.0, ResolvePrice(75000, "Pemeriksaan Umum", procedures))
	})

	t.Run("fallback ke daftar referensi", func(t *testing.T) {
		assert.Equal(t, 50000.0, ResolvePrice(0, "Pemeriksaan Umum", procedures))
		assert.Equal(t, 50000.0, ResolvePrice(0, "  pemeriksaan umum ", procedures))
	})

	t.Run("tidak ada di mana pun = 0", func(t *testing.T) {
		assert.Equal(t, 0.0, ResolvePrice(0, "Tindakan Misterius", procedures))
	})

	t.Run("harga negatif tidak dianggap override", func(t *testing.T) {
		assert.Equal(t, 50000.0, ResolvePrice(-1, "Pemeriksaan Umum", procedures))
	})
}

func TestComputeTotal(t *testing.T) {
	lines := []Line{
		{Name: "Paracetamol 500mg", Quantity: 10, Price: 2000},
		{Name: "Amoxicillin", Quantity: 15, Price: 3500},
	}
	assert.Equal(t, 50000.0+20000+52500, ComputeTotal(50000, lines))
	assert.Equal(t, 0.0, ComputeTotal(0, nil))
}

func TestDeriveTotal(t *testing.T) {
	procedures, drugs := refLists()
	lines := []Line{{Name: "Paracetamol 500mg", Quantity: 5}}

	t.Run("cost tersimpan positif otoritatif", func(t *testing.T) {
		got := DeriveTotal(99000, "Pemeriksaan Umum", 0, lines, procedures, drugs)
		assert.Equal(t, 99000.0, got)
	})

	t.Run("cost nol dihitung dari baris", func(t *testing.T) {
		got := DeriveTotal(0, "Pemeriksaan Umum", 0, lines, procedures, drugs)
		assert.Equal(t, 50000.0+5*2000, got)
	})
}

func TestBillStatus(t *testing.T) {
	assert.Equal(t, models.InvoicePaid, BillStatus(60000, 60000))
	assert.Equal(t, models.InvoicePaid, BillStatus(70000, 60000))
	assert.Equal(t, models.InvoiceUnpaid, BillStatus(30000, 60000))
	// total nol tidak pernah lunas
	assert.Equal(t, models.InvoiceUnpaid, BillStatus(0, 0))
	assert.Equal(t, models.InvoiceUnpaid, BillStatus(10000, 0))
}

func TestPaymentForm(t *testing.T) {
	procedures, drugs := refLists()

	newForm := func() *PaymentForm {
		lines := []Line{{Name: "Paracetamol 500mg", Quantity: 10}}
		return NewPaymentForm("Pemeriksaan Umum", 0, lines, 0, procedures, drugs)
	}

	t.Run("seed harga dari referensi, bayar default = sisa", func(t *testing.T) {
		f := newForm()
		assert.Equal(t, 50000.0, f.ActionPrice)
		require.Len(t, f.Lines, 1)
		assert.Equal(t, 2000.0, f.Lines[0].Price)
		assert.Equal(t, 70000.0, f.Total())
		assert.Equal(t, 70000.0, f.PayNow())
	})

	t.Run("edit harga menghitung ulang nominal bayar", func(t *testing.T) {
		f := newForm()
		f.SetActionPrice(80000)
		assert.Equal(t, 100000.0, f.Total())
		assert.Equal(t, 100000.0, f.PayNow())

		f.SetLinePrice(0, 2500)
		assert.Equal(t, 105000.0, f.Total())
		assert.Equal(t, 105000.0, f.PayNow())
	})

	t.Run("nominal manual membekukan hitung-ulang", func(t *testing.T) {
		f := newForm()
		f.SetPayNow(30000)
		f.SetActionPrice(80000)
		assert.Equal(t, 100000.0, f.Total())
		assert.Equal(t, 30000.0, f.PayNow())
	})

	t.Run("indeks baris di luar jangkauan diabaikan", func(t *testing.T) {
		f := newForm()
		f.SetLinePrice(5, 9999)
		f.SetLinePrice(-1, 9999)
		assert.Equal(t, 70000.0, f.Total())
	})

	t.Run("bayar penuh = selesai", func(t *testing.T) {
		f := newForm()
		res := f.Submit()
		assert.Equal(t, 70000.0, res.Cost)
		assert.Equal(t, 70000.0, res.Paid)
		assert.Equal(t, models.RecordCompleted, res.Status)
	})

	t.Run("bayar sebagian tetap berjalan", func(t *testing.T) {
		f := newForm()
		f.SetPayNow(40000)
		res := f.Submit()
		assert.Equal(t, 70000.0, res.Cost)
		assert.Equal(t, 40000.0, res.Paid)
		assert.Equal(t, models.RecordInProgress, res.Status)
	})

	t.Run("kelebihan bayar diterima apa adanya", func(t *testing.T) {
		f := newForm()
		f.SetPayNow(100000)
		res := f.Submit()
		assert.Equal(t, 100000.0, res.Paid)
		assert.Equal(t, models.RecordCompleted, res.Status)
	})

	t.Run("nominal negatif dianggap nol", func(t *testing.T) {
		f := newForm()
		f.SetPayNow(-500)
		res := f.Submit()
		assert.Equal(t, 0.0, res.Paid)
		assert.Equal(t, models.RecordInProgress, res.Status)
	})

	t.Run("total nol tidak pernah selesai", func(t *testing.T) {
		f := NewPaymentForm("Tindakan Misterius", 0, nil, 0, procedures, drugs)
		res := f.Submit()
		assert.Equal(t, 0.0, res.Cost)
		assert.Equal(t, models.RecordInProgress, res.Status)
	})

	t.Run("pembayaran kedua melanjutkan akumulasi", func(t *testing.T) {
		lines := []Line{{Name: "Paracetamol 500mg", Quantity: 10}}
		f := NewPaymentForm("Pemeriksaan Umum", 0, lines, 40000, procedures, drugs)
		assert.Equal(t, 30000.0, f.PayNow()) // sisa 70000-40000
		res := f.Submit()
		assert.Equal(t, 70000.0, res.Paid)
		assert.Equal(t, models.RecordCompleted, res.Status)
	})
}
