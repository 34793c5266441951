package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) *time.Time {
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	return &t
}

func TestAddBatch(t *testing.T) {
	t.Run("quantity nol atau negatif diabaikan", func(t *testing.T) {
		l := NewLedger()
		l.AddItem(1, "Paracetamol")

		assert.False(t, l.AddBatch(1, Batch{ID: 1, Quantity: 0}))
		assert.False(t, l.AddBatch(1, Batch{ID: 2, Quantity: -5}))
		assert.Equal(t, 0, l.TotalQuantity(1))
	})

	t.Run("item tidak dikenal", func(t *testing.T) {
		l := NewLedger()
		assert.False(t, l.AddBatch(99, Batch{ID: 1, Quantity: 10}))
	})

	t.Run("lot dengan kadaluarsa sama tidak digabung", func(t *testing.T) {
		l := NewLedger()
		l.AddItem(1, "Paracetamol")
		exp := day(30)

		require.True(t, l.AddBatch(1, Batch{ID: 1, LotCode: "A", Quantity: 10, Expiry: exp}))
		require.True(t, l.AddBatch(1, Batch{ID: 2, LotCode: "A", Quantity: 5, Expiry: exp}))

		assert.Len(t, l.Batches(1), 2)
		assert.Equal(t, 15, l.TotalQuantity(1))
	})
}

func TestReduceByItemID(t *testing.T) {
	t.Run("urutan FEFO", func(t *testing.T) {
		l := NewLedger()
		l.AddItem(1, "Amoxicillin")
		l.AddBatch(1, Batch{ID: 1, Quantity: 5, Expiry: day(90)})
		l.AddBatch(1, Batch{ID: 2, Quantity: 5, Expiry: day(10)})
		l.AddBatch(1, Batch{ID: 3, Quantity: 5, Expiry: day(30)})

		res := l.ReduceByItemID(1, 7)
		assert.Equal(t, 7, res.Taken)
		assert.Equal(t, 0, res.Shortfall)

		// batch 10 hari habis, batch 30 hari kepotong 2
		batches := l.Batches(1)
		require.Len(t, batches, 2)
		assert.Equal(t, uint(3), batches[0].ID)
		assert.Equal(t, 3, batches[0].Quantity)
		assert.Equal(t, uint(1), batches[1].ID)
		assert.Equal(t, 5, batches[1].Quantity)
	})

	t.Run("batch tanpa kadaluarsa dipakai paling akhir", func(t *testing.T) {
		l := NewLedger()
		l.AddItem(1, "Vitamin C")
		l.AddBatch(1, Batch{ID: 1, Quantity: 5, Expiry: nil})
		l.AddBatch(1, Batch{ID: 2, Quantity: 5, Expiry: day(365)})

		res := l.ReduceByItemID(1, 6)
		assert.Equal(t, 6, res.Taken)

		batches := l.Batches(1)
		require.Len(t, batches, 1)
		assert.Equal(t, uint(1), batches[0].ID)
		assert.Equal(t, 4, batches[0].Quantity)
	})

	t.Run("stok kurang: parsial diterapkan, sisanya dilaporkan", func(t *testing.T) {
		l := NewLedger()
		l.AddItem(1, "Ibuprofen")
		l.AddBatch(1, Batch{ID: 1, Quantity: 3, Expiry: day(10)})

		res := l.ReduceByItemID(1, 10)
		assert.Equal(t, 3, res.Taken)
		assert.Equal(t, 7, res.Shortfall)
		assert.Equal(t, 0, l.TotalQuantity(1))
		assert.Empty(t, l.Batches(1))
	})

	t.Run("quantity nol atau negatif tidak mengubah apa pun", func(t *testing.T) {
		l := NewLedger()
		l.AddItem(1, "Ibuprofen")
		l.AddBatch(1, Batch{ID: 1, Quantity: 3, Expiry: day(10)})

		assert.Equal(t, ReduceResult{}, l.ReduceByItemID(1, 0))
		assert.Equal(t, ReduceResult{}, l.ReduceByItemID(1, -2))
		assert.Equal(t, 3, l.TotalQuantity(1))
	})

	t.Run("item tidak dikenal", func(t *testing.T) {
		l := NewLedger()
		assert.Equal(t, ReduceResult{}, l.ReduceByItemID(42, 5))
	})

	t.Run("konservasi: taken + sisa stok = stok awal", func(t *testing.T) {
		l := NewLedger()
		l.AddItem(1, "OBH")
		l.AddBatch(1, Batch{ID: 1, Quantity: 4, Expiry: day(5)})
		l.AddBatch(1, Batch{ID: 2, Quantity: 9, Expiry: nil})
		l.AddBatch(1, Batch{ID: 3, Quantity: 2, Expiry: day(50)})
		before := l.TotalQuantity(1)

		res := l.ReduceByItemID(1, 11)
		assert.Equal(t, before, res.Taken+l.TotalQuantity(1))
	})
}

func TestConsumeByUsageList(t *testing.T) {
	t.Run("nama case-insensitive", func(t *testing.T) {
		l := NewLedger()
		l.AddItem(1, "Paracetamol 500mg")
		l.AddBatch(1, Batch{ID: 1, Quantity: 20, Expiry: day(60)})

		results := l.ConsumeByUsageList([]Usage{
			{Name: "PARACETAMOL 500MG", Quantity: 5},
		})
		require.Len(t, results, 1)
		assert.True(t, results[0].Matched)
		assert.Equal(t, 5, results[0].Taken)
		assert.Equal(t, 15, l.TotalQuantity(1))
	})

	t.Run("nama tidak dikenal dilewati tanpa error", func(t *testing.T) {
		l := NewLedger()
		l.AddItem(1, "Paracetamol")
		l.AddBatch(1, Batch{ID: 1, Quantity: 10, Expiry: day(60)})

		results := l.ConsumeByUsageList([]Usage{
			{Name: "Racikan Batuk", Quantity: 3},
			{Name: "Paracetamol", Quantity: 2},
		})
		require.Len(t, results, 2)
		assert.False(t, results[0].Matched)
		assert.Equal(t, 0, results[0].Taken)
		assert.True(t, results[1].Matched)
		assert.Equal(t, 2, results[1].Taken)
		assert.Equal(t, 8, l.TotalQuantity(1))
	})

	t.Run("shortfall per baris", func(t *testing.T) {
		l := NewLedger()
		l.AddItem(1, "Amoxicillin")
		l.AddBatch(1, Batch{ID: 1, Quantity: 4, Expiry: day(15)})

		results := l.ConsumeByUsageList([]Usage{
			{Name: "Amoxicillin", Quantity: 10},
		})
		require.Len(t, results, 1)
		assert.Equal(t, 4, results[0].Taken)
		assert.Equal(t, 6, results[0].Shortfall)
	})
}

func TestBatchesOrder(t *testing.T) {
	l := NewLedger()
	l.AddItem(1, "Cetirizine")
	l.AddBatch(1, Batch{ID: 1, Quantity: 1, Expiry: nil})
	l.AddBatch(1, Batch{ID: 2, Quantity: 1, Expiry: day(20)})
	l.AddBatch(1, Batch{ID: 3, Quantity: 1, Expiry: day(5)})

	batches := l.Batches(1)
	require.Len(t, batches, 3)
	assert.Equal(t, uint(3), batches[0].ID)
	assert.Equal(t, uint(2), batches[1].ID)
	assert.Equal(t, uint(1), batches[2].ID) // nil paling belakang
}
