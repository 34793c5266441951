package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublish(t *testing.T) {
	t.Run("subscriber tanpa filter menerima semua", func(t *testing.T) {
		h := New()
		ch := h.Subscribe(nil)
		defer h.Unsubscribe(ch)

		h.Publish(ColPatients)
		h.Publish(ColInvoices)

		assert.Equal(t, ColPatients, <-ch)
		assert.Equal(t, ColInvoices, <-ch)
	})

	t.Run("filter koleksi", func(t *testing.T) {
		h := New()
		ch := h.Subscribe([]string{ColDrugBatches})
		defer h.Unsubscribe(ch)

		h.Publish(ColPatients)
		h.Publish(ColDrugBatches)

		require.Len(t, ch, 1)
		assert.Equal(t, ColDrugBatches, <-ch)
	})

	t.Run("buffer penuh tidak memblokir publisher", func(t *testing.T) {
		h := New()
		ch := h.Subscribe(nil)
		defer h.Unsubscribe(ch)

		for i := 0; i < 100; i++ {
			h.Publish(ColRegistrations) // lebih banyak dari kapasitas buffer
		}
		assert.Equal(t, cap(ch), len(ch))
	})

	t.Run("unsubscribe menutup channel", func(t *testing.T) {
		h := New()
		ch := h.Subscribe(nil)
		h.Unsubscribe(ch)

		_, open := <-ch
		assert.False(t, open)

		// unsubscribe dua kali aman
		h.Unsubscribe(ch)
	})

	t.Run("publish setelah unsubscribe tidak sampai", func(t *testing.T) {
		h := New()
		ch := h.Subscribe(nil)
		h.Unsubscribe(ch)

		h.Publish(ColFinanceEntries)
		// channel sudah ditutup dan dikeluarkan dari daftar, tidak panic
	})
}
