package patient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextNoRM(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

	t.Run("bulan baru mulai dari 0001", func(t *testing.T) {
		assert.Equal(t, "RM-202608-0001", NextNoRM("", now))
	})

	t.Run("lanjut dari nomor terakhir", func(t *testing.T) {
		assert.Equal(t, "RM-202608-0042", NextNoRM("RM-202608-0041", now))
	})

	t.Run("nomor bulan lalu tidak dilanjutkan", func(t *testing.T) {
		assert.Equal(t, "RM-202608-0001", NextNoRM("RM-202607-0123", now))
	})

	t.Run("format rusak mulai dari 0001", func(t *testing.T) {
		assert.Equal(t, "RM-202608-0001", NextNoRM("RM-202608-xyz", now))
	})

	t.Run("lewat 9999 tetap berjalan", func(t *testing.T) {
		assert.Equal(t, "RM-202608-10000", NextNoRM("RM-202608-9999", now))
	})
}
