package patient

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Nomor rekam medis: RM-YYYYMM-NNNN, urutan berjalan per bulan.

func noRMPrefix(t time.Time) string {
	return fmt.Sprintf("RM-%s-", t.Format("200601"))
}

// NextNoRM menghitung nomor RM berikutnya dari nomor terakhir bulan ini.
// lastNoRM kosong atau bukan format bulan ini -> mulai dari 0001.
func NextNoRM(lastNoRM string, now time.Time) string {
	prefix := noRMPrefix(now)
	seq := 1
	if strings.HasPrefix(lastNoRM, prefix) {
		if n, err := strconv.Atoi(strings.TrimPrefix(lastNoRM, prefix)); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq)
}
