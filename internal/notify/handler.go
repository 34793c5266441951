package notify

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// GET /api/events?collections=registrations,drug_batches
// Server-Sent Events: setiap event hanya berisi nama koleksi yang
// berubah, klien refetch sendiri.
func StreamHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var collections []string
		if q := strings.TrimSpace(c.Query("collections")); q != "" {
			for _, col := range strings.Split(q, ",") {
				if col = strings.TrimSpace(col); col != "" {
					collections = append(collections, col)
				}
			}
		}

		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")

		ch := Default.Subscribe(collections)

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer Default.Unsubscribe(ch)

			// Keepalive supaya proxy tidak memutus koneksi idle
			keepalive := time.NewTicker(30 * time.Second)
			defer keepalive.Stop()

			for {
				select {
				case col, ok := <-ch:
					if !ok {
						return
					}
					fmt.Fprintf(w, "event: change\ndata: %s\n\n", col)
				case <-keepalive.C:
					fmt.Fprint(w, ": keepalive\n\n")
				}
				if err := w.Flush(); err != nil {
					// Klien sudah menutup koneksi
					return
				}
			}
		}))

		return nil
	}
}
