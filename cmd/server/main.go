package main

import (
	"log"
	"strings"

	"klinik-backend/internal/audit"
	"klinik-backend/internal/auth"
	"klinik-backend/internal/billing"
	"klinik-backend/internal/config"
	"klinik-backend/internal/database"
	"klinik-backend/internal/finance"
	"klinik-backend/internal/inventory"
	"klinik-backend/internal/master"
	"klinik-backend/internal/models"
	"klinik-backend/internal/notify"
	"klinik-backend/internal/patient"
	"klinik-backend/internal/registration"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Terjadi kesalahan pada server",
			})
		},
	})

	// CORS origins dipisah koma di env
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Event stream realtime (SSE)
	protected.Get("/events", notify.StreamHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Manajemen user
	adminRoutes.Post("/users", auth.CreateUserHandler())

	// Master data: poli
	adminRoutes.Post("/polyclinics", master.CreatePolyclinicHandler())
	adminRoutes.Put("/polyclinics/:id", master.UpdatePolyclinicHandler())
	adminRoutes.Delete("/polyclinics/:id", master.DeletePolyclinicHandler())

	// Master data: dokter
	adminRoutes.Post("/doctors", master.CreateDoctorHandler())
	adminRoutes.Put("/doctors/:id", master.UpdateDoctorHandler())
	adminRoutes.Delete("/doctors/:id", master.DeleteDoctorHandler())

	// Master data: tindakan
	adminRoutes.Post("/procedures", master.CreateProcedureHandler())
	adminRoutes.Put("/procedures/:id", master.UpdateProcedureHandler())
	adminRoutes.Delete("/procedures/:id", master.DeleteProcedureHandler())

	// Master data: supplier
	adminRoutes.Post("/suppliers", master.CreateSupplierHandler())
	adminRoutes.Put("/suppliers/:id", master.UpdateSupplierHandler())
	adminRoutes.Delete("/suppliers/:id", master.DeleteSupplierHandler())

	// Master data: obat
	adminRoutes.Post("/drugs", master.CreateDrugHandler())
	adminRoutes.Put("/drugs/:id", master.UpdateDrugHandler())
	adminRoutes.Delete("/drugs/:id", master.DeleteDrugHandler())

	// Undo audit log (khusus admin)
	adminRoutes.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	// Route bersama (semua user login)

	// Master data (read)
	protected.Get("/polyclinics", master.ListPolyclinicsHandler())
	protected.Get("/doctors", master.ListDoctorsHandler())
	protected.Get("/procedures", master.ListProceduresHandler())
	protected.Get("/suppliers", master.ListSuppliersHandler())
	protected.Get("/drugs", master.ListDrugsHandler())

	// Pasien
	protected.Get("/patients", patient.ListPatientsHandler())
	protected.Get("/patients/:id", patient.GetPatientHandler())
	protected.Post("/patients", patient.CreatePatientHandler())
	protected.Put("/patients/:id", patient.UpdatePatientHandler())

	// Pendaftaran & antrian
	protected.Post("/registrations", registration.CreateRegistrationHandler())
	protected.Get("/registrations", registration.ListRegistrationsHandler())
	protected.Put("/registrations/:id/status", registration.UpdateRegistrationStatusHandler())

	// Rekam medis
	protected.Post("/registrations/:id/start-exam", registration.StartExamHandler())
	protected.Get("/medical-records", registration.ListRecordsHandler())
	protected.Get("/medical-records/:id", registration.GetRecordHandler())
	protected.Put("/medical-records/:id", registration.SaveRecordHandler())

	// Stok obat
	protected.Get("/stock", inventory.ListStockHandler())
	protected.Get("/stock/expiring", inventory.ExpiringStockHandler())
	protected.Get("/stock/:drugId/batches", inventory.ListBatchesHandler())
	protected.Post("/stock/receive", inventory.ReceiveStockHandler())
	protected.Post("/stock/reduce", inventory.ReduceStockHandler())

	// Kasir & tagihan
	protected.Get("/bills", billing.ListBillsHandler())
	protected.Get("/bills/:id/payment-form", billing.GetPaymentFormHandler())
	protected.Post("/bills/:id/payment", billing.SubmitPaymentHandler())
	protected.Get("/invoices", billing.ListInvoicesHandler())

	// Keuangan
	protected.Post("/finance-entries", finance.CreateEntryHandler())
	protected.Get("/finance-entries", finance.ListEntriesHandler())
	protected.Put("/finance-entries/:id", finance.UpdateEntryHandler())
	protected.Delete("/finance-entries/:id", finance.DeleteEntryHandler())
	protected.Get("/finance-summary/monthly", finance.MonthlySummaryHandler())
	protected.Get("/finance-report/monthly/xlsx", finance.ExportMonthlyXLSXHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server berjalan di port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
