package patient

import (
	"strings"
	"time"

	"klinik-backend/internal/database"
	"klinik-backend/internal/models"
	"klinik-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
)

type PatientResponse struct {
	ID        uint   `json:"id"`
	NoRM      string `json:"no_rm"`
	Name      string `json:"name"`
	NIK       string `json:"nik"`
	BirthDate string `json:"birth_date"` // "2006-01-02", kosong kalau tidak ada
	Gender    string `json:"gender"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

type CreatePatientRequest struct {
	Name      string `json:"name"`
	NIK       string `json:"nik"`
	BirthDate string `json:"birth_date"` // "1990-05-17"
	Gender    string `json:"gender"`     // "L" | "P"
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

type UpdatePatientRequest struct {
	Name      *string `json:"name"`
	NIK       *string `json:"nik"`
	BirthDate *string `json:"birth_date"`
	Gender    *string `json:"gender"`
	Address   *string `json:"address"`
	Phone     *string `json:"phone"`
}

func patientToResponse(p models.Patient) PatientResponse {
	resp := PatientResponse{
		ID:        p.ID,
		NoRM:      p.NoRM,
		Name:      p.Name,
		NIK:       p.NIK,
		Gender:    p.Gender,
		Address:   p.Address,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if p.BirthDate != nil {
		resp.BirthDate = p.BirthDate.Format("2006-01-02")
	}
	return resp
}

// GET /api/patients?q=nama-atau-norm
func ListPatientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Patient{})

		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			dbq = dbq.Where("LOWER(name) LIKE ? OR LOWER(no_rm) LIKE ?", like, like)
		}

		var patients []models.Patient
		if err := dbq.Order("created_at DESC").Find(&patients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pasien gagal dimuat")
		}

		res := make([]PatientResponse, 0, len(patients))
		for _, p := range patients {
			res = append(res, patientToResponse(p))
		}
		return c.JSON(res)
	}
}

// GET /api/patients/:id
func GetPatientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Patient
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pasien tidak ditemukan")
		}

		return c.JSON(patientToResponse(p))
	}
}

// POST /api/patients
func CreatePatientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePatientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama pasien wajib diisi")
		}

		if body.Gender != "" && body.Gender != "L" && body.Gender != "P" {
			return fiber.NewError(fiber.StatusBadRequest, "Jenis kelamin harus 'L' atau 'P'")
		}

		var birthDate *time.Time
		if body.BirthDate != "" {
			d, err := time.Parse("2006-01-02", body.BirthDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Format tanggal lahir harus 'YYYY-MM-DD'")
			}
			birthDate = &d
		}

		// Nomor RM berikutnya untuk bulan ini
		now := time.Now()
		var last models.Patient
		lastNoRM := ""
		if err := database.DB.
			Where("no_rm LIKE ?", noRMPrefix(now)+"%").
			Order("no_rm DESC").
			First(&last).Error; err == nil {
			lastNoRM = last.NoRM
		}

		p := models.Patient{
			NoRM:      NextNoRM(lastNoRM, now),
			Name:      body.Name,
			NIK:       strings.TrimSpace(body.NIK),
			BirthDate: birthDate,
			Gender:    body.Gender,
			Address:   strings.TrimSpace(body.Address),
			Phone:     strings.TrimSpace(body.Phone),
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pasien gagal didaftarkan")
		}

		notify.Publish(notify.ColPatients)

		return c.Status(fiber.StatusCreated).JSON(patientToResponse(p))
	}
}

// PUT /api/patients/:id
func UpdatePatientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Patient
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pasien tidak ditemukan")
		}

		var body UpdatePatientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nama pasien tidak boleh kosong")
			}
			p.Name = name
		}
		if body.NIK != nil {
			p.NIK = strings.TrimSpace(*body.NIK)
		}
		if body.BirthDate != nil {
			if *body.BirthDate == "" {
				p.BirthDate = nil
			} else {
				d, err := time.Parse("2006-01-02", *body.BirthDate)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Format tanggal lahir harus 'YYYY-MM-DD'")
				}
				p.BirthDate = &d
			}
		}
		if body.Gender != nil {
			if *body.Gender != "" && *body.Gender != "L" && *body.Gender != "P" {
				return fiber.NewError(fiber.StatusBadRequest, "Jenis kelamin harus 'L' atau 'P'")
			}
			p.Gender = *body.Gender
		}
		if body.Address != nil {
			p.Address = strings.TrimSpace(*body.Address)
		}
		if body.Phone != nil {
			p.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pasien gagal diperbarui")
		}

		notify.Publish(notify.ColPatients)

		return c.JSON(patientToResponse(p))
	}
}
