// 📁 controller/reading_controller.go
package controller

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "kosanku_backend/internals/helpers"

	billingService "kosanku_backend/internals/features/billing/service"
	"kosanku_backend/internals/features/readings/dto"
	readingService "kosanku_backend/internals/features/readings/service"
)

var validate = validator.New()

type ReadingController struct {
	DB *gorm.DB
}

func NewReadingController(db *gorm.DB) *ReadingController {
	return &ReadingController{DB: db}
}

// 🟢 CREATE READING: setoran angka meteran baru (tenant atau admin)
func (ctrl *ReadingController) CreateReading(c *fiber.Ctx) error {
	var body dto.CreateReadingRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	reading, err := readingService.CreateReading(ctrl.DB, body, userID, helper.GetUserRole(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Setoran meteran berhasil dikirim", reading)
}

// 🟢 UPDATE READING: ubah field reading (owner selama pending, admin kapan saja)
func (ctrl *ReadingController) UpdateReading(c *fiber.Ctx) error {
	readingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID reading tidak valid")
	}

	var body dto.UpdateReadingRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request tidak valid")
	}

	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	reading, err := readingService.UpdateReading(ctrl.DB, readingID, body, userID, helper.GetUserRole(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Reading berhasil diperbarui", reading)
}

// 🟢 GET READING: detail satu reading + audit history + flag akses caller
func (ctrl *ReadingController) GetReading(c *fiber.Ctx) error {
	readingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID reading tidak valid")
	}

	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role := helper.GetUserRole(c)

	reading, mods, err := readingService.GetReadingWithHistory(ctrl.DB, readingID, userID, role)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	access, _, err := readingService.CheckAccess(ctrl.DB, readingID, userID, role)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonOK(c, "", fiber.Map{
		"reading": reading,
		"history": mods,
		"access":  access,
	})
}

// 🟢 LIST READINGS: daftar reading dengan filter, di-scope ke akses caller
func (ctrl *ReadingController) ListReadings(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var q dto.ListReadingsQuery
	if raw := strings.TrimSpace(c.Query("room_id")); raw != "" {
		roomID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "room_id tidak valid")
		}
		q.RoomID = &roomID
	}
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "month tidak valid")
		}
		q.Month = &month
	}
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "year tidak valid")
		}
		q.Year = &year
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		q.Status = &raw
	}

	paging := helper.ResolvePaging(c, 20, 100)
	readings, total, err := readingService.ListReadings(ctrl.DB, q, userID, helper.GetUserRole(c), paging.Offset, paging.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonList(c, "", readings, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// 🟢 APPROVE READING: pending→approved, memicu pembuatan billing (admin)
func (ctrl *ReadingController) ApproveReading(c *fiber.Ctx) error {
	readingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID reading tidak valid")
	}

	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	reading, err := readingService.ApproveReading(ctrl.DB, readingID, userID, helper.GetUserRole(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Reading disetujui, tagihan sedang dibuat", reading)
}

// 🟢 REJECT READING: pending→rejected (admin)
func (ctrl *ReadingController) RejectReading(c *fiber.Ctx) error {
	readingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID reading tidak valid")
	}

	var body dto.RejectReadingRequest
	_ = c.BodyParser(&body) // reason opsional

	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	reading, err := readingService.RejectReading(ctrl.DB, readingID, userID, helper.GetUserRole(c), body.Reason)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Reading ditolak", reading)
}

// 🟢 ROOM HISTORY: daftar kronologis reading satu kamar
func (ctrl *ReadingController) GetRoomHistory(c *fiber.Ctx) error {
	roomID, err := uuid.Parse(c.Params("roomId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kamar tidak valid")
	}

	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	readings, err := readingService.GetRoomHistory(ctrl.DB, roomID, userID, helper.GetUserRole(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "", readings)
}

// 🟢 PREVIEW: kalkulasi real-time tanpa menyimpan apa pun.
// Deterministik: angka yang sama selalu menghasilkan total yang sama dengan
// kalkulasi server saat create/approve.
func (ctrl *ReadingController) PreviewCalculation(c *fiber.Ctx) error {
	var body dto.PreviewCalculationRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role := helper.GetUserRole(c)

	hasAccess, err := readingService.HasRoomAccess(ctrl.DB, userID, role, body.RoomID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if !hasAccess {
		return helper.JsonError(c, fiber.StatusForbidden, "Anda tidak punya akses ke kamar ini")
	}

	var baseRent float64
	if err := ctrl.DB.Table("rooms").
		Select("room_base_rent").
		Where("room_id = ?", body.RoomID).
		Scan(&baseRent).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	breakdown, err := billingService.CalculateBilling(ctrl.DB, body.RoomID, body.Month, body.Year,
		body.WaterReading, body.ElectricityReading, baseRent)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", breakdown)
}

// 🟢 UPLOAD PHOTO: foto bukti meteran (multipart), dikonversi ke WebP
// dan disimpan di disk; response berisi path yang diserve via /uploads.
func (ctrl *ReadingController) UploadPhoto(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File photo wajib dikirim")
	}

	relPath, err := helper.SaveImageAsWebP("./uploads", "readings", fileHeader)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	return helper.JsonCreated(c, "Foto berhasil diunggah", fiber.Map{
		"photo_url": "/uploads/" + relPath,
	})
}
