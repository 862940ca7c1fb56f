// 📁 controller/billing_controller.go
package controller

import (
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "kosanku_backend/internals/helpers"

	"kosanku_backend/internals/features/billing/dto"
	billingService "kosanku_backend/internals/features/billing/service"
)

var validate = validator.New()

type BillingController struct {
	DB *gorm.DB
}

func NewBillingController(db *gorm.DB) *BillingController {
	return &BillingController{DB: db}
}

// 🟢 GENERATE BILLING: pembuatan billing eksplisit (normalnya otomatis
// saat approve; endpoint ini untuk menambal kalau side effect-nya gagal)
func (ctrl *BillingController) GenerateBilling(c *fiber.Ctx) error {
	readingID, err := uuid.Parse(c.Params("readingId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID reading tidak valid")
	}

	rec, err := billingService.GenerateBillingRecord(ctrl.DB, readingID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Billing berhasil dibuat", rec)
}

// 🟢 LIST BILLING: daftar billing di-scope ke akses caller
func (ctrl *BillingController) ListBillings(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var status *string
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status = &raw
	}

	paging := helper.ResolvePaging(c, 20, 100)
	recs, total, err := billingService.ListBillings(ctrl.DB, userID, helper.GetUserRole(c), status, paging.Offset, paging.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "", recs, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// 🟢 GET BILLING: detail satu billing
func (ctrl *BillingController) GetBilling(c *fiber.Ctx) error {
	billingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID billing tidak valid")
	}

	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	rec, err := billingService.GetBillingByID(ctrl.DB, billingID, userID, helper.GetUserRole(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "", rec)
}

// 🟢 ROOM BILLING HISTORY
func (ctrl *BillingController) GetRoomBillingHistory(c *fiber.Ctx) error {
	roomID, err := uuid.Parse(c.Params("roomId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kamar tidak valid")
	}

	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	recs, err := billingService.GetRoomBillingHistory(ctrl.DB, roomID, userID, helper.GetUserRole(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "", recs)
}

// 🟢 UPDATE PAYMENT STATUS (admin)
func (ctrl *BillingController) UpdatePaymentStatus(c *fiber.Ctx) error {
	billingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID billing tidak valid")
	}

	var body dto.UpdatePaymentStatusRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	rec, err := billingService.UpdatePaymentStatus(ctrl.DB, billingID, body.Status, body.PaymentDate)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status pembayaran diperbarui", rec)
}

// 🟢 REPORTS
func (ctrl *BillingController) GetFinancialSummary(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	summary, err := billingService.GetFinancialSummary(ctrl.DB, userID, helper.GetUserRole(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "", summary)
}

func (ctrl *BillingController) GetMonthlyReport(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year <= 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Query year wajib diisi angka tahun")
	}

	rows, err := billingService.GetMonthlyReport(ctrl.DB, year, userID, helper.GetUserRole(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

func (ctrl *BillingController) GetYearlyReport(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	rows, err := billingService.GetYearlyReport(ctrl.DB, userID, helper.GetUserRole(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "", rows)
}

// 🟢 HANDLE MIDTRANS WEBHOOK: update status billing dari notifikasi Midtrans
func (ctrl *BillingController) HandleMidtransNotification(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid webhook",
		})
	}

	log.Println("Received webhook:", body)

	if err := billingService.HandleBillingStatusWebhook(ctrl.DB, body); err != nil {
		log.Println("[ERROR] Webhook gagal:", err)
		return c.SendStatus(500)
	}

	return c.SendStatus(200)
}
