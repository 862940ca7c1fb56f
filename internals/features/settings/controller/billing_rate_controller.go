// 📁 controller/billing_rate_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "kosanku_backend/internals/helpers"

	settingService "kosanku_backend/internals/features/settings/service"
)

var validate = validator.New()

type BillingRateController struct {
	DB *gorm.DB
}

func NewBillingRateController(db *gorm.DB) *BillingRateController {
	return &BillingRateController{DB: db}
}

type updateRatesRequest struct {
	Electricity float64 `json:"electricity" validate:"min=0"`
	Water       float64 `json:"water" validate:"min=0"`
	TrashFee    float64 `json:"trash_fee" validate:"min=0"`
}

// 🟢 GET RATES: tarif aktif (default kalau belum pernah diset)
func (ctrl *BillingRateController) GetRates(c *fiber.Ctx) error {
	return helper.JsonOK(c, "", settingService.GetActiveRates(ctrl.DB))
}

// 🟢 UPDATE RATES (admin): simpan tarif baru sebagai aktif
func (ctrl *BillingRateController) UpdateRates(c *fiber.Ctx) error {
	var body updateRatesRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	saved, err := settingService.UpdateRates(ctrl.DB, settingService.BillingRates{
		Electricity: body.Electricity,
		Water:       body.Water,
		TrashFee:    body.TrashFee,
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan tarif")
	}
	return helper.JsonUpdated(c, "Tarif billing diperbarui", saved)
}
