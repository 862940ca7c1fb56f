// 📁 controller/tenant_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "kosanku_backend/internals/helpers"

	roomModel "kosanku_backend/internals/features/rentals/rooms/model"
	"kosanku_backend/internals/features/rentals/tenants/dto"
	tenantModel "kosanku_backend/internals/features/rentals/tenants/model"
)

var validate = validator.New()

type TenantController struct {
	DB *gorm.DB
}

func NewTenantController(db *gorm.DB) *TenantController {
	return &TenantController{DB: db}
}

// 🟢 CREATE TENANT (admin): cek kapasitas kamar + invariant maks. satu
// tenant aktif per user account (ditegakkan juga oleh index unik partial)
func (ctrl *TenantController) CreateTenant(c *fiber.Ctx) error {
	var body dto.CreateTenantRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var room roomModel.RoomModel
	if err := ctrl.DB.First(&room, "room_id = ?", body.TenantRoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Kamar tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var occupied int64
	if err := ctrl.DB.Model(&tenantModel.TenantModel{}).
		Where("tenant_room_id = ? AND tenant_is_active = ?", room.RoomID, true).
		Count(&occupied).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if int(occupied) >= room.RoomMaxTenants {
		return helper.JsonError(c, fiber.StatusConflict, "Kamar sudah penuh")
	}

	moveIn := time.Now()
	if body.TenantMoveInAt != nil {
		moveIn = *body.TenantMoveInAt
	}

	tenant := tenantModel.TenantModel{
		TenantName:     body.TenantName,
		TenantPhone:    body.TenantPhone,
		TenantRoomID:   body.TenantRoomID,
		TenantUserID:   body.TenantUserID,
		TenantIsActive: true,
		TenantMoveInAt: moveIn,
	}
	if err := ctrl.DB.Create(&tenant).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "User tersebut sudah terhubung dengan tenant aktif lain")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan tenant")
	}
	return helper.JsonCreated(c, "Tenant berhasil dibuat", tenant)
}

// 🟢 LIST TENANTS (admin)
func (ctrl *TenantController) ListTenants(c *fiber.Ctx) error {
	query := ctrl.DB.Model(&tenantModel.TenantModel{})
	if raw := c.Query("room_id"); raw != "" {
		roomID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "room_id tidak valid")
		}
		query = query.Where("tenant_room_id = ?", roomID)
	}
	if c.QueryBool("active_only") {
		query = query.Where("tenant_is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	paging := helper.ResolvePaging(c, 20, 100)
	var tenants []tenantModel.TenantModel
	if err := query.Order("created_at ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&tenants).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", tenants, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// 🟢 UPDATE TENANT (admin): pindah kamar, unlink user, move-out, curfew
func (ctrl *TenantController) UpdateTenant(c *fiber.Ctx) error {
	tenantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tenant tidak valid")
	}

	var body dto.UpdateTenantRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request tidak valid")
	}

	var tenant tenantModel.TenantModel
	if err := ctrl.DB.First(&tenant, "tenant_id = ?", tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Tenant tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if body.TenantName != nil {
		tenant.TenantName = *body.TenantName
	}
	if body.TenantPhone != nil {
		tenant.TenantPhone = *body.TenantPhone
	}
	if body.TenantRoomID != nil && *body.TenantRoomID != tenant.TenantRoomID {
		var room roomModel.RoomModel
		if err := ctrl.DB.First(&room, "room_id = ?", *body.TenantRoomID).Error; err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Kamar tujuan tidak ditemukan")
		}
		var occupied int64
		if err := ctrl.DB.Model(&tenantModel.TenantModel{}).
			Where("tenant_room_id = ? AND tenant_is_active = ?", room.RoomID, true).
			Count(&occupied).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		if int(occupied) >= room.RoomMaxTenants {
			return helper.JsonError(c, fiber.StatusConflict, "Kamar tujuan sudah penuh")
		}
		tenant.TenantRoomID = *body.TenantRoomID
	}
	if body.TenantUserID != nil {
		tenant.TenantUserID = body.TenantUserID
	}
	if body.TenantHasCurfew != nil {
		tenant.TenantHasCurfew = *body.TenantHasCurfew
	}
	if body.TenantIsActive != nil {
		tenant.TenantIsActive = *body.TenantIsActive
		if !tenant.TenantIsActive && tenant.TenantMoveOutAt == nil {
			now := time.Now()
			tenant.TenantMoveOutAt = &now
		}
	}
	if body.TenantMoveOutAt != nil {
		tenant.TenantMoveOutAt = body.TenantMoveOutAt
	}

	if err := ctrl.DB.Save(&tenant).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "User tersebut sudah terhubung dengan tenant aktif lain")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan tenant")
	}
	return helper.JsonUpdated(c, "Tenant berhasil diperbarui", tenant)
}

// 🟢 DELETE TENANT (admin, soft delete)
func (ctrl *TenantController) DeleteTenant(c *fiber.Ctx) error {
	tenantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tenant tidak valid")
	}

	res := ctrl.DB.Delete(&tenantModel.TenantModel{}, "tenant_id = ?", tenantID)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Tenant tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Tenant berhasil dihapus", fiber.Map{"tenant_id": tenantID})
}
