// 📁 controller/room_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "kosanku_backend/internals/helpers"

	"kosanku_backend/internals/features/rentals/rooms/dto"
	roomModel "kosanku_backend/internals/features/rentals/rooms/model"
	tenantModel "kosanku_backend/internals/features/rentals/tenants/model"
)

var validate = validator.New()

type RoomController struct {
	DB *gorm.DB
}

func NewRoomController(db *gorm.DB) *RoomController {
	return &RoomController{DB: db}
}

// 🟢 CREATE ROOM (admin)
func (ctrl *RoomController) CreateRoom(c *fiber.Ctx) error {
	var body dto.CreateRoomRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request tidak valid")
	}
	if body.RoomFloor == 0 {
		body.RoomFloor = 1
	}
	if body.RoomMaxTenants == 0 {
		body.RoomMaxTenants = 1
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	room := roomModel.RoomModel{
		RoomNumber:     body.RoomNumber,
		RoomFloor:      body.RoomFloor,
		RoomBaseRent:   body.RoomBaseRent,
		RoomMaxTenants: body.RoomMaxTenants,
		RoomNotes:      body.RoomNotes,
	}
	if err := ctrl.DB.Create(&room).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Nomor kamar sudah dipakai")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan kamar")
	}
	return helper.JsonCreated(c, "Kamar berhasil dibuat", room)
}

// 🟢 LIST ROOMS
func (ctrl *RoomController) ListRooms(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := ctrl.DB.Model(&roomModel.RoomModel{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rooms []roomModel.RoomModel
	if err := ctrl.DB.Order("room_number ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rooms).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", rooms, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// 🟢 GET ROOM: detail + penghuni aktif
func (ctrl *RoomController) GetRoom(c *fiber.Ctx) error {
	roomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kamar tidak valid")
	}

	var room roomModel.RoomModel
	if err := ctrl.DB.First(&room, "room_id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Kamar tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var tenants []tenantModel.TenantModel
	if err := ctrl.DB.
		Where("tenant_room_id = ? AND tenant_is_active = ?", roomID, true).
		Find(&tenants).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "", fiber.Map{
		"room":    room,
		"tenants": tenants,
	})
}

// 🟢 UPDATE ROOM (admin)
func (ctrl *RoomController) UpdateRoom(c *fiber.Ctx) error {
	roomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kamar tidak valid")
	}

	var body dto.UpdateRoomRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request tidak valid")
	}

	var room roomModel.RoomModel
	if err := ctrl.DB.First(&room, "room_id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Kamar tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if body.RoomFloor != nil {
		room.RoomFloor = *body.RoomFloor
	}
	if body.RoomBaseRent != nil {
		if *body.RoomBaseRent < 0 {
			return helper.JsonError(c, fiber.StatusBadRequest, "Base rent tidak boleh negatif")
		}
		room.RoomBaseRent = *body.RoomBaseRent
	}
	if body.RoomMaxTenants != nil {
		if *body.RoomMaxTenants < 1 {
			return helper.JsonError(c, fiber.StatusBadRequest, "Kapasitas kamar minimal 1")
		}
		room.RoomMaxTenants = *body.RoomMaxTenants
	}
	if body.RoomNotes != nil {
		room.RoomNotes = *body.RoomNotes
	}

	if err := ctrl.DB.Save(&room).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan kamar")
	}
	return helper.JsonUpdated(c, "Kamar berhasil diperbarui", room)
}

// 🟢 DELETE ROOM (admin): ditolak selama masih ada tenant aktif
func (ctrl *RoomController) DeleteRoom(c *fiber.Ctx) error {
	roomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kamar tidak valid")
	}

	var activeTenants int64
	if err := ctrl.DB.Model(&tenantModel.TenantModel{}).
		Where("tenant_room_id = ? AND tenant_is_active = ?", roomID, true).
		Count(&activeTenants).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if activeTenants > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Kamar masih dihuni, pindahkan tenant dulu sebelum menghapus")
	}

	res := ctrl.DB.Delete(&roomModel.RoomModel{}, "room_id = ?", roomID)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Kamar tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Kamar berhasil dihapus", fiber.Map{"room_id": roomID})
}
