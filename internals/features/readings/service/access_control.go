package service

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kosanku_backend/internals/constants"
	readingModel "kosanku_backend/internals/features/readings/model"
	tenantModel "kosanku_backend/internals/features/rentals/tenants/model"
)

// AccessResult adalah hasil evaluasi predicate akses untuk satu reading.
// Semua keputusan role/ownership lewat sini; komponen lain tidak boleh
// ngecek role admin sendiri-sendiri.
type AccessResult struct {
	CanView    bool   `json:"can_view"`
	CanEdit    bool   `json:"can_edit"`
	CanApprove bool   `json:"can_approve"`
	CanReject  bool   `json:"can_reject"`
	IsOwner    bool   `json:"is_owner"`
	IsAdmin    bool   `json:"is_admin"`
	Status     string `json:"status"`
}

// HasRoomAccess: admin implisit punya akses semua kamar; user biasa hanya
// kamar yang terhubung lewat tenant aktif.
func HasRoomAccess(db *gorm.DB, actorID uuid.UUID, actorRole string, roomID uuid.UUID) (bool, error) {
	if actorRole == constants.RoleAdmin {
		return true, nil
	}
	var count int64
	err := db.Model(&tenantModel.TenantModel{}).
		Where("tenant_user_id = ? AND tenant_room_id = ? AND tenant_is_active = ?", actorID, roomID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CheckAccess mengevaluasi hak view/edit/approve/reject satu actor terhadap
// satu reading. NotFound kalau reading tidak ada. Untuk non-admin tanpa akses
// kamar, semua flag false tanpa evaluasi lanjutan.
func CheckAccess(db *gorm.DB, readingID, actorID uuid.UUID, actorRole string) (*AccessResult, *readingModel.MeterReadingModel, error) {
	var reading readingModel.MeterReadingModel
	if err := db.First(&reading, "reading_id = ?", readingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusNotFound, "Reading tidak ditemukan")
		}
		return nil, nil, err
	}

	isAdmin := actorRole == constants.RoleAdmin
	isOwner := reading.ReadingSubmittedBy == actorID
	result := &AccessResult{
		IsAdmin: isAdmin,
		IsOwner: isOwner,
		Status:  reading.ReadingStatus,
	}

	hasAccess, err := HasRoomAccess(db, actorID, actorRole, reading.ReadingRoomID)
	if err != nil {
		return nil, nil, err
	}
	if !hasAccess {
		// tanpa akses kamar: semua flag false
		return result, &reading, nil
	}

	result.CanView = true
	result.CanEdit = isAdmin || (isOwner && reading.ReadingStatus == readingModel.ReadingStatusPending)
	result.CanApprove = isAdmin && reading.ReadingStatus == readingModel.ReadingStatusPending
	result.CanReject = isAdmin && reading.ReadingStatus == readingModel.ReadingStatusPending

	return result, &reading, nil
}

// ValidateView memastikan actor boleh melihat reading.
func ValidateView(db *gorm.DB, readingID, actorID uuid.UUID, actorRole string) (*readingModel.MeterReadingModel, error) {
	access, reading, err := CheckAccess(db, readingID, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	if !access.CanView {
		return nil, fiber.NewError(fiber.StatusForbidden, "Anda tidak punya akses ke kamar ini")
	}
	return reading, nil
}

// ValidateModification memastikan actor boleh mengubah reading.
// Pesan error dibedakan: tidak punya akses kamar / bukan pengirim / status
// tidak mengizinkan — client menampilkan pesan ini apa adanya.
func ValidateModification(db *gorm.DB, readingID, actorID uuid.UUID, actorRole string) (*readingModel.MeterReadingModel, error) {
	access, reading, err := CheckAccess(db, readingID, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	if !access.CanView {
		return nil, fiber.NewError(fiber.StatusForbidden, "Anda tidak punya akses ke kamar ini")
	}
	if access.CanEdit {
		return reading, nil
	}
	if !access.IsOwner && !access.IsAdmin {
		return nil, fiber.NewError(fiber.StatusForbidden, "Hanya pengirim reading yang boleh mengubah data ini")
	}
	return nil, fiber.NewError(fiber.StatusForbidden,
		"Reading yang sudah di-"+reading.ReadingStatus+" tidak bisa diubah lagi")
}

// ValidateApproval memastikan actor boleh approve reading.
func ValidateApproval(db *gorm.DB, readingID, actorID uuid.UUID, actorRole string) (*readingModel.MeterReadingModel, error) {
	access, reading, err := CheckAccess(db, readingID, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	if !access.IsAdmin {
		return nil, fiber.NewError(fiber.StatusForbidden, "Hanya admin yang boleh approve reading")
	}
	if reading.ReadingStatus != readingModel.ReadingStatusPending {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			"Hanya reading berstatus pending yang bisa di-approve (status sekarang: "+reading.ReadingStatus+")")
	}
	return reading, nil
}

// ValidateRejection memastikan actor boleh reject reading.
func ValidateRejection(db *gorm.DB, readingID, actorID uuid.UUID, actorRole string) (*readingModel.MeterReadingModel, error) {
	access, reading, err := CheckAccess(db, readingID, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	if !access.IsAdmin {
		return nil, fiber.NewError(fiber.StatusForbidden, "Hanya admin yang boleh reject reading")
	}
	if reading.ReadingStatus != readingModel.ReadingStatusPending {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			"Hanya reading berstatus pending yang bisa di-reject (status sekarang: "+reading.ReadingStatus+")")
	}
	return reading, nil
}
