package service

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "kosanku_backend/internals/helpers"

	billingService "kosanku_backend/internals/features/billing/service"
	notificationModel "kosanku_backend/internals/features/notifications/model"
	notificationService "kosanku_backend/internals/features/notifications/service"
	"kosanku_backend/internals/features/readings/dto"
	readingModel "kosanku_backend/internals/features/readings/model"
	roomModel "kosanku_backend/internals/features/rentals/rooms/model"
	tenantModel "kosanku_backend/internals/features/rentals/tenants/model"
)

const minReadingYear = 2020

// notifyAsync dipanggil lewat goroutine setelah transaksi commit.
// Dioverride jadi sinkron di test.
var notifyAsync = func(fn func()) { go fn() }

/* ===============================
   Validasi input
=================================*/

// hasAtMostOneDecimal: angka meteran maksimal satu digit di belakang koma.
func hasAtMostOneDecimal(v float64) bool {
	scaled := v * 10
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fiber.NewError(fiber.StatusBadRequest, "Bulan harus di antara 1 dan 12")
	}
	maxYear := time.Now().Year() + 1
	if year < minReadingYear || year > maxYear {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Tahun harus di antara %d dan %d", minReadingYear, maxYear))
	}
	return nil
}

func validateReadingValue(label string, value float64) error {
	if value < 0 {
		return fiber.NewError(fiber.StatusBadRequest, label+" tidak boleh negatif")
	}
	if !hasAtMostOneDecimal(value) {
		return fiber.NewError(fiber.StatusBadRequest, label+" maksimal satu angka di belakang koma")
	}
	return nil
}

// validateNoRegression: meteran hanya naik — nilai baru tidak boleh lebih
// kecil dari reading approved periode sebelumnya.
func validateNoRegression(db *gorm.DB, roomID uuid.UUID, month, year int, water, electricity float64) error {
	prev, err := billingService.FindPreviousApprovedReading(db, roomID, month, year)
	if err != nil {
		return err
	}
	if prev == nil {
		return nil
	}
	if water < prev.ReadingWater {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Angka meter air tidak boleh lebih kecil dari bulan sebelumnya (%.1f)", prev.ReadingWater))
	}
	if electricity < prev.ReadingElectricity {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Angka meter listrik tidak boleh lebih kecil dari bulan sebelumnya (%.1f)", prev.ReadingElectricity))
	}
	return nil
}

/* ===============================
   CREATE
=================================*/

// CreateReading memvalidasi & menyimpan setoran reading baru (status pending),
// menulis audit CREATE, lalu memberi tahu admin.
func CreateReading(db *gorm.DB, req dto.CreateReadingRequest, submitterID uuid.UUID, submitterRole string) (*readingModel.MeterReadingModel, error) {
	if err := validatePeriod(req.Month, req.Year); err != nil {
		return nil, err
	}
	if err := validateReadingValue("Angka meter air", req.WaterReading); err != nil {
		return nil, err
	}
	if err := validateReadingValue("Angka meter listrik", req.ElectricityReading); err != nil {
		return nil, err
	}

	var room roomModel.RoomModel
	if err := db.First(&room, "room_id = ?", req.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Kamar tidak ditemukan")
		}
		return nil, err
	}

	// akses kamar: pengirim non-admin harus penghuni kamar tsb
	hasAccess, err := HasRoomAccess(db, submitterID, submitterRole, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !hasAccess {
		return nil, fiber.NewError(fiber.StatusForbidden, "Anda tidak punya akses ke kamar ini")
	}

	// duplikat approved untuk periode yang sama → conflict
	// (pending/rejected boleh dobel: resubmission setelah reject)
	var approvedCount int64
	if err := db.Model(&readingModel.MeterReadingModel{}).
		Where("reading_room_id = ? AND reading_month = ? AND reading_year = ? AND reading_status = ?",
			req.RoomID, req.Month, req.Year, readingModel.ReadingStatusApproved).
		Count(&approvedCount).Error; err != nil {
		return nil, err
	}
	if approvedCount > 0 {
		return nil, fiber.NewError(fiber.StatusConflict,
			fmt.Sprintf("Sudah ada reading approved untuk periode %d/%d", req.Month, req.Year))
	}

	if err := validateNoRegression(db, req.RoomID, req.Month, req.Year, req.WaterReading, req.ElectricityReading); err != nil {
		return nil, err
	}

	// base rent dari client diabaikan: snapshot selalu pakai rent kamar saat ini
	breakdown, err := billingService.CalculateBilling(db, req.RoomID, req.Month, req.Year,
		req.WaterReading, req.ElectricityReading, room.RoomBaseRent)
	if err != nil {
		return nil, err
	}

	reading := readingModel.MeterReadingModel{
		ReadingRoomID:              req.RoomID,
		ReadingMonth:               req.Month,
		ReadingYear:                req.Year,
		ReadingWater:               req.WaterReading,
		ReadingElectricity:         req.ElectricityReading,
		ReadingWaterPhotoURL:       req.WaterPhotoURL,
		ReadingElectricityPhotoURL: req.ElectricityPhotoURL,
		ReadingBaseRent:            room.RoomBaseRent,
		ReadingTotalAmount:         breakdown.TotalAmount,
		ReadingStatus:              readingModel.ReadingStatusPending,
		ReadingSubmittedBy:         submitterID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reading).Error; err != nil {
			return err
		}
		return tx.Create(&readingModel.ReadingModificationModel{
			ModificationReadingID: reading.ReadingID,
			ModificationUserID:    submitterID,
			ModificationType:      readingModel.ModificationCreate,
			ModificationNewValue: fmt.Sprintf("air=%.1f listrik=%.1f periode=%d/%d",
				req.WaterReading, req.ElectricityReading, req.Month, req.Year),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	notifyAsync(func() {
		notificationService.NotifyAdmins(db,
			"Setoran meteran baru",
			fmt.Sprintf("Kamar %d mengirim angka meteran untuk periode %d/%d", room.RoomNumber, req.Month, req.Year),
			notificationModel.NotificationTypeReadingSubmitted,
			map[string]any{"reading_id": reading.ReadingID.String(), "room_id": room.RoomID.String()},
		)
	})

	return &reading, nil
}

/* ===============================
   UPDATE
=================================*/

// UpdateReading mengubah field reading yang dikirim; satu audit row per field
// yang benar-benar berubah. Admin yang mengubah reading approved dicatat
// sebagai manual_change dan penghuni kamar diberi tahu.
func UpdateReading(db *gorm.DB, readingID uuid.UUID, req dto.UpdateReadingRequest, actorID uuid.UUID, actorRole string) (*readingModel.MeterReadingModel, error) {
	reading, err := ValidateModification(db, readingID, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	wasApproved := reading.ReadingStatus == readingModel.ReadingStatusApproved

	newWater := reading.ReadingWater
	if req.WaterReading != nil {
		if err := validateReadingValue("Angka meter air", *req.WaterReading); err != nil {
			return nil, err
		}
		newWater = *req.WaterReading
	}
	newElectricity := reading.ReadingElectricity
	if req.ElectricityReading != nil {
		if err := validateReadingValue("Angka meter listrik", *req.ElectricityReading); err != nil {
			return nil, err
		}
		newElectricity = *req.ElectricityReading
	}

	if req.WaterReading != nil || req.ElectricityReading != nil {
		if err := validateNoRegression(db, reading.ReadingRoomID, reading.ReadingMonth, reading.ReadingYear,
			newWater, newElectricity); err != nil {
			return nil, err
		}
	}

	modType := readingModel.ModificationUpdate
	if wasApproved {
		// hanya admin yang bisa sampai sini untuk reading approved
		modType = readingModel.ModificationManualChange
	}

	type fieldChange struct{ field, oldVal, newVal string }
	var changes []fieldChange
	addChange := func(field, oldVal, newVal string) {
		if oldVal != newVal {
			changes = append(changes, fieldChange{field, oldVal, newVal})
		}
	}

	addChange("water_reading", fmt.Sprintf("%.1f", reading.ReadingWater), fmt.Sprintf("%.1f", newWater))
	addChange("electricity_reading", fmt.Sprintf("%.1f", reading.ReadingElectricity), fmt.Sprintf("%.1f", newElectricity))
	if req.WaterPhotoURL != nil {
		addChange("water_photo_url", strOrEmpty(reading.ReadingWaterPhotoURL), *req.WaterPhotoURL)
		reading.ReadingWaterPhotoURL = req.WaterPhotoURL
	}
	if req.ElectricityPhotoURL != nil {
		addChange("electricity_photo_url", strOrEmpty(reading.ReadingElectricityPhotoURL), *req.ElectricityPhotoURL)
		reading.ReadingElectricityPhotoURL = req.ElectricityPhotoURL
	}

	reading.ReadingWater = newWater
	reading.ReadingElectricity = newElectricity

	// recompute total; base rent tetap snapshot saat create
	breakdown, err := billingService.CalculateBilling(db, reading.ReadingRoomID, reading.ReadingMonth, reading.ReadingYear,
		newWater, newElectricity, reading.ReadingBaseRent)
	if err != nil {
		return nil, err
	}
	reading.ReadingTotalAmount = breakdown.TotalAmount

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(reading).Error; err != nil {
			return err
		}
		for _, ch := range changes {
			if err := tx.Create(&readingModel.ReadingModificationModel{
				ModificationReadingID: reading.ReadingID,
				ModificationUserID:    actorID,
				ModificationType:      modType,
				ModificationField:     ch.field,
				ModificationOldValue:  ch.oldVal,
				ModificationNewValue:  ch.newVal,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		roomID := reading.ReadingRoomID
		period := fmt.Sprintf("%d/%d", reading.ReadingMonth, reading.ReadingYear)
		if wasApproved {
			notifyAsync(func() {
				notificationService.NotifyRoomOccupants(db, roomID,
					"Reading diubah admin",
					fmt.Sprintf("Admin mengubah data meteran periode %s untuk kamar Anda", period),
					notificationModel.NotificationTypeReadingUpdated,
					map[string]any{"reading_id": reading.ReadingID.String()},
				)
			})
		} else if !isAdminRole(actorRole) {
			notifyAsync(func() {
				notificationService.NotifyAdmins(db,
					"Setoran meteran diperbarui",
					fmt.Sprintf("Penghuni memperbarui angka meteran periode %s", period),
					notificationModel.NotificationTypeReadingUpdated,
					map[string]any{"reading_id": reading.ReadingID.String()},
				)
			})
		}
	}

	return reading, nil
}

/* ===============================
   APPROVE / REJECT
=================================*/

// ApproveReading: pending→approved + audit APPROVE, lalu (best-effort, di
// luar transaksi) generate billing dan beri tahu penghuni. Kegagalan billing
// TIDAK membatalkan approval; scheduler rekonsiliasi menambal belakangan.
// Invariant satu-approved-per-periode ditegakkan index unik partial, jadi
// dua approval balapan berakhir satu sukses + satu Conflict.
func ApproveReading(db *gorm.DB, readingID, approverID uuid.UUID, approverRole string) (*readingModel.MeterReadingModel, error) {
	reading, err := ValidateApproval(db, readingID, approverID, approverRole)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&readingModel.MeterReadingModel{}).
			Where("reading_id = ? AND reading_status = ?", readingID, readingModel.ReadingStatusPending).
			Updates(map[string]any{
				"reading_status":      readingModel.ReadingStatusApproved,
				"reading_approved_by": approverID,
				"reading_approved_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// kalah balapan dengan approve/reject lain pada row ini
			return fiber.NewError(fiber.StatusBadRequest, "Reading sudah tidak berstatus pending")
		}
		return tx.Create(&readingModel.ReadingModificationModel{
			ModificationReadingID: readingID,
			ModificationUserID:    approverID,
			ModificationType:      readingModel.ModificationApprove,
			ModificationField:     "status",
			ModificationOldValue:  readingModel.ReadingStatusPending,
			ModificationNewValue:  readingModel.ReadingStatusApproved,
		}).Error
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Sudah ada reading approved untuk periode %d/%d", reading.ReadingMonth, reading.ReadingYear))
		}
		return nil, err
	}

	reading.ReadingStatus = readingModel.ReadingStatusApproved
	reading.ReadingApprovedBy = &approverID
	reading.ReadingApprovedAt = &now

	// side effect sekunder: billing + notifikasi, tidak boleh menggagalkan approval
	if _, billErr := billingService.GenerateBillingRecord(db, readingID); billErr != nil {
		log.Printf("[READING] billing generation gagal untuk reading %s: %v", readingID, billErr)
	}

	notifyAsync(func() {
		notificationService.NotifyRoomOccupants(db, reading.ReadingRoomID,
			"Tagihan siap",
			fmt.Sprintf("Meteran periode %d/%d sudah disetujui, tagihan Anda sudah terbit", reading.ReadingMonth, reading.ReadingYear),
			notificationModel.NotificationTypeReadingApproved,
			map[string]any{"reading_id": readingID.String()},
		)
	})

	return reading, nil
}

// RejectReading: pending→rejected + audit REJECT (row status, plus row reason
// bila diisi), lalu beri tahu pengirimnya. Resubmission = row baru, bukan
// transisi balik.
func RejectReading(db *gorm.DB, readingID, rejecterID uuid.UUID, rejecterRole, reason string) (*readingModel.MeterReadingModel, error) {
	reading, err := ValidateRejection(db, readingID, rejecterID, rejecterRole)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&readingModel.MeterReadingModel{}).
			Where("reading_id = ? AND reading_status = ?", readingID, readingModel.ReadingStatusPending).
			Update("reading_status", readingModel.ReadingStatusRejected)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Reading sudah tidak berstatus pending")
		}
		// audit status simetris dengan approve: old=pending, new=rejected;
		// alasan dicatat sebagai row tersendiri supaya transisi tetap bisa di-replay
		if err := tx.Create(&readingModel.ReadingModificationModel{
			ModificationReadingID: readingID,
			ModificationUserID:    rejecterID,
			ModificationType:      readingModel.ModificationReject,
			ModificationField:     "status",
			ModificationOldValue:  readingModel.ReadingStatusPending,
			ModificationNewValue:  readingModel.ReadingStatusRejected,
		}).Error; err != nil {
			return err
		}
		if reason == "" {
			return nil
		}
		return tx.Create(&readingModel.ReadingModificationModel{
			ModificationReadingID: readingID,
			ModificationUserID:    rejecterID,
			ModificationType:      readingModel.ModificationReject,
			ModificationField:     "reason",
			ModificationNewValue:  reason,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	reading.ReadingStatus = readingModel.ReadingStatusRejected

	submitterID := reading.ReadingSubmittedBy
	msg := fmt.Sprintf("Setoran meteran periode %d/%d ditolak. Silakan kirim ulang.", reading.ReadingMonth, reading.ReadingYear)
	if reason != "" {
		msg = fmt.Sprintf("Setoran meteran periode %d/%d ditolak: %s. Silakan kirim ulang.", reading.ReadingMonth, reading.ReadingYear, reason)
	}
	notifyAsync(func() {
		notificationService.NotifyUser(db, submitterID,
			"Setoran meteran ditolak", msg,
			notificationModel.NotificationTypeReadingRejected,
			map[string]any{"reading_id": readingID.String()},
		)
	})

	return reading, nil
}

/* ===============================
   QUERY
=================================*/

// GetReadingWithHistory mengambil satu reading + audit trail-nya.
func GetReadingWithHistory(db *gorm.DB, readingID, actorID uuid.UUID, actorRole string) (*readingModel.MeterReadingModel, []readingModel.ReadingModificationModel, error) {
	reading, err := ValidateView(db, readingID, actorID, actorRole)
	if err != nil {
		return nil, nil, err
	}

	var mods []readingModel.ReadingModificationModel
	if err := db.Where("modification_reading_id = ?", readingID).
		Order("created_at ASC").
		Find(&mods).Error; err != nil {
		return nil, nil, err
	}
	return reading, mods, nil
}

// ListReadings: daftar reading dengan filter, di-scope ke akses caller
// (admin semua kamar, user hanya kamar tenant aktifnya).
func ListReadings(db *gorm.DB, q dto.ListReadingsQuery, actorID uuid.UUID, actorRole string, offset, limit int) ([]readingModel.MeterReadingModel, int64, error) {
	query := db.Model(&readingModel.MeterReadingModel{})

	if !isAdminRole(actorRole) {
		query = query.Where("reading_room_id IN (?)",
			db.Model(&tenantModel.TenantModel{}).
				Select("tenant_room_id").
				Where("tenant_user_id = ? AND tenant_is_active = ?", actorID, true))
	}
	if q.RoomID != nil {
		query = query.Where("reading_room_id = ?", *q.RoomID)
	}
	if q.Month != nil {
		query = query.Where("reading_month = ?", *q.Month)
	}
	if q.Year != nil {
		query = query.Where("reading_year = ?", *q.Year)
	}
	if q.Status != nil {
		query = query.Where("reading_status = ?", *q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var readings []readingModel.MeterReadingModel
	if err := query.Order("reading_year DESC, reading_month DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&readings).Error; err != nil {
		return nil, 0, err
	}
	return readings, total, nil
}

// GetRoomHistory: daftar kronologis reading satu kamar.
func GetRoomHistory(db *gorm.DB, roomID, actorID uuid.UUID, actorRole string) ([]readingModel.MeterReadingModel, error) {
	hasAccess, err := HasRoomAccess(db, actorID, actorRole, roomID)
	if err != nil {
		return nil, err
	}
	if !hasAccess {
		return nil, fiber.NewError(fiber.StatusForbidden, "Anda tidak punya akses ke kamar ini")
	}

	var readings []readingModel.MeterReadingModel
	if err := db.Where("reading_room_id = ?", roomID).
		Order("reading_year ASC, reading_month ASC, created_at ASC").
		Find(&readings).Error; err != nil {
		return nil, err
	}
	return readings, nil
}

/* ===============================
   Util kecil
=================================*/

func isAdminRole(role string) bool { return role == "admin" }

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
