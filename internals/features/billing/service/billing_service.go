package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kosanku_backend/internals/configs"
	helper "kosanku_backend/internals/helpers"

	billingModel "kosanku_backend/internals/features/billing/model"
	readingModel "kosanku_backend/internals/features/readings/model"
	roomModel "kosanku_backend/internals/features/rentals/rooms/model"
	tenantModel "kosanku_backend/internals/features/rentals/tenants/model"
)

/* ===============================
   GENERATE
=================================*/

// GenerateBillingRecord membuat billing record dari satu reading APPROVED.
// Satu billing per reading, ditegakkan unique index di billing_reading_id;
// retry pada reading yang sudah ada billingnya → Conflict.
func GenerateBillingRecord(db *gorm.DB, readingID uuid.UUID) (*billingModel.BillingRecordModel, error) {
	var reading readingModel.MeterReadingModel
	if err := db.First(&reading, "reading_id = ?", readingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Reading tidak ditemukan")
		}
		return nil, err
	}
	if reading.ReadingStatus != readingModel.ReadingStatusApproved {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			"Billing hanya bisa dibuat dari reading approved (status sekarang: "+reading.ReadingStatus+")")
	}

	var existing int64
	if err := db.Model(&billingModel.BillingRecordModel{}).
		Where("billing_reading_id = ?", readingID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Billing untuk reading ini sudah pernah dibuat")
	}

	breakdown, err := CalculateBilling(db, reading.ReadingRoomID, reading.ReadingMonth, reading.ReadingYear,
		reading.ReadingWater, reading.ReadingElectricity, reading.ReadingBaseRent)
	if err != nil {
		return nil, err
	}

	rec := billingModel.BillingRecordModel{
		BillingReadingID:        readingID,
		BillingRoomID:           reading.ReadingRoomID,
		BillingMonth:            reading.ReadingMonth,
		BillingYear:             reading.ReadingYear,
		BillingWaterUsage:       breakdown.WaterUsage,
		BillingElectricityUsage: breakdown.ElectricityUsage,
		BillingWaterCost:        breakdown.WaterCost,
		BillingElectricityCost:  breakdown.ElectricityCost,
		BillingBaseRent:         breakdown.BaseRent,
		BillingTrashFee:         breakdown.TrashFee,
		BillingTotalAmount:      breakdown.TotalAmount,
		BillingPaymentStatus:    billingModel.PaymentStatusUnpaid,
	}

	if err := db.Create(&rec).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, fiber.NewError(fiber.StatusConflict, "Billing untuk reading ini sudah pernah dibuat")
		}
		return nil, err
	}

	// payment link Midtrans best-effort: billing tetap sah tanpa QR,
	// admin bisa terima pembayaran manual
	if configs.MidtransServerKey != "" {
		var room roomModel.RoomModel
		payerName := "Penghuni"
		if err := db.First(&room, "room_id = ?", rec.BillingRoomID).Error; err == nil {
			payerName = fmt.Sprintf("Kamar %d", room.RoomNumber)
		}
		orderID, token, redirectURL, payErr := CreatePaymentLink(&rec, payerName)
		if payErr != nil {
			log.Printf("[BILLING] gagal membuat payment link untuk billing %s: %v", rec.BillingID, payErr)
		} else {
			rec.BillingOrderID = &orderID
			rec.BillingPaymentToken = &token
			rec.BillingPaymentURL = &redirectURL
			if err := db.Save(&rec).Error; err != nil {
				log.Printf("[BILLING] gagal simpan payment token billing %s: %v", rec.BillingID, err)
			}
		}
	}

	return &rec, nil
}

/* ===============================
   PAYMENT STATUS
=================================*/

// UpdatePaymentStatus mengubah status pembayaran. Transisi sengaja bebas
// (koreksi manual admin); billing_paid_at dikosongkan kecuali status paid.
func UpdatePaymentStatus(db *gorm.DB, billingID uuid.UUID, status string, paidAt *time.Time) (*billingModel.BillingRecordModel, error) {
	switch status {
	case billingModel.PaymentStatusUnpaid, billingModel.PaymentStatusPaid, billingModel.PaymentStatusOverdue:
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest,
			"Status pembayaran harus salah satu dari: unpaid, paid, overdue")
	}

	var rec billingModel.BillingRecordModel
	if err := db.First(&rec, "billing_id = ?", billingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Billing tidak ditemukan")
		}
		return nil, err
	}

	rec.BillingPaymentStatus = status
	if status == billingModel.PaymentStatusPaid {
		if paidAt == nil {
			now := time.Now()
			paidAt = &now
		}
		rec.BillingPaidAt = paidAt
	} else {
		rec.BillingPaidAt = nil
	}

	if err := db.Save(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// MarkOverduePayments: bulk unpaid→overdue untuk billing yang melewati masa
// tenggang. Idempotent: row paid/overdue tidak tersentuh.
func MarkOverduePayments(db *gorm.DB, graceDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -graceDays)
	res := db.Model(&billingModel.BillingRecordModel{}).
		Where("billing_payment_status = ? AND created_at < ?", billingModel.PaymentStatusUnpaid, cutoff).
		Update("billing_payment_status", billingModel.PaymentStatusOverdue)
	return res.RowsAffected, res.Error
}

/* ===============================
   REKONSILIASI
=================================*/

// ReconcileMissingBillings menambal gap konsistensi: reading approved yang
// billingnya gagal dibuat saat approval (side effect best-effort) dibuatkan
// billing di sini.
func ReconcileMissingBillings(db *gorm.DB) (int, error) {
	var orphans []readingModel.MeterReadingModel
	err := db.
		Where("reading_status = ?", readingModel.ReadingStatusApproved).
		Where("reading_id NOT IN (?)",
			db.Model(&billingModel.BillingRecordModel{}).Select("billing_reading_id")).
		Find(&orphans).Error
	if err != nil {
		return 0, err
	}

	created := 0
	for _, reading := range orphans {
		if _, err := GenerateBillingRecord(db, reading.ReadingID); err != nil {
			log.Printf("[RECONCILE] gagal generate billing reading %s: %v", reading.ReadingID, err)
			continue
		}
		created++
	}
	return created, nil
}

/* ===============================
   QUERY + REPORT (scoped)
=================================*/

// scopeToActor membatasi query billing ke kamar yang boleh dilihat actor:
// admin semua kamar, user biasa hanya kamar tenant aktifnya.
func scopeToActor(db, query *gorm.DB, actorID uuid.UUID, actorRole string) *gorm.DB {
	if actorRole == "admin" {
		return query
	}
	return query.Where("billing_room_id IN (?)",
		db.Model(&tenantModel.TenantModel{}).
			Select("tenant_room_id").
			Where("tenant_user_id = ? AND tenant_is_active = ?", actorID, true))
}

func GetBillingByID(db *gorm.DB, billingID, actorID uuid.UUID, actorRole string) (*billingModel.BillingRecordModel, error) {
	var rec billingModel.BillingRecordModel
	err := scopeToActor(db, db.Model(&billingModel.BillingRecordModel{}), actorID, actorRole).
		First(&rec, "billing_id = ?", billingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Billing tidak ditemukan")
		}
		return nil, err
	}
	return &rec, nil
}

func ListBillings(db *gorm.DB, actorID uuid.UUID, actorRole string, status *string, offset, limit int) ([]billingModel.BillingRecordModel, int64, error) {
	query := scopeToActor(db, db.Model(&billingModel.BillingRecordModel{}), actorID, actorRole)
	if status != nil {
		query = query.Where("billing_payment_status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []billingModel.BillingRecordModel
	if err := query.Order("billing_year DESC, billing_month DESC").
		Offset(offset).Limit(limit).
		Find(&recs).Error; err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

func GetRoomBillingHistory(db *gorm.DB, roomID, actorID uuid.UUID, actorRole string) ([]billingModel.BillingRecordModel, error) {
	var recs []billingModel.BillingRecordModel
	err := scopeToActor(db, db.Model(&billingModel.BillingRecordModel{}), actorID, actorRole).
		Where("billing_room_id = ?", roomID).
		Order("billing_year ASC, billing_month ASC").
		Find(&recs).Error
	return recs, err
}

type FinancialSummary struct {
	TotalBilled  float64 `json:"total_billed"`
	TotalPaid    float64 `json:"total_paid"`
	TotalUnpaid  float64 `json:"total_unpaid"`
	TotalOverdue float64 `json:"total_overdue"`
	CountBilled  int64   `json:"count_billed"`
	CountPaid    int64   `json:"count_paid"`
	CountUnpaid  int64   `json:"count_unpaid"`
	CountOverdue int64   `json:"count_overdue"`
}

// GetFinancialSummary: agregasi total per status pembayaran.
func GetFinancialSummary(db *gorm.DB, actorID uuid.UUID, actorRole string) (*FinancialSummary, error) {
	var s FinancialSummary
	err := scopeToActor(db, db.Model(&billingModel.BillingRecordModel{}), actorID, actorRole).
		Select(`
			COALESCE(SUM(billing_total_amount), 0) AS total_billed,
			COALESCE(SUM(CASE WHEN billing_payment_status = 'paid' THEN billing_total_amount ELSE 0 END), 0) AS total_paid,
			COALESCE(SUM(CASE WHEN billing_payment_status = 'unpaid' THEN billing_total_amount ELSE 0 END), 0) AS total_unpaid,
			COALESCE(SUM(CASE WHEN billing_payment_status = 'overdue' THEN billing_total_amount ELSE 0 END), 0) AS total_overdue,
			COUNT(*) AS count_billed,
			SUM(CASE WHEN billing_payment_status = 'paid' THEN 1 ELSE 0 END) AS count_paid,
			SUM(CASE WHEN billing_payment_status = 'unpaid' THEN 1 ELSE 0 END) AS count_unpaid,
			SUM(CASE WHEN billing_payment_status = 'overdue' THEN 1 ELSE 0 END) AS count_overdue`).
		Scan(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type MonthlyReportRow struct {
	Month       int     `json:"month"`
	TotalBilled float64 `json:"total_billed"`
	TotalPaid   float64 `json:"total_paid"`
	Count       int64   `json:"count"`
}

// GetMonthlyReport: total per bulan untuk satu tahun.
func GetMonthlyReport(db *gorm.DB, year int, actorID uuid.UUID, actorRole string) ([]MonthlyReportRow, error) {
	var rows []MonthlyReportRow
	err := scopeToActor(db, db.Model(&billingModel.BillingRecordModel{}), actorID, actorRole).
		Select(`billing_month AS month,
			COALESCE(SUM(billing_total_amount), 0) AS total_billed,
			COALESCE(SUM(CASE WHEN billing_payment_status = 'paid' THEN billing_total_amount ELSE 0 END), 0) AS total_paid,
			COUNT(*) AS count`).
		Where("billing_year = ?", year).
		Group("billing_month").
		Order("billing_month ASC").
		Scan(&rows).Error
	return rows, err
}

type YearlyReportRow struct {
	Year        int     `json:"year"`
	TotalBilled float64 `json:"total_billed"`
	TotalPaid   float64 `json:"total_paid"`
	Count       int64   `json:"count"`
}

// GetYearlyReport: total per tahun.
func GetYearlyReport(db *gorm.DB, actorID uuid.UUID, actorRole string) ([]YearlyReportRow, error) {
	var rows []YearlyReportRow
	err := scopeToActor(db, db.Model(&billingModel.BillingRecordModel{}), actorID, actorRole).
		Select(`billing_year AS year,
			COALESCE(SUM(billing_total_amount), 0) AS total_billed,
			COALESCE(SUM(CASE WHEN billing_payment_status = 'paid' THEN billing_total_amount ELSE 0 END), 0) AS total_paid,
			COUNT(*) AS count`).
		Group("billing_year").
		Order("billing_year ASC").
		Scan(&rows).Error
	return rows, err
}
