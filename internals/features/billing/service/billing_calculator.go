package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	readingModel "kosanku_backend/internals/features/readings/model"
	settingService "kosanku_backend/internals/features/settings/service"
)

// BillingBreakdown adalah hasil kalkulasi biaya satu periode.
// total_amount == water_cost + electricity_cost + base_rent + trash_fee, selalu.
type BillingBreakdown struct {
	WaterUsage       float64 `json:"water_usage"`
	ElectricityUsage float64 `json:"electricity_usage"`
	WaterCost        float64 `json:"water_cost"`
	ElectricityCost  float64 `json:"electricity_cost"`
	BaseRent         float64 `json:"base_rent"`
	TrashFee         float64 `json:"trash_fee"`
	TotalAmount      float64 `json:"total_amount"`
}

// ComputeBreakdown adalah inti kalkulator: murni & deterministik, dipakai
// endpoint preview maupun kalkulasi server-authoritative supaya keduanya
// selalu sepakat.
//
// prevWater/prevElectricity nil = belum ada reading approved sebelumnya
// (meteran dianggap mulai dari nol, usage = nilai mentah).
// Usage di-clamp minimal 0; regresi meteran ditolak di layer validasi,
// clamp ini murni pengaman anomali data.
func ComputeBreakdown(prevWater, prevElectricity *float64, water, electricity, baseRent float64, rates settingService.BillingRates) BillingBreakdown {
	waterUsage := water
	if prevWater != nil {
		waterUsage = water - *prevWater
		if waterUsage < 0 {
			waterUsage = 0
		}
	}
	electricityUsage := electricity
	if prevElectricity != nil {
		electricityUsage = electricity - *prevElectricity
		if electricityUsage < 0 {
			electricityUsage = 0
		}
	}

	waterCost := waterUsage * rates.Water
	electricityCost := electricityUsage * rates.Electricity

	return BillingBreakdown{
		WaterUsage:       waterUsage,
		ElectricityUsage: electricityUsage,
		WaterCost:        waterCost,
		ElectricityCost:  electricityCost,
		BaseRent:         baseRent,
		TrashFee:         rates.TrashFee,
		TotalAmount:      waterCost + electricityCost + baseRent + rates.TrashFee,
	}
}

// FindPreviousApprovedReading mencari reading APPROVED terakhir sebelum
// (month, year) untuk kamar tsb, dibandingkan per tahun lalu bulan.
// Return (nil, nil) kalau belum ada (reading pertama kamar).
func FindPreviousApprovedReading(db *gorm.DB, roomID uuid.UUID, month, year int) (*readingModel.MeterReadingModel, error) {
	var prev readingModel.MeterReadingModel
	err := db.
		Where("reading_room_id = ? AND reading_status = ?", roomID, readingModel.ReadingStatusApproved).
		Where("(reading_year < ?) OR (reading_year = ? AND reading_month < ?)", year, year, month).
		Order("reading_year DESC, reading_month DESC").
		First(&prev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prev, nil
}

// CalculateBilling menggabungkan lookup reading sebelumnya + tarif aktif
// dengan ComputeBreakdown.
func CalculateBilling(db *gorm.DB, roomID uuid.UUID, month, year int, water, electricity, baseRent float64) (BillingBreakdown, error) {
	prev, err := FindPreviousApprovedReading(db, roomID, month, year)
	if err != nil {
		return BillingBreakdown{}, err
	}

	rates := settingService.GetActiveRates(db)

	var prevWater, prevElectricity *float64
	if prev != nil {
		prevWater = &prev.ReadingWater
		prevElectricity = &prev.ReadingElectricity
	}
	return ComputeBreakdown(prevWater, prevElectricity, water, electricity, baseRent, rates), nil
}
