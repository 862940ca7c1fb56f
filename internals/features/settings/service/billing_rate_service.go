package service

import (
	"errors"
	"log"

	"gorm.io/gorm"

	settingModel "kosanku_backend/internals/features/settings/model"
)

// BillingRates adalah konfigurasi tarif yang dipakai kalkulator billing.
type BillingRates struct {
	Electricity float64 `json:"electricity"`
	Water       float64 `json:"water"`
	TrashFee    float64 `json:"trash_fee"`
}

func DefaultRates() BillingRates {
	return BillingRates{
		Electricity: settingModel.DefaultElectricityRate,
		Water:       settingModel.DefaultWaterRate,
		TrashFee:    settingModel.DefaultTrashFee,
	}
}

// GetActiveRates mengambil tarif aktif dari settings; fallback ke default
// kalau belum pernah diset.
func GetActiveRates(db *gorm.DB) BillingRates {
	var row settingModel.BillingRateModel
	err := db.Where("rate_is_active = ?", true).
		Order("updated_at DESC").
		First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[SETTINGS] gagal ambil tarif aktif, pakai default: %v", err)
		}
		return DefaultRates()
	}
	return BillingRates{
		Electricity: row.RateElectricity,
		Water:       row.RateWater,
		TrashFee:    row.RateTrashFee,
	}
}

// UpdateRates menonaktifkan tarif lama lalu menyimpan tarif baru sebagai aktif.
func UpdateRates(db *gorm.DB, rates BillingRates) (*settingModel.BillingRateModel, error) {
	var saved settingModel.BillingRateModel
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&settingModel.BillingRateModel{}).
			Where("rate_is_active = ?", true).
			Update("rate_is_active", false).Error; err != nil {
			return err
		}
		saved = settingModel.BillingRateModel{
			RateElectricity: rates.Electricity,
			RateWater:       rates.Water,
			RateTrashFee:    rates.TrashFee,
			RateIsActive:    true,
		}
		return tx.Create(&saved).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
