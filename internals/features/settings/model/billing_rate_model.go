package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Default tarif kalau belum ada row settings di database.
const (
	DefaultElectricityRate = 3500  // per kWh
	DefaultWaterRate       = 22000 // per m3
	DefaultTrashFee        = 52000 // flat per bulan
)

type BillingRateModel struct {
	RateID uuid.UUID `gorm:"column:rate_id;type:uuid;primaryKey" json:"rate_id"`

	RateElectricity float64 `gorm:"column:rate_electricity;not null;check:rate_electricity >= 0" json:"rate_electricity"`
	RateWater       float64 `gorm:"column:rate_water;not null;check:rate_water >= 0" json:"rate_water"`
	RateTrashFee    float64 `gorm:"column:rate_trash_fee;not null;check:rate_trash_fee >= 0" json:"rate_trash_fee"`

	RateIsActive bool `gorm:"column:rate_is_active;not null;default:true" json:"rate_is_active"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (BillingRateModel) TableName() string {
	return "billing_rates"
}

func (m *BillingRateModel) BeforeCreate(tx *gorm.DB) error {
	if m.RateID == uuid.Nil {
		m.RateID = uuid.New()
	}
	return nil
}
