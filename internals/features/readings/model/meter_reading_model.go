package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status reading. Transisi yang sah hanya pending→approved dan
// pending→rejected; approved/rejected terminal untuk row tsb
// (pengajuan ulang = row baru).
const (
	ReadingStatusPending  = "pending"
	ReadingStatusApproved = "approved"
	ReadingStatusRejected = "rejected"
)

// MeterReadingModel merepresentasikan setoran angka meteran bulanan satu kamar.
// Sengaja tanpa soft-delete: reading adalah basis audit & billing dan tidak
// pernah dihapus lewat operasi normal.
type MeterReadingModel struct {
	ReadingID uuid.UUID `gorm:"column:reading_id;type:uuid;primaryKey" json:"reading_id"`

	ReadingRoomID uuid.UUID `gorm:"column:reading_room_id;type:uuid;not null;index:idx_readings_room_period" json:"reading_room_id"`
	ReadingMonth  int       `gorm:"column:reading_month;not null;index:idx_readings_room_period;check:reading_month BETWEEN 1 AND 12" json:"reading_month"`
	ReadingYear   int       `gorm:"column:reading_year;not null;index:idx_readings_room_period" json:"reading_year"`

	ReadingWater       float64 `gorm:"column:reading_water;not null;check:reading_water >= 0" json:"reading_water"`
	ReadingElectricity float64 `gorm:"column:reading_electricity;not null;check:reading_electricity >= 0" json:"reading_electricity"`

	ReadingWaterPhotoURL       *string `gorm:"column:reading_water_photo_url;type:text" json:"reading_water_photo_url,omitempty"`
	ReadingElectricityPhotoURL *string `gorm:"column:reading_electricity_photo_url;type:text" json:"reading_electricity_photo_url,omitempty"`

	ReadingBaseRent    float64 `gorm:"column:reading_base_rent;not null" json:"reading_base_rent"` // snapshot rent kamar saat create
	ReadingTotalAmount float64 `gorm:"column:reading_total_amount;not null" json:"reading_total_amount"`

	ReadingStatus string `gorm:"column:reading_status;type:varchar(20);not null;default:'pending';index" json:"reading_status"`

	ReadingSubmittedBy uuid.UUID  `gorm:"column:reading_submitted_by;type:uuid;not null" json:"reading_submitted_by"`
	ReadingApprovedBy  *uuid.UUID `gorm:"column:reading_approved_by;type:uuid" json:"reading_approved_by,omitempty"`
	ReadingApprovedAt  *time.Time `gorm:"column:reading_approved_at" json:"reading_approved_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (MeterReadingModel) TableName() string {
	return "meter_readings"
}

func (m *MeterReadingModel) BeforeCreate(tx *gorm.DB) error {
	if m.ReadingID == uuid.Nil {
		m.ReadingID = uuid.New()
	}
	return nil
}
