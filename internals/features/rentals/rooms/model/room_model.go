package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomModel struct {
	RoomID uuid.UUID `gorm:"column:room_id;type:uuid;primaryKey" json:"room_id"`

	RoomNumber int    `gorm:"column:room_number;not null;unique;check:room_number > 0" json:"room_number"`
	RoomFloor  int    `gorm:"column:room_floor;not null;default:1" json:"room_floor"`
	RoomNotes  string `gorm:"column:room_notes;type:text" json:"room_notes"`

	RoomBaseRent    float64 `gorm:"column:room_base_rent;not null;check:room_base_rent >= 0" json:"room_base_rent"`
	RoomMaxTenants  int     `gorm:"column:room_max_tenants;not null;default:1" json:"room_max_tenants"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (RoomModel) TableName() string {
	return "rooms"
}

func (m *RoomModel) BeforeCreate(tx *gorm.DB) error {
	if m.RoomID == uuid.Nil {
		m.RoomID = uuid.New()
	}
	return nil
}
