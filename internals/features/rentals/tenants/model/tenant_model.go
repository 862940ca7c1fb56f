package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TenantModel struct {
	TenantID uuid.UUID `gorm:"column:tenant_id;type:uuid;primaryKey" json:"tenant_id"`

	TenantName  string `gorm:"column:tenant_name;type:varchar(100);not null" json:"tenant_name"`
	TenantPhone string `gorm:"column:tenant_phone;type:varchar(30)" json:"tenant_phone"`

	TenantRoomID uuid.UUID  `gorm:"column:tenant_room_id;type:uuid;not null;index" json:"tenant_room_id"`
	TenantUserID *uuid.UUID `gorm:"column:tenant_user_id;type:uuid" json:"tenant_user_id,omitempty"` // weak reference ke users

	// tanpa tag default: GORM tidak menulis bool zero-value yang punya default,
	// sehingga tenant nonaktif akan tersimpan sebagai aktif
	TenantIsActive   bool       `gorm:"column:tenant_is_active;not null" json:"tenant_is_active"`
	TenantMoveInAt   time.Time  `gorm:"column:tenant_move_in_at;not null" json:"tenant_move_in_at"`
	TenantMoveOutAt  *time.Time `gorm:"column:tenant_move_out_at" json:"tenant_move_out_at,omitempty"`
	TenantHasCurfew  bool       `gorm:"column:tenant_has_curfew;not null;default:false" json:"tenant_has_curfew"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (TenantModel) TableName() string {
	return "tenants"
}

func (m *TenantModel) BeforeCreate(tx *gorm.DB) error {
	if m.TenantID == uuid.Nil {
		m.TenantID = uuid.New()
	}
	return nil
}
