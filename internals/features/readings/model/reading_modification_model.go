package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipe modifikasi untuk audit trail reading.
const (
	ModificationCreate       = "create"
	ModificationUpdate       = "update"
	ModificationApprove      = "approve"
	ModificationReject       = "reject"
	ModificationReset        = "reset"
	ModificationManualChange = "manual_change"
	ModificationRequest      = "request"
)

// ReadingModificationModel adalah audit trail append-only: satu row per
// perubahan field, tidak pernah di-update atau dihapus.
type ReadingModificationModel struct {
	ModificationID uuid.UUID `gorm:"column:modification_id;type:uuid;primaryKey" json:"modification_id"`

	ModificationReadingID uuid.UUID `gorm:"column:modification_reading_id;type:uuid;not null;index" json:"modification_reading_id"`
	ModificationUserID    uuid.UUID `gorm:"column:modification_user_id;type:uuid;not null" json:"modification_user_id"`

	ModificationType     string `gorm:"column:modification_type;type:varchar(20);not null" json:"modification_type"`
	ModificationField    string `gorm:"column:modification_field;type:varchar(50)" json:"modification_field"`
	ModificationOldValue string `gorm:"column:modification_old_value;type:text" json:"modification_old_value"`
	ModificationNewValue string `gorm:"column:modification_new_value;type:text" json:"modification_new_value"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ReadingModificationModel) TableName() string {
	return "reading_modifications"
}

func (m *ReadingModificationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ModificationID == uuid.Nil {
		m.ModificationID = uuid.New()
	}
	return nil
}
