package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTenantRequest struct {
	TenantName     string     `json:"tenant_name" validate:"required,min=2,max=100"`
	TenantPhone    string     `json:"tenant_phone,omitempty"`
	TenantRoomID   uuid.UUID  `json:"tenant_room_id" validate:"required"`
	TenantUserID   *uuid.UUID `json:"tenant_user_id,omitempty"`
	TenantMoveInAt *time.Time `json:"tenant_move_in_at,omitempty"`
}

type UpdateTenantRequest struct {
	TenantName      *string    `json:"tenant_name,omitempty"`
	TenantPhone     *string    `json:"tenant_phone,omitempty"`
	TenantRoomID    *uuid.UUID `json:"tenant_room_id,omitempty"`
	TenantUserID    *uuid.UUID `json:"tenant_user_id,omitempty"`
	TenantIsActive  *bool      `json:"tenant_is_active,omitempty"`
	TenantMoveOutAt *time.Time `json:"tenant_move_out_at,omitempty"`
	TenantHasCurfew *bool      `json:"tenant_has_curfew,omitempty"`
}
