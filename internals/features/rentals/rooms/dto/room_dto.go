package dto

type CreateRoomRequest struct {
	RoomNumber     int     `json:"room_number" validate:"required,min=1"`
	RoomFloor      int     `json:"room_floor" validate:"min=1"`
	RoomBaseRent   float64 `json:"room_base_rent" validate:"min=0"`
	RoomMaxTenants int     `json:"room_max_tenants" validate:"min=1"`
	RoomNotes      string  `json:"room_notes,omitempty"`
}

type UpdateRoomRequest struct {
	RoomFloor      *int     `json:"room_floor,omitempty"`
	RoomBaseRent   *float64 `json:"room_base_rent,omitempty"`
	RoomMaxTenants *int     `json:"room_max_tenants,omitempty"`
	RoomNotes      *string  `json:"room_notes,omitempty"`
}
