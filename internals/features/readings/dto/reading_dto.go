package dto

import "github.com/google/uuid"

type CreateReadingRequest struct {
	RoomID             uuid.UUID `json:"room_id" validate:"required"`
	Month              int       `json:"month" validate:"required,min=1,max=12"`
	Year               int       `json:"year" validate:"required"`
	WaterReading       float64   `json:"water_reading" validate:"min=0"`
	ElectricityReading float64   `json:"electricity_reading" validate:"min=0"`

	WaterPhotoURL       *string `json:"water_photo_url,omitempty"`
	ElectricityPhotoURL *string `json:"electricity_photo_url,omitempty"`

	// Informasional saja: saat create selalu ditimpa base rent kamar yang
	// hidup di server (proteksi terhadap nilai basi/palsu dari client).
	BaseRent float64 `json:"base_rent,omitempty"`
}

type UpdateReadingRequest struct {
	WaterReading        *float64 `json:"water_reading,omitempty"`
	ElectricityReading  *float64 `json:"electricity_reading,omitempty"`
	WaterPhotoURL       *string  `json:"water_photo_url,omitempty"`
	ElectricityPhotoURL *string  `json:"electricity_photo_url,omitempty"`
}

type RejectReadingRequest struct {
	Reason string `json:"reason,omitempty"`
}

type PreviewCalculationRequest struct {
	RoomID             uuid.UUID `json:"room_id" validate:"required"`
	Month              int       `json:"month" validate:"required,min=1,max=12"`
	Year               int       `json:"year" validate:"required"`
	WaterReading       float64   `json:"water_reading" validate:"min=0"`
	ElectricityReading float64   `json:"electricity_reading" validate:"min=0"`
}

type ListReadingsQuery struct {
	RoomID *uuid.UUID
	Month  *int
	Year   *int
	Status *string
}
