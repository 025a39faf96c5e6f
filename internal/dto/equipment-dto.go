package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CreateEquipmentDTO struct {
	Name         string    `json:"name" validate:"required,max=255"`
	SerialNumber string    `json:"serial_number" validate:"required,max=100"`
	Department   string    `json:"department" validate:"required,max=255"`
	Location     string    `json:"location" validate:"required,max=255"`
	PurchaseDate time.Time `json:"purchase_date" validate:"required"`
	WarrantyEnd  null.Time `json:"warranty_end"`
	TeamID       uint64    `json:"team_id" validate:"required"`
}

type UpdateEquipmentDTO struct {
	Name         string    `json:"name" validate:"required,max=255"`
	SerialNumber string    `json:"serial_number" validate:"required,max=100"`
	Department   string    `json:"department" validate:"required,max=255"`
	Location     string    `json:"location" validate:"required,max=255"`
	PurchaseDate time.Time `json:"purchase_date" validate:"required"`
	WarrantyEnd  null.Time `json:"warranty_end"`
	TeamID       uint64    `json:"team_id" validate:"required"`
}

type EquipmentDTO struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	SerialNumber string     `json:"serial_number"`
	Department   string     `json:"department"`
	Location     string     `json:"location"`
	PurchaseDate time.Time  `json:"purchase_date"`
	WarrantyEnd  *time.Time `json:"warranty_end,omitempty"`
	TeamID       uint64     `json:"team_id"`
	IsScrapped   bool       `json:"is_scrapped"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}
