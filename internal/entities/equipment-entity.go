package entities

import (
	"time"

	"maintenance-system/pkg/types"
)

type Equipment struct {
	ID           uint64     `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	SerialNumber string     `json:"serial_number" db:"serial_number"`
	Department   string     `json:"department" db:"department"`
	Location     string     `json:"location" db:"location"`
	PurchaseDate time.Time  `json:"purchase_date" db:"purchase_date"`
	WarrantyEnd  *time.Time `json:"warranty_end,omitempty" db:"warranty_end"`
	TeamID       uint64     `json:"team_id" db:"team_id"`

	// Флаг односторонний: после списания оборудование не возвращается в строй.
	IsScrapped bool `json:"is_scrapped" db:"is_scrapped"`

	types.BaseEntity

	// Связанные данные (не колонки таблицы)
	Team *Team `json:"team,omitempty" db:"-"`
}
