package entities

import (
	"time"

	"maintenance-system/pkg/constants"
	"maintenance-system/pkg/types"
)

type MaintenanceRequest struct {
	ID          uint64                  `json:"id" db:"id"`
	Subject     string                  `json:"subject" db:"subject"`
	Description string                  `json:"description" db:"description"`
	Type        constants.RequestType   `json:"type" db:"type"`
	Status      constants.RequestStatus `json:"status" db:"status"`

	EquipmentID uint64 `json:"equipment_id" db:"equipment_id"`
	// TeamID фиксируется из equipment.team_id при создании и не меняется.
	TeamID uint64 `json:"team_id" db:"team_id"`

	AssignedTo    *uint64    `json:"assigned_to" db:"assigned_to"`
	ScheduledDate *time.Time `json:"scheduled_date" db:"scheduled_date"`
	DurationHours *float64   `json:"duration_hours" db:"duration_hours"`
	CreatorID     uint64     `json:"creator_id" db:"creator_id"`

	types.BaseEntity

	// Связанные данные (не колонки таблицы)
	Equipment *Equipment `json:"equipment,omitempty" db:"-"`
	Team      *Team      `json:"team,omitempty" db:"-"`
	Assignee  *User      `json:"assignee,omitempty" db:"-"`
	Creator   *User      `json:"creator,omitempty" db:"-"`
}
