package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CreateRequestDTO struct {
	Subject     string `json:"subject" validate:"required,max=255"`
	Description string `json:"description" validate:"max=4000"`
	Type        string `json:"type" validate:"required,oneof=CORRECTIVE PREVENTIVE"`
	EquipmentID uint64 `json:"equipment_id" validate:"required"`
	// Для PREVENTIVE обязательна, для CORRECTIVE не может быть в будущем.
	ScheduledDate null.Time `json:"scheduled_date"`
}

type AssignRequestDTO struct {
	TechnicianID uint64 `json:"technician_id" validate:"required"`
}

type UpdateRequestStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=NEW IN_PROGRESS REPAIRED SCRAP"`
}

type CompleteRequestDTO struct {
	DurationHours float64 `json:"duration_hours" validate:"required,gt=0"`
}

type ShortTeamDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type ShortUserDTO struct {
	ID    uint64 `json:"id"`
	Fio   string `json:"fio"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type ShortEquipmentDTO struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	SerialNumber string `json:"serial_number"`
	IsScrapped   bool   `json:"is_scrapped"`
}

type RequestDTO struct {
	ID          uint64 `json:"id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Status      string `json:"status"`

	EquipmentID uint64 `json:"equipment_id"`
	TeamID      uint64 `json:"team_id"`

	AssignedTo    *uint64    `json:"assigned_to"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	DurationHours *float64   `json:"duration_hours"`

	Equipment *ShortEquipmentDTO `json:"equipment,omitempty"`
	Team      *ShortTeamDTO      `json:"team,omitempty"`
	Creator   *ShortUserDTO      `json:"creator,omitempty"`
	Assignee  *ShortUserDTO      `json:"assignee,omitempty"`

	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type RequestLogDTO struct {
	ID        uint64        `json:"id"`
	RequestID uint64        `json:"request_id"`
	OldStatus *string       `json:"old_status"`
	NewStatus string        `json:"new_status"`
	ChangedBy *ShortUserDTO `json:"changed_by"`
	TxID      string        `json:"tx_id"`
	ChangedAt time.Time     `json:"changed_at"`
}
