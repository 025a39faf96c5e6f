package entities

import (
	"maintenance-system/pkg/constants"
	"maintenance-system/pkg/types"
)

type User struct {
	ID          uint64 `json:"id" db:"id"`
	Fio         string `json:"fio" db:"fio"`
	Email       string `json:"email" db:"email"`
	PhoneNumber string `json:"phone_number" db:"phone_number"`

	Password string `json:"-" db:"password"`

	Role   constants.Role `json:"role" db:"role"`
	TeamID *uint64        `json:"team_id" db:"team_id"`

	// Связанные данные (не колонки таблицы)
	Team *Team `json:"team,omitempty" db:"-"`

	types.BaseEntity
	types.SoftDelete
}
