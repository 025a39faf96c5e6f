package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CreateUserDTO struct {
	Fio         string      `json:"fio" validate:"required,max=255"`
	Email       string      `json:"email" validate:"required,email"`
	PhoneNumber string      `json:"phone_number" validate:"max=32"`
	Password    string      `json:"password" validate:"required,min=8"`
	Role        string      `json:"role" validate:"required,oneof=ADMIN MANAGER TECHNICIAN"`
	TeamID      null.Uint64 `json:"team_id"`
}

type UpdateUserDTO struct {
	Fio         string      `json:"fio" validate:"required,max=255"`
	Email       string      `json:"email" validate:"required,email"`
	PhoneNumber string      `json:"phone_number" validate:"max=32"`
	Role        string      `json:"role" validate:"required,oneof=ADMIN MANAGER TECHNICIAN"`
	TeamID      null.Uint64 `json:"team_id"`
}

type UserDTO struct {
	ID          uint64     `json:"id"`
	Fio         string     `json:"fio"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	Role        string     `json:"role"`
	TeamID      *uint64    `json:"team_id"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
