package dto

import "time"

type CreateTeamDTO struct {
	Name string `json:"name" validate:"required,max=255"`
}

type UpdateTeamDTO struct {
	Name string `json:"name" validate:"required,max=255"`
}

type TeamDTO struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
