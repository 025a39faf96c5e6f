package authz

import (
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
)

// Actor — разрешённая личность, от имени которой выполняется операция.
// Передаётся явным параметром во все сервисы и предикаты: никакого
// глобального "текущего пользователя".
type Actor struct {
	ID     uint64
	Role   constants.Role
	TeamID *uint64
}

func ActorFromUser(user *entities.User) *Actor {
	if user == nil {
		return nil
	}
	return &Actor{
		ID:     user.ID,
		Role:   user.Role,
		TeamID: user.TeamID,
	}
}

func (a *Actor) sameTeam(teamID uint64) bool {
	return a.TeamID != nil && *a.TeamID == teamID
}
