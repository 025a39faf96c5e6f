package services

import (
	"context"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
)

// ActorResolverInterface превращает UserID из контекста запроса в явного
// актора. Дальше по стеку актор передаётся только параметром.
type ActorResolverInterface interface {
	Resolve(ctx context.Context) (*authz.Actor, error)
}

type ActorResolver struct {
	userRepo repositories.UserRepositoryInterface
}

func NewActorResolver(userRepo repositories.UserRepositoryInterface) ActorResolverInterface {
	return &ActorResolver{userRepo: userRepo}
}

func (r *ActorResolver) Resolve(ctx context.Context) (*authz.Actor, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return nil, apperrors.ErrActorNotFoundInContext
	}

	user, err := r.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrActorNotFoundInContext
	}
	return authz.ActorFromUser(user), nil
}
