package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, actor *authz.Actor, filter types.Filter) ([]dto.UserDTO, uint64, error)
	FindUser(ctx context.Context, actor *authz.Actor, id uint64) (*dto.UserDTO, error)
	CreateUser(ctx context.Context, actor *authz.Actor, data dto.CreateUserDTO) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, actor *authz.Actor, id uint64, data dto.UpdateUserDTO) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, actor *authz.Actor, id uint64) error
}

type UserService struct {
	userRepo    repositories.UserRepositoryInterface
	teamRepo    repositories.TeamRepositoryInterface
	requestRepo repositories.RequestRepositoryInterface
	logger      *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{
		userRepo:    userRepo,
		teamRepo:    teamRepo,
		requestRepo: requestRepo,
		logger:      logger,
	}
}

func (s *UserService) GetUsers(ctx context.Context, actor *authz.Actor, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	if actor == nil {
		return nil, 0, apperrors.NewPermissionDenied("viewUsers", apperrors.DenyMissingActor)
	}

	users, total, err := s.userRepo.GetUsers(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		result = append(result, *mapUserToDTO(&users[i]))
	}
	return result, total, nil
}

func (s *UserService) FindUser(ctx context.Context, actor *authz.Actor, id uint64) (*dto.UserDTO, error) {
	if actor == nil {
		return nil, apperrors.NewPermissionDenied("viewUsers", apperrors.DenyMissingActor)
	}

	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapUserToDTO(user), nil
}

func (s *UserService) CreateUser(ctx context.Context, actor *authz.Actor, data dto.CreateUserDTO) (*dto.UserDTO, error) {
	if err := authz.CanManageUsers(actor); err != nil {
		return nil, err
	}

	role := constants.Role(data.Role)
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("неизвестная роль: %q", data.Role)
	}

	var teamID *uint64
	if data.TeamID.Valid {
		if _, err := s.teamRepo.FindTeam(ctx, data.TeamID.Uint64); err != nil {
			return nil, err
		}
		t := data.TeamID.Uint64
		teamID = &t
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Fio:         data.Fio,
		Email:       data.Email,
		PhoneNumber: data.PhoneNumber,
		Password:    string(hash),
		Role:        role,
		TeamID:      teamID,
	}

	id, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Пользователь создан", zap.Uint64("userID", id), zap.Uint64("actorID", actor.ID))

	created, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapUserToDTO(created), nil
}

func (s *UserService) UpdateUser(ctx context.Context, actor *authz.Actor, id uint64, data dto.UpdateUserDTO) (*dto.UserDTO, error) {
	if err := authz.CanManageUsers(actor); err != nil {
		return nil, err
	}

	role := constants.Role(data.Role)
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("неизвестная роль: %q", data.Role)
	}

	current, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var teamID *uint64
	if data.TeamID.Valid {
		if _, err := s.teamRepo.FindTeam(ctx, data.TeamID.Uint64); err != nil {
			return nil, err
		}
		t := data.TeamID.Uint64
		teamID = &t
	}

	current.Fio = data.Fio
	current.Email = data.Email
	current.PhoneNumber = data.PhoneNumber
	current.Role = role
	current.TeamID = teamID

	if err := s.userRepo.UpdateUser(ctx, current); err != nil {
		return nil, err
	}

	updated, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapUserToDTO(updated), nil
}

// DeleteUser запрещён, пока на пользователе числятся назначенные заявки:
// журнал и история назначений должны ссылаться на живую запись.
func (s *UserService) DeleteUser(ctx context.Context, actor *authz.Actor, id uint64) error {
	if err := authz.CanManageUsers(actor); err != nil {
		return err
	}

	if _, err := s.userRepo.FindUserByID(ctx, id); err != nil {
		return err
	}

	assigned, err := s.requestRepo.CountByAssignee(ctx, id)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return apperrors.NewValidationError("нельзя удалить пользователя: на нём числится %d назначенных заявок", assigned)
	}

	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Пользователь удалён", zap.Uint64("userID", id), zap.Uint64("actorID", actor.ID))
	return nil
}

func mapUserToDTO(user *entities.User) *dto.UserDTO {
	return &dto.UserDTO{
		ID:          user.ID,
		Fio:         user.Fio,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role.String(),
		TeamID:      user.TeamID,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
