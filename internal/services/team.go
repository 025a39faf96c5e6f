package services

import (
	"context"

	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

type TeamServiceInterface interface {
	GetTeams(ctx context.Context, actor *authz.Actor, filter types.Filter) ([]dto.TeamDTO, uint64, error)
	FindTeam(ctx context.Context, actor *authz.Actor, id uint64) (*dto.TeamDTO, error)
	CreateTeam(ctx context.Context, actor *authz.Actor, data dto.CreateTeamDTO) (*dto.TeamDTO, error)
	UpdateTeam(ctx context.Context, actor *authz.Actor, id uint64, data dto.UpdateTeamDTO) (*dto.TeamDTO, error)
	DeleteTeam(ctx context.Context, actor *authz.Actor, id uint64) error
}

type TeamService struct {
	teamRepo      repositories.TeamRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	requestRepo   repositories.RequestRepositoryInterface
	logger        *zap.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	logger *zap.Logger,
) TeamServiceInterface {
	return &TeamService{
		teamRepo:      teamRepo,
		userRepo:      userRepo,
		equipmentRepo: equipmentRepo,
		requestRepo:   requestRepo,
		logger:        logger,
	}
}

func (s *TeamService) GetTeams(ctx context.Context, actor *authz.Actor, filter types.Filter) ([]dto.TeamDTO, uint64, error) {
	if actor == nil {
		return nil, 0, apperrors.NewPermissionDenied("viewTeams", apperrors.DenyMissingActor)
	}

	teams, total, err := s.teamRepo.GetTeams(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.TeamDTO, 0, len(teams))
	for i := range teams {
		result = append(result, *mapTeamToDTO(&teams[i]))
	}
	return result, total, nil
}

func (s *TeamService) FindTeam(ctx context.Context, actor *authz.Actor, id uint64) (*dto.TeamDTO, error) {
	if actor == nil {
		return nil, apperrors.NewPermissionDenied("viewTeams", apperrors.DenyMissingActor)
	}

	team, err := s.teamRepo.FindTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapTeamToDTO(team), nil
}

func (s *TeamService) CreateTeam(ctx context.Context, actor *authz.Actor, data dto.CreateTeamDTO) (*dto.TeamDTO, error) {
	if err := authz.CanManageCatalog(actor); err != nil {
		return nil, err
	}

	id, err := s.teamRepo.CreateTeam(ctx, &entities.Team{Name: data.Name})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Команда создана", zap.Uint64("teamID", id), zap.Uint64("actorID", actor.ID))

	team, err := s.teamRepo.FindTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapTeamToDTO(team), nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, actor *authz.Actor, id uint64, data dto.UpdateTeamDTO) (*dto.TeamDTO, error) {
	if err := authz.CanManageCatalog(actor); err != nil {
		return nil, err
	}

	if err := s.teamRepo.UpdateTeam(ctx, &entities.Team{ID: id, Name: data.Name}); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.FindTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapTeamToDTO(team), nil
}

// DeleteTeam запрещён, пока команда владеет пользователями, оборудованием
// или заявками.
func (s *TeamService) DeleteTeam(ctx context.Context, actor *authz.Actor, id uint64) error {
	if err := authz.CanManageCatalog(actor); err != nil {
		return err
	}

	if _, err := s.teamRepo.FindTeam(ctx, id); err != nil {
		return err
	}

	userCount, err := s.userRepo.CountByTeamID(ctx, id)
	if err != nil {
		return err
	}
	if userCount > 0 {
		return apperrors.NewValidationError("нельзя удалить команду: в ней состоят %d пользователей", userCount)
	}

	equipmentCount, err := s.equipmentRepo.CountByTeamID(ctx, id)
	if err != nil {
		return err
	}
	if equipmentCount > 0 {
		return apperrors.NewValidationError("нельзя удалить команду: за ней закреплено %d единиц оборудования", equipmentCount)
	}

	requestCount, err := s.requestRepo.CountByTeamID(ctx, id)
	if err != nil {
		return err
	}
	if requestCount > 0 {
		return apperrors.NewValidationError("нельзя удалить команду: на ней числится %d заявок", requestCount)
	}

	if err := s.teamRepo.DeleteTeam(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Команда удалена", zap.Uint64("teamID", id), zap.Uint64("actorID", actor.ID))
	return nil
}

func mapTeamToDTO(team *entities.Team) *dto.TeamDTO {
	return &dto.TeamDTO{
		ID:        team.ID,
		Name:      team.Name,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
	}
}
