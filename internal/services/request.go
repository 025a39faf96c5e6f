package services

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

type RequestServiceInterface interface {
	CreateRequest(ctx context.Context, actor *authz.Actor, data dto.CreateRequestDTO) (*dto.RequestDTO, error)
	AssignRequest(ctx context.Context, actor *authz.Actor, requestID, technicianID uint64) (*dto.RequestDTO, error)
	UpdateRequestStatus(ctx context.Context, actor *authz.Actor, requestID uint64, newStatus string) (*dto.RequestDTO, error)
	CompleteRequest(ctx context.Context, actor *authz.Actor, requestID uint64, durationHours float64) (*dto.RequestDTO, error)
	ScrapRequest(ctx context.Context, actor *authz.Actor, requestID uint64) (*dto.RequestDTO, error)
	FindRequest(ctx context.Context, actor *authz.Actor, requestID uint64) (*dto.RequestDTO, error)
	GetRequests(ctx context.Context, actor *authz.Actor, filter types.Filter) ([]dto.RequestDTO, uint64, error)
}

// RequestService — машина состояний заявки. Каждая операция выполняется как
// одна единица работы: запись заявки, каскад по оборудованию и строка журнала
// коммитятся или откатываются вместе.
type RequestService struct {
	txm           repositories.TxManagerInterface
	requestRepo   repositories.RequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	logRepo       repositories.RequestLogRepositoryInterface
	logger        *zap.Logger
	now           func() time.Time
}

func NewRequestService(
	txm repositories.TxManagerInterface,
	requestRepo repositories.RequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logRepo repositories.RequestLogRepositoryInterface,
	logger *zap.Logger,
) RequestServiceInterface {
	return &RequestService{
		txm:           txm,
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		logRepo:       logRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// validateSchedule: PREVENTIVE обязана иметь дату в пределах
// [сегодня, сейчас + 2 года]; CORRECTIVE не может иметь дату в будущем.
func (s *RequestService) validateSchedule(reqType constants.RequestType, scheduledDate *time.Time) error {
	now := s.now()

	switch reqType {
	case constants.TypePreventive:
		if scheduledDate == nil {
			return apperrors.NewValidationError("для превентивной заявки требуется плановая дата")
		}
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		horizon := now.AddDate(constants.PreventiveScheduleHorizonYears, 0, 0)
		if scheduledDate.Before(today) {
			return apperrors.NewValidationError("плановая дата превентивной заявки не может быть в прошлом")
		}
		if scheduledDate.After(horizon) {
			return apperrors.NewValidationError("плановая дата превентивной заявки не может быть позже чем через %d года", constants.PreventiveScheduleHorizonYears)
		}
	case constants.TypeCorrective:
		if scheduledDate != nil && scheduledDate.After(now) {
			return apperrors.NewValidationError("корректирующая заявка не может иметь плановую дату в будущем")
		}
	}
	return nil
}

func (s *RequestService) CreateRequest(ctx context.Context, actor *authz.Actor, data dto.CreateRequestDTO) (*dto.RequestDTO, error) {
	if err := authz.CanCreateRequest(actor); err != nil {
		return nil, err
	}

	reqType := constants.RequestType(data.Type)
	if !reqType.IsValid() {
		return nil, apperrors.NewValidationError("неизвестный тип заявки: %q", data.Type)
	}

	var scheduledDate *time.Time
	if data.ScheduledDate.Valid {
		d := data.ScheduledDate.Time
		scheduledDate = &d
	}
	if err := s.validateSchedule(reqType, scheduledDate); err != nil {
		return nil, err
	}

	creator, err := s.userRepo.FindUserByID(ctx, actor.ID)
	if err != nil {
		s.logger.Warn("CreateRequest: создатель не найден", zap.Uint64("actorID", actor.ID), zap.Error(err))
		return nil, err
	}

	var newRequestID uint64
	opID := uuid.New()

	err = s.txm.RunInTransaction(ctx, func(tx pgx.Tx) error {
		equipment, err := s.equipmentRepo.FindEquipmentForUpdateInTx(ctx, tx, data.EquipmentID)
		if err != nil {
			return err
		}
		if err := AssertEquipmentEligible(equipment); err != nil {
			return err
		}

		request := &entities.MaintenanceRequest{
			Subject:     data.Subject,
			Description: data.Description,
			Type:        reqType,
			Status:      constants.StatusNew,
			EquipmentID: equipment.ID,
			// Команда заявки наследуется от оборудования и дальше не меняется.
			TeamID:        equipment.TeamID,
			ScheduledDate: scheduledDate,
			CreatorID:     creator.ID,
		}

		newRequestID, err = s.requestRepo.CreateRequestInTx(ctx, tx, request)
		if err != nil {
			return err
		}

		return s.logRepo.AppendLogInTx(ctx, tx, &entities.RequestLog{
			RequestID: newRequestID,
			OldStatus: nil,
			NewStatus: constants.StatusNew,
			ChangedBy: actor.ID,
			TxID:      opID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Заявка создана",
		zap.Uint64("requestID", newRequestID),
		zap.Uint64("actorID", actor.ID),
		zap.String("type", reqType.String()),
	)
	return s.loadRequestDTO(ctx, newRequestID)
}

func (s *RequestService) AssignRequest(ctx context.Context, actor *authz.Actor, requestID, technicianID uint64) (*dto.RequestDTO, error) {
	if err := authz.CanAssignRequest(actor); err != nil {
		return nil, err
	}

	opID := uuid.New()

	err := s.txm.RunInTransaction(ctx, func(tx pgx.Tx) error {
		request, err := s.requestRepo.FindRequestForUpdateInTx(ctx, tx, requestID)
		if err != nil {
			return err
		}

		technician, err := s.userRepo.FindUserByID(ctx, technicianID)
		if err != nil {
			return err
		}
		if technician.Role != constants.RoleTechnician {
			return apperrors.NewValidationError("исполнителем может быть только пользователь с ролью TECHNICIAN")
		}
		if technician.TeamID == nil || *technician.TeamID != request.TeamID {
			return &apperrors.TeamMismatchError{
				RequestTeamID:    request.TeamID,
				TechnicianTeamID: technician.TeamID,
			}
		}

		// Переназначение из IN_PROGRESS идемпотентно, любой другой исходный
		// статус обязан пройти таблицу переходов.
		from := request.Status
		if from != constants.StatusInProgress && !constants.CanTransition(from, constants.StatusInProgress) {
			return apperrors.NewInvalidStatusTransition(from, constants.StatusInProgress)
		}

		if err := s.requestRepo.AssignInTx(ctx, tx, requestID, technicianID, constants.StatusInProgress); err != nil {
			return err
		}

		oldStatus := from
		return s.logRepo.AppendLogInTx(ctx, tx, &entities.RequestLog{
			RequestID: requestID,
			OldStatus: &oldStatus,
			NewStatus: constants.StatusInProgress,
			ChangedBy: actor.ID,
			TxID:      opID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Заявка назначена",
		zap.Uint64("requestID", requestID),
		zap.Uint64("technicianID", technicianID),
		zap.Uint64("actorID", actor.ID),
	)
	return s.loadRequestDTO(ctx, requestID)
}

func (s *RequestService) UpdateRequestStatus(ctx context.Context, actor *authz.Actor, requestID uint64, newStatus string) (*dto.RequestDTO, error) {
	target := constants.RequestStatus(newStatus)
	if !target.IsValid() {
		return nil, apperrors.NewValidationError("неизвестный статус: %q", newStatus)
	}

	opID := uuid.New()

	err := s.txm.RunInTransaction(ctx, func(tx pgx.Tx) error {
		request, err := s.requestRepo.FindRequestForUpdateInTx(ctx, tx, requestID)
		if err != nil {
			return err
		}

		from := request.Status
		if !constants.CanTransition(from, target) {
			return apperrors.NewInvalidStatusTransition(from, target)
		}
		if err := authz.CanUpdateStatus(actor, request, target); err != nil {
			return err
		}

		if err := s.requestRepo.UpdateStatusInTx(ctx, tx, requestID, target); err != nil {
			return err
		}

		// Переход в SCRAP всегда тянет за собой списание оборудования.
		if target == constants.StatusScrap {
			if err := s.equipmentRepo.MarkScrappedInTx(ctx, tx, request.EquipmentID); err != nil {
				return err
			}
		}

		oldStatus := from
		return s.logRepo.AppendLogInTx(ctx, tx, &entities.RequestLog{
			RequestID: requestID,
			OldStatus: &oldStatus,
			NewStatus: target,
			ChangedBy: actor.ID,
			TxID:      opID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Статус заявки обновлён",
		zap.Uint64("requestID", requestID),
		zap.String("newStatus", target.String()),
		zap.Uint64("actorID", actor.ID),
	)
	return s.loadRequestDTO(ctx, requestID)
}

func (s *RequestService) CompleteRequest(ctx context.Context, actor *authz.Actor, requestID uint64, durationHours float64) (*dto.RequestDTO, error) {
	if durationHours <= 0 {
		return nil, apperrors.NewValidationError("длительность работ должна быть больше нуля")
	}

	opID := uuid.New()

	err := s.txm.RunInTransaction(ctx, func(tx pgx.Tx) error {
		request, err := s.requestRepo.FindRequestForUpdateInTx(ctx, tx, requestID)
		if err != nil {
			return err
		}

		from := request.Status
		if from != constants.StatusInProgress {
			return apperrors.NewInvalidStatusTransition(from, constants.StatusRepaired)
		}
		if err := authz.CanUpdateStatus(actor, request, constants.StatusRepaired); err != nil {
			return err
		}

		if err := s.requestRepo.CompleteInTx(ctx, tx, requestID, durationHours); err != nil {
			return err
		}

		oldStatus := from
		return s.logRepo.AppendLogInTx(ctx, tx, &entities.RequestLog{
			RequestID: requestID,
			OldStatus: &oldStatus,
			NewStatus: constants.StatusRepaired,
			ChangedBy: actor.ID,
			TxID:      opID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Заявка завершена",
		zap.Uint64("requestID", requestID),
		zap.Float64("durationHours", durationHours),
		zap.Uint64("actorID", actor.ID),
	)
	return s.loadRequestDTO(ctx, requestID)
}

// ScrapRequest — единственная операция, меняющая два агрегата атомарно:
// заявка переводится в SCRAP, оборудование списывается в той же транзакции.
func (s *RequestService) ScrapRequest(ctx context.Context, actor *authz.Actor, requestID uint64) (*dto.RequestDTO, error) {
	opID := uuid.New()

	err := s.txm.RunInTransaction(ctx, func(tx pgx.Tx) error {
		request, err := s.requestRepo.FindRequestForUpdateInTx(ctx, tx, requestID)
		if err != nil {
			return err
		}

		from := request.Status
		if !constants.CanTransition(from, constants.StatusScrap) {
			return apperrors.NewInvalidStatusTransition(from, constants.StatusScrap)
		}
		if err := authz.CanUpdateStatus(actor, request, constants.StatusScrap); err != nil {
			return err
		}

		if err := s.requestRepo.UpdateStatusInTx(ctx, tx, requestID, constants.StatusScrap); err != nil {
			return err
		}
		if err := s.equipmentRepo.MarkScrappedInTx(ctx, tx, request.EquipmentID); err != nil {
			return err
		}

		oldStatus := from
		return s.logRepo.AppendLogInTx(ctx, tx, &entities.RequestLog{
			RequestID: requestID,
			OldStatus: &oldStatus,
			NewStatus: constants.StatusScrap,
			ChangedBy: actor.ID,
			TxID:      opID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Заявка списана вместе с оборудованием",
		zap.Uint64("requestID", requestID),
		zap.Uint64("actorID", actor.ID),
	)
	return s.loadRequestDTO(ctx, requestID)
}

func (s *RequestService) FindRequest(ctx context.Context, actor *authz.Actor, requestID uint64) (*dto.RequestDTO, error) {
	request, err := s.requestRepo.FindRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanViewRequest(actor, request); err != nil {
		return nil, err
	}
	return mapRequestToDTO(request), nil
}

// GetRequests ограничивает выборку командой актора. Явный запрос чужой
// команды — отказ, а не молчаливая подмена фильтра.
func (s *RequestService) GetRequests(ctx context.Context, actor *authz.Actor, filter types.Filter) ([]dto.RequestDTO, uint64, error) {
	if actor == nil {
		return nil, 0, apperrors.NewPermissionDenied("canViewRequest", apperrors.DenyMissingActor)
	}

	if actor.Role != constants.RoleAdmin {
		if actor.TeamID == nil {
			return nil, 0, apperrors.NewPermissionDenied("canViewRequest", apperrors.DenyWrongTeam)
		}
		if requested, ok := filter.Filter["team_id"]; ok {
			if !isSameTeamFilter(requested, *actor.TeamID) {
				return nil, 0, apperrors.NewPermissionDenied("canViewRequest", apperrors.DenyWrongTeam)
			}
		}
		if filter.Filter == nil {
			filter.Filter = make(map[string]interface{})
		}
		filter.Filter["team_id"] = *actor.TeamID
	}

	requests, total, err := s.requestRepo.GetRequests(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.RequestDTO, 0, len(requests))
	for i := range requests {
		result = append(result, *mapRequestToDTO(&requests[i]))
	}
	return result, total, nil
}

func (s *RequestService) loadRequestDTO(ctx context.Context, requestID uint64) (*dto.RequestDTO, error) {
	request, err := s.requestRepo.FindRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return mapRequestToDTO(request), nil
}

func mapRequestToDTO(request *entities.MaintenanceRequest) *dto.RequestDTO {
	result := &dto.RequestDTO{
		ID:            request.ID,
		Subject:       request.Subject,
		Description:   request.Description,
		Type:          request.Type.String(),
		Status:        request.Status.String(),
		EquipmentID:   request.EquipmentID,
		TeamID:        request.TeamID,
		AssignedTo:    request.AssignedTo,
		ScheduledDate: request.ScheduledDate,
		DurationHours: request.DurationHours,
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
	}
	if request.Equipment != nil {
		result.Equipment = &dto.ShortEquipmentDTO{
			ID:           request.Equipment.ID,
			Name:         request.Equipment.Name,
			SerialNumber: request.Equipment.SerialNumber,
			IsScrapped:   request.Equipment.IsScrapped,
		}
	}
	if request.Team != nil {
		result.Team = &dto.ShortTeamDTO{ID: request.Team.ID, Name: request.Team.Name}
	}
	if request.Creator != nil {
		result.Creator = mapShortUser(request.Creator)
	}
	if request.Assignee != nil {
		result.Assignee = mapShortUser(request.Assignee)
	}
	return result
}

func mapShortUser(user *entities.User) *dto.ShortUserDTO {
	return &dto.ShortUserDTO{
		ID:    user.ID,
		Fio:   user.Fio,
		Email: user.Email,
		Role:  user.Role.String(),
	}
}

func isSameTeamFilter(requested interface{}, teamID uint64) bool {
	switch v := requested.(type) {
	case uint64:
		return v == teamID
	case int:
		return v >= 0 && uint64(v) == teamID
	case int64:
		return v >= 0 && uint64(v) == teamID
	case string:
		return v == strconv.FormatUint(teamID, 10)
	}
	return false
}
