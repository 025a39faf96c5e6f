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

// AssertEquipmentEligible — страж оборудования: списанное оборудование
// не принимает новые заявки.
func AssertEquipmentEligible(equipment *entities.Equipment) error {
	if equipment == nil {
		return apperrors.ErrNotFound
	}
	if equipment.IsScrapped {
		return &apperrors.EquipmentScrappedError{EquipmentID: equipment.ID}
	}
	return nil
}

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, actor *authz.Actor, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, actor *authz.Actor, id uint64) (*dto.EquipmentDTO, error)
	CreateEquipment(ctx context.Context, actor *authz.Actor, data dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error)
	UpdateEquipment(ctx context.Context, actor *authz.Actor, id uint64, data dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error)
	ScrapEquipment(ctx context.Context, actor *authz.Actor, id uint64) error
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	teamRepo      repositories.TeamRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		teamRepo:      teamRepo,
		logger:        logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, actor *authz.Actor, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	if actor == nil {
		return nil, 0, apperrors.NewPermissionDenied("viewEquipment", apperrors.DenyMissingActor)
	}

	items, total, err := s.equipmentRepo.GetEquipments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.EquipmentDTO, 0, len(items))
	for i := range items {
		result = append(result, *mapEquipmentToDTO(&items[i]))
	}
	return result, total, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, actor *authz.Actor, id uint64) (*dto.EquipmentDTO, error) {
	if actor == nil {
		return nil, apperrors.NewPermissionDenied("viewEquipment", apperrors.DenyMissingActor)
	}

	equipment, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapEquipmentToDTO(equipment), nil
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, actor *authz.Actor, data dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	if err := authz.CanManageCatalog(actor); err != nil {
		return nil, err
	}

	if _, err := s.teamRepo.FindTeam(ctx, data.TeamID); err != nil {
		return nil, err
	}

	equipment := &entities.Equipment{
		Name:         data.Name,
		SerialNumber: data.SerialNumber,
		Department:   data.Department,
		Location:     data.Location,
		PurchaseDate: data.PurchaseDate,
		TeamID:       data.TeamID,
	}
	if data.WarrantyEnd.Valid {
		w := data.WarrantyEnd.Time
		equipment.WarrantyEnd = &w
	}

	id, err := s.equipmentRepo.CreateEquipment(ctx, equipment)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Оборудование создано", zap.Uint64("equipmentID", id), zap.Uint64("actorID", actor.ID))

	created, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapEquipmentToDTO(created), nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, actor *authz.Actor, id uint64, data dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error) {
	if err := authz.CanManageCatalog(actor); err != nil {
		return nil, err
	}

	current, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	// Списанное оборудование заморожено: никаких правок полей.
	if current.IsScrapped {
		return nil, &apperrors.EquipmentScrappedError{EquipmentID: id}
	}

	if _, err := s.teamRepo.FindTeam(ctx, data.TeamID); err != nil {
		return nil, err
	}

	equipment := &entities.Equipment{
		ID:           id,
		Name:         data.Name,
		SerialNumber: data.SerialNumber,
		Department:   data.Department,
		Location:     data.Location,
		PurchaseDate: data.PurchaseDate,
		TeamID:       data.TeamID,
	}
	if data.WarrantyEnd.Valid {
		w := data.WarrantyEnd.Time
		equipment.WarrantyEnd = &w
	}

	if err := s.equipmentRepo.UpdateEquipment(ctx, equipment); err != nil {
		return nil, err
	}

	updated, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapEquipmentToDTO(updated), nil
}

// ScrapEquipment — прямое списание оборудования (без заявки). Идемпотентно.
func (s *EquipmentService) ScrapEquipment(ctx context.Context, actor *authz.Actor, id uint64) error {
	if err := authz.CanManageCatalog(actor); err != nil {
		return err
	}

	if err := s.equipmentRepo.MarkScrapped(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Оборудование списано", zap.Uint64("equipmentID", id), zap.Uint64("actorID", actor.ID))
	return nil
}

func mapEquipmentToDTO(e *entities.Equipment) *dto.EquipmentDTO {
	return &dto.EquipmentDTO{
		ID:           e.ID,
		Name:         e.Name,
		SerialNumber: e.SerialNumber,
		Department:   e.Department,
		Location:     e.Location,
		PurchaseDate: e.PurchaseDate,
		WarrantyEnd:  e.WarrantyEnd,
		TeamID:       e.TeamID,
		IsScrapped:   e.IsScrapped,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
