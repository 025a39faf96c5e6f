package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

type fakeTeamRepo struct {
	items map[uint64]entities.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{items: make(map[uint64]entities.Team)}
}

func (r *fakeTeamRepo) GetTeams(ctx context.Context, filter types.Filter) ([]entities.Team, uint64, error) {
	var result []entities.Team
	for _, item := range r.items {
		result = append(result, item)
	}
	return result, uint64(len(result)), nil
}

func (r *fakeTeamRepo) FindTeam(ctx context.Context, id uint64) (*entities.Team, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &item, nil
}

func (r *fakeTeamRepo) CreateTeam(ctx context.Context, team *entities.Team) (uint64, error) {
	r.items[team.ID] = *team
	return team.ID, nil
}

func (r *fakeTeamRepo) UpdateTeam(ctx context.Context, team *entities.Team) error {
	r.items[team.ID] = *team
	return nil
}

func (r *fakeTeamRepo) DeleteTeam(ctx context.Context, id uint64) error {
	delete(r.items, id)
	return nil
}

func newEquipmentServiceEnv() (EquipmentServiceInterface, *fakeEquipmentRepo, *fakeTeamRepo) {
	equipmentRepo := newFakeEquipmentRepo()
	teamRepo := newFakeTeamRepo()
	teamRepo.items[10] = entities.Team{ID: 10, Name: "Механики"}
	equipmentRepo.items[100] = entities.Equipment{ID: 100, Name: "Станок", SerialNumber: "SN-100", TeamID: 10}
	svc := NewEquipmentService(equipmentRepo, teamRepo, zap.NewNop())
	return svc, equipmentRepo, teamRepo
}

func managerActor() *authz.Actor {
	teamID := uint64(10)
	return &authz.Actor{ID: 2, Role: constants.RoleManager, TeamID: &teamID}
}

func technicianActor() *authz.Actor {
	teamID := uint64(10)
	return &authz.Actor{ID: 3, Role: constants.RoleTechnician, TeamID: &teamID}
}

func TestAssertEquipmentEligible(t *testing.T) {
	assert.ErrorIs(t, AssertEquipmentEligible(nil), apperrors.ErrNotFound)

	var scrapped *apperrors.EquipmentScrappedError
	err := AssertEquipmentEligible(&entities.Equipment{ID: 7, IsScrapped: true})
	require.True(t, errors.As(err, &scrapped))
	assert.Equal(t, uint64(7), scrapped.EquipmentID)

	assert.NoError(t, AssertEquipmentEligible(&entities.Equipment{ID: 7}))
}

func TestEquipmentService_ScrapIsIdempotent(t *testing.T) {
	svc, equipmentRepo, _ := newEquipmentServiceEnv()
	ctx := context.Background()

	require.NoError(t, svc.ScrapEquipment(ctx, managerActor(), 100))
	require.NoError(t, svc.ScrapEquipment(ctx, managerActor(), 100), "повторное списание не ошибка")

	equipment, err := equipmentRepo.FindEquipment(ctx, 100)
	require.NoError(t, err)
	assert.True(t, equipment.IsScrapped)
}

func TestEquipmentService_ScrapDeniedForTechnician(t *testing.T) {
	svc, _, _ := newEquipmentServiceEnv()

	err := svc.ScrapEquipment(context.Background(), technicianActor(), 100)
	var denied *apperrors.PermissionDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, apperrors.DenyWrongRole, denied.Reason)
}

func TestEquipmentService_UpdateScrappedRejected(t *testing.T) {
	svc, equipmentRepo, _ := newEquipmentServiceEnv()
	ctx := context.Background()

	require.NoError(t, equipmentRepo.MarkScrapped(ctx, 100))

	_, err := svc.UpdateEquipment(ctx, managerActor(), 100, dto.UpdateEquipmentDTO{
		Name:         "Новое имя",
		SerialNumber: "SN-100",
		PurchaseDate: time.Now(),
		TeamID:       10,
	})
	var scrapped *apperrors.EquipmentScrappedError
	require.True(t, errors.As(err, &scrapped))
}

func TestEquipmentService_CreateRequiresExistingTeam(t *testing.T) {
	svc, _, _ := newEquipmentServiceEnv()

	_, err := svc.CreateEquipment(context.Background(), managerActor(), dto.CreateEquipmentDTO{
		Name:         "Пресс",
		SerialNumber: "SN-777",
		PurchaseDate: time.Now(),
		TeamID:       999,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
